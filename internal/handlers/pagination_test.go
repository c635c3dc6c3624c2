package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit := parsePaginationParams("", "")
	if page != 1 || limit != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsCapsLimit(t *testing.T) {
	_, limit := parsePaginationParams("1", "500")
	if limit != maxLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxLimit, limit)
	}
}

func TestParsePaginationParamsIgnoresGarbage(t *testing.T) {
	page, limit := parsePaginationParams("abc", "-3")
	if page != 1 || limit != 10 {
		t.Fatalf("expected defaults for garbage input, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsValues(t *testing.T) {
	page, limit := parsePaginationParams("2", "10")
	if page != 2 || limit != 10 {
		t.Fatalf("expected 2/10, got %d/%d", page, limit)
	}
}
