package handlers

import "strconv"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePaginationParams reads page/limit query values, falling back to
// defaults and capping the page size.
func parsePaginationParams(pageStr, limitStr string) (int, int) {
	page := defaultPage
	limit := defaultLimit

	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
			if limit > maxLimit {
				limit = maxLimit
			}
		}
	}

	return page, limit
}
