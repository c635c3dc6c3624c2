package models

import "testing"

func TestCanTransitionToHappyPath(t *testing.T) {
	steps := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{StatusPending, StatusPaid},
		{StatusPaid, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
	}
	for _, step := range steps {
		if !step.from.CanTransitionTo(step.to) {
			t.Fatalf("expected %s -> %s to be allowed", step.from, step.to)
		}
	}
}

func TestCanTransitionToRejectsSkips(t *testing.T) {
	denied := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusPaid, StatusDelivered},
		{StatusShipped, StatusPaid},
		{StatusDelivered, StatusPending},
		{StatusCancelled, StatusPaid},
		{StatusCancelled, StatusCancelled},
		{StatusRefunded, StatusPending},
	}
	for _, step := range denied {
		if step.from.CanTransitionTo(step.to) {
			t.Fatalf("expected %s -> %s to be denied", step.from, step.to)
		}
	}
}

func TestRefundAndReturnReachableFromNonTerminalStates(t *testing.T) {
	for _, status := range AllOrderStatuses() {
		if status.Terminal() {
			continue
		}
		if !status.CanTransitionTo(StatusRefunded) {
			t.Fatalf("expected %s -> %s to be allowed", status, StatusRefunded)
		}
		if !status.CanTransitionTo(StatusReturned) {
			t.Fatalf("expected %s -> %s to be allowed", status, StatusReturned)
		}
	}
}

func TestCanCancelOnlyEarlyStates(t *testing.T) {
	for _, status := range AllOrderStatuses() {
		want := status == StatusPending || status == StatusPaid
		if got := status.CanCancel(); got != want {
			t.Fatalf("CanCancel(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	for _, status := range []OrderStatus{StatusCancelled, StatusRefunded, StatusReturned} {
		if !status.Terminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
		for _, next := range AllOrderStatuses() {
			if status.CanTransitionTo(next) {
				t.Fatalf("terminal status %s allows transition to %s", status, next)
			}
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	if err != nil {
		t.Fatalf("ParseOrderStatus returned error: %v", err)
	}
	if status != StatusShipped {
		t.Fatalf("expected shipped, got %s", status)
	}

	if _, err := ParseOrderStatus("teleported"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
