package models

import "fmt"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
	StatusReturned   OrderStatus = "returned"
)

// orderTransitions is the allowed-transition table. Cancellation is limited to
// pending/paid; refunds and returns are administrative and reachable from
// every non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusPaid, StatusCancelled, StatusRefunded, StatusReturned},
	StatusPaid:       {StatusProcessing, StatusCancelled, StatusRefunded, StatusReturned},
	StatusProcessing: {StatusShipped, StatusRefunded, StatusReturned},
	StatusShipped:    {StatusDelivered, StatusReturned, StatusRefunded},
	StatusDelivered:  {StatusReturned, StatusRefunded},
}

// AllOrderStatuses lists every valid status, in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusPaid,
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
		StatusRefunded,
		StatusReturned,
	}
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, status := range AllOrderStatuses() {
		if string(status) == value {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status: %q", value)
}

// CanTransitionTo reports whether the policy allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanCancel reports whether a customer may still cancel an order in state s.
func (s OrderStatus) CanCancel() bool {
	return s == StatusPending || s == StatusPaid
}

// Terminal reports whether no further transition is defined from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}
