package orders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/climasite/backend/internal/models"
)

var (
	// ErrOrderNotFound covers both a missing id and an order owned by someone
	// else, so callers cannot probe for other users' orders.
	ErrOrderNotFound = errors.New("order not found")

	ErrEmptyCart = errors.New("cart is empty")

	// ErrConcurrentModification means the order row changed between the
	// precondition check and the update.
	ErrConcurrentModification = errors.New("order was modified concurrently")
)

// NotCancellableError is returned when a cancel request arrives for an order
// past the point of no return.
type NotCancellableError struct {
	Status models.OrderStatus
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("order in status %s can no longer be cancelled", e.Status)
}

// TransitionError is returned for a status change the policy does not allow.
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
}

// ItemFailure describes why one checkout line was rejected.
type ItemFailure struct {
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Reason    string     `json:"reason"`
	Available int        `json:"available,omitempty"`
	Requested int        `json:"requested,omitempty"`
}

const (
	ReasonNotFound   = "product not found"
	ReasonInactive   = "product no longer available"
	ReasonOutOfStock = "insufficient stock"
	ReasonBadVariant = "variant not found"
)

// CheckoutError rejects a whole submission; no partial order is created.
type CheckoutError struct {
	Failures []ItemFailure
}

func (e *CheckoutError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, fmt.Sprintf("%s: %s", f.ProductID, f.Reason))
	}
	return "checkout rejected: " + strings.Join(reasons, "; ")
}
