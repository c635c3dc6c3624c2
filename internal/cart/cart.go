package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. UnitPrice is a display cache only: checkout always
// re-reads the catalog price, so a stale value here can never leak into an
// order.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	VariantID   *uuid.UUID      `json:"variantId,omitempty"`
	ProductName string          `json:"productName"`
	VariantName string          `json:"variantName,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"maxQuantity"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// Cart is the pre-order working set for one user. Mutation is
// last-writer-wins per user: the whole cart is stored as one value.
type Cart struct {
	UserID    uuid.UUID `json:"userId"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddItem merges the new line into the cart: an existing line for the same
// product+variant absorbs the quantity, clamped to the line's max.
func (c *Cart) AddItem(item Item) {
	for i := range c.Items {
		if sameLine(c.Items[i], item) {
			c.Items[i].Quantity = clampQuantity(c.Items[i].Quantity+item.Quantity, item.MaxQuantity)
			c.Items[i].UnitPrice = item.UnitPrice
			c.Items[i].MaxQuantity = item.MaxQuantity
			return
		}
	}
	item.ID = uuid.New()
	item.Quantity = clampQuantity(item.Quantity, item.MaxQuantity)
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of the identified line; quantities below 1
// remove the line. The bool result reports whether the line existed.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			if quantity < 1 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return true
			}
			c.Items[i].Quantity = clampQuantity(quantity, c.Items[i].MaxQuantity)
			return true
		}
	}
	return false
}

// RemoveItem deletes the identified line. The bool result reports whether the
// line existed.
func (c *Cart) RemoveItem(itemID uuid.UUID) bool {
	return c.UpdateQuantity(itemID, 0)
}

// Subtotal sums the cached line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func sameLine(a, b Item) bool {
	if a.ProductID != b.ProductID {
		return false
	}
	if (a.VariantID == nil) != (b.VariantID == nil) {
		return false
	}
	if a.VariantID != nil && *a.VariantID != *b.VariantID {
		return false
	}
	return true
}

func clampQuantity(quantity, max int) int {
	if quantity < 1 {
		return 1
	}
	if max > 0 && quantity > max {
		return max
	}
	return quantity
}
