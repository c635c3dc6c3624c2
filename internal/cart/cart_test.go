package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestAddItemMergesSameProductAndVariant(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()
	c := &Cart{UserID: uuid.New()}

	c.AddItem(Item{ProductID: productID, VariantID: &variantID, UnitPrice: price("599.99"), Quantity: 1, MaxQuantity: 10})
	c.AddItem(Item{ProductID: productID, VariantID: &variantID, UnitPrice: price("599.99"), Quantity: 2, MaxQuantity: 10})

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddItemKeepsDistinctVariantsApart(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()
	c := &Cart{UserID: uuid.New()}

	c.AddItem(Item{ProductID: productID, UnitPrice: price("100"), Quantity: 1, MaxQuantity: 5})
	c.AddItem(Item{ProductID: productID, VariantID: &variantID, UnitPrice: price("120"), Quantity: 1, MaxQuantity: 5})

	assert.Len(t, c.Items, 2)
}

func TestAddItemClampsToMaxQuantity(t *testing.T) {
	productID := uuid.New()
	c := &Cart{UserID: uuid.New()}

	c.AddItem(Item{ProductID: productID, UnitPrice: price("100"), Quantity: 4, MaxQuantity: 5})
	c.AddItem(Item{ProductID: productID, UnitPrice: price("100"), Quantity: 4, MaxQuantity: 5})

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	c := &Cart{UserID: uuid.New()}
	c.AddItem(Item{ProductID: uuid.New(), UnitPrice: price("100"), Quantity: 2, MaxQuantity: 10})
	itemID := c.Items[0].ID

	require.True(t, c.UpdateQuantity(itemID, 0))
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	c := &Cart{UserID: uuid.New()}
	assert.False(t, c.UpdateQuantity(uuid.New(), 3))
}

func TestSubtotal(t *testing.T) {
	c := &Cart{UserID: uuid.New()}
	c.AddItem(Item{ProductID: uuid.New(), UnitPrice: price("599.99"), Quantity: 2, MaxQuantity: 10})
	c.AddItem(Item{ProductID: uuid.New(), UnitPrice: price("29.90"), Quantity: 1, MaxQuantity: 10})

	assert.True(t, c.Subtotal().Equal(price("1229.88")), "got %s", c.Subtotal())
}
