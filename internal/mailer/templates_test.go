package mailer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climasite/backend/internal/models"
)

func sampleOrder() *models.Order {
	tracking := "BG123456789"
	return &models.Order{
		OrderNumber:    "CS-20260901-0007",
		CustomerEmail:  "ivan@example.com",
		Currency:       "BGN",
		ShippingMethod: "standard",
		Subtotal:       decimal.RequireFromString("1199.98"),
		ShippingCost:   decimal.Zero,
		TaxAmount:      decimal.Zero,
		Total:          decimal.RequireFromString("1199.98"),
		TrackingNumber: &tracking,
		ShippingAddr: models.Address{
			FirstName:    "Ivan",
			LastName:     "Petrov",
			AddressLine1: "12 Vitosha Blvd",
			City:         "Sofia",
			Country:      "BG",
		},
		Items: []models.OrderItem{
			{
				ProductName: "ClimaCool Split 12000 BTU",
				Quantity:    2,
				LineTotal:   decimal.RequireFromString("1199.98"),
			},
		},
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	subject, body, err := RenderOrderConfirmation(sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, "Order CS-20260901-0007 confirmed", subject)
	assert.Contains(t, body, "ClimaCool Split 12000 BTU")
	assert.Contains(t, body, "1199.98 BGN")
	assert.Contains(t, body, "Hi Ivan")
	// Zero tax line is omitted.
	assert.NotContains(t, body, ">Tax<")
}

func TestRenderOrderShipped(t *testing.T) {
	subject, body, err := RenderOrderShipped(sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, "Order CS-20260901-0007 shipped", subject)
	assert.Contains(t, body, "BG123456789")
	assert.Contains(t, body, "Sofia")
}
