package models

import "github.com/shopspring/decimal"

// ShippingMethod is one of the fixed delivery options offered at checkout.
type ShippingMethod struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Price    decimal.Decimal `json:"price"`
	Estimate string          `json:"estimate"`
}

const (
	ShippingStandard  = "standard"
	ShippingExpress   = "express"
	ShippingOvernight = "overnight"
)

// ShippingMethods returns the available options. Standard is free; the others
// carry a fixed fee.
func ShippingMethods() []ShippingMethod {
	return []ShippingMethod{
		{ID: ShippingStandard, Label: "Standard delivery", Price: decimal.Zero, Estimate: "5-7 days"},
		{ID: ShippingExpress, Label: "Express delivery", Price: decimal.NewFromFloat(14.90), Estimate: "2-3 days"},
		{ID: ShippingOvernight, Label: "Overnight delivery", Price: decimal.NewFromFloat(29.90), Estimate: "1 day"},
	}
}

// ShippingMethodByID looks up a method by its identifier.
func ShippingMethodByID(id string) (ShippingMethod, bool) {
	for _, m := range ShippingMethods() {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// Payment method selectors accepted at checkout. Raw card data never reaches
// this backend; card payments are tokenized client-side by the gateway.
const (
	PaymentCard   = "card"
	PaymentPaypal = "paypal"
	PaymentBank   = "bank"
)

func ValidPaymentMethod(id string) bool {
	return id == PaymentCard || id == PaymentPaypal || id == PaymentBank
}
