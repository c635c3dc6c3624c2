package orders

import "github.com/shopspring/decimal"

// Totals is the monetary breakdown of an order. Total is derived once here
// and never independently mutated afterwards.
type Totals struct {
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals derives the order totals. Tax is applied to the subtotal;
// every component is rounded to cents before the final sum so the stored
// columns always satisfy total = subtotal + shipping + tax - discount.
func ComputeTotals(subtotal, shippingCost, taxRate, discount decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)
	shippingCost = shippingCost.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	discount = discount.Round(2)

	return Totals{
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Total:          subtotal.Add(shippingCost).Add(tax).Sub(discount),
	}
}
