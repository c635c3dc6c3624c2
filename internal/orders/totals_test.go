package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestComputeTotalsInvariant(t *testing.T) {
	cases := []struct {
		name     string
		subtotal string
		shipping string
		taxRate  string
		discount string
	}{
		{"free shipping no tax", "1199.98", "0", "0", "0"},
		{"express with vat", "599.99", "14.90", "0.20", "0"},
		{"overnight with discount", "3249.00", "29.90", "0.20", "100.00"},
		{"rounding tax", "33.33", "0", "0.20", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := ComputeTotals(d(tc.subtotal), d(tc.shipping), d(tc.taxRate), d(tc.discount))

			expected := totals.Subtotal.
				Add(totals.ShippingCost).
				Add(totals.TaxAmount).
				Sub(totals.DiscountAmount)
			assert.True(t, totals.Total.Equal(expected),
				"total %s != subtotal %s + shipping %s + tax %s - discount %s",
				totals.Total, totals.Subtotal, totals.ShippingCost, totals.TaxAmount, totals.DiscountAmount)
		})
	}
}

func TestComputeTotalsHappyPathScenario(t *testing.T) {
	// One item at 599.99 x2 with free standard shipping and no tax.
	subtotal := d("599.99").Mul(decimal.NewFromInt(2))
	totals := ComputeTotals(subtotal, decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(d("1199.98")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.ShippingCost.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.Equal(d("1199.98")), "total %s", totals.Total)
}

func TestComputeTotalsRoundsTaxToCents(t *testing.T) {
	totals := ComputeTotals(d("33.33"), decimal.Zero, d("0.20"), decimal.Zero)

	assert.True(t, totals.TaxAmount.Equal(d("6.67")), "tax %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(d("40.00")), "total %s", totals.Total)
}
