package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestValidateSaleFieldsMissingSalePrice(t *testing.T) {
	err := ValidateSaleFields(d("100"), true, decimal.Zero, false)
	if err == nil {
		t.Fatal("expected validation error when saleEnabled=true and salePrice is missing")
	}
}

func TestValidateSaleFieldsSalePriceGreaterOrEqualPrice(t *testing.T) {
	for _, salePrice := range []string{"100", "120"} {
		err := ValidateSaleFields(d("100"), true, d(salePrice), true)
		if err == nil {
			t.Fatalf("expected validation error for salePrice=%s", salePrice)
		}
	}
}

func TestEffectivePriceUsesSalePriceWhenOnSale(t *testing.T) {
	if got := EffectivePrice(d("100"), true, d("75")); !got.Equal(d("75")) {
		t.Fatalf("expected sale price 75, got %s", got)
	}
	if got := EffectivePrice(d("100"), false, d("75")); !got.Equal(d("100")) {
		t.Fatalf("expected regular price 100 when sale disabled, got %s", got)
	}
}

func TestProductEffectivePriceAddsVariantDelta(t *testing.T) {
	product := Product{Price: d("599.99"), SaleEnabled: false}
	variant := ProductVariant{PriceDelta: d("150.00")}

	if got := product.EffectivePrice(&variant); !got.Equal(d("749.99")) {
		t.Fatalf("expected 749.99, got %s", got)
	}
	if got := product.EffectivePrice(nil); !got.Equal(d("599.99")) {
		t.Fatalf("expected 599.99, got %s", got)
	}
}

func TestNormalizeDerivedFields(t *testing.T) {
	product := Product{Price: d("120"), SaleEnabled: true, SalePrice: d("99"), Stock: 10}
	product.Normalize()

	if !product.IsOnSale {
		t.Fatal("expected IsOnSale to be true")
	}
	if !product.InStock {
		t.Fatal("expected InStock to be true")
	}
}
