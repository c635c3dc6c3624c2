package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IsOnSale reports whether the sale price is actually in effect: sales only
// apply when enabled and strictly below the regular price.
func IsOnSale(price decimal.Decimal, saleEnabled bool, salePrice decimal.Decimal) bool {
	return saleEnabled && salePrice.IsPositive() && salePrice.LessThan(price)
}

// EffectivePrice returns the price a buyer pays right now.
func EffectivePrice(price decimal.Decimal, saleEnabled bool, salePrice decimal.Decimal) decimal.Decimal {
	if IsOnSale(price, saleEnabled, salePrice) {
		return salePrice
	}
	return price
}

// EffectivePrice resolves the product's current unit price, including any
// variant delta.
func (p Product) EffectivePrice(variant *ProductVariant) decimal.Decimal {
	price := EffectivePrice(p.Price, p.SaleEnabled, p.SalePrice)
	if variant != nil {
		price = price.Add(variant.PriceDelta)
	}
	return price
}

// Normalize fills the derived display fields that are not persisted.
func (p *Product) Normalize() {
	p.IsOnSale = IsOnSale(p.Price, p.SaleEnabled, p.SalePrice)
	p.InStock = p.Stock > 0
}

// ValidateSaleFields rejects sale configurations that would never take
// effect or would undercut to zero.
func ValidateSaleFields(price decimal.Decimal, saleEnabled bool, salePrice decimal.Decimal, salePriceSet bool) error {
	if !saleEnabled {
		return nil
	}
	if !salePriceSet {
		return fmt.Errorf("salePrice is required when saleEnabled is true")
	}
	if !salePrice.IsPositive() {
		return fmt.Errorf("salePrice must be greater than 0")
	}
	if salePrice.GreaterThanOrEqual(price) {
		return fmt.Errorf("salePrice must be less than price")
	}
	return nil
}
