// Package pricing computes effective prices and cart aggregates.
//
// Every function here is pure: results depend only on the arguments, and totals are folded
// fresh over the whole item slice on each call so a change to any line is always reflected.
package pricing

import (
	"fmt"

	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Totals struct {
	TotalQuantity int
	Subtotal      decimal.Decimal

	// Excluded lists IDs of items left out of the totals because they failed validation.
	Excluded []string
}

// EffectiveUnitPrice returns the price charged per unit. A positive sale price wins and is
// rounded up to a whole currency unit; otherwise the discount fields apply.
func EffectiveUnitPrice(item domain.CartItem) (decimal.Decimal, error) {
	if err := item.Validate(); err != nil {
		return decimal.Zero, err
	}

	if item.HasSalePrice() {
		return item.SalePrice.Decimal.Ceil(), nil
	}

	if !item.DiscountValue.IsPositive() {
		return item.UnitPrice, nil
	}

	switch item.DiscountType {
	case domain.DiscountPercent:
		off := item.UnitPrice.Mul(item.DiscountValue).Div(hundred)
		return nonNegative(item.UnitPrice.Sub(off)), nil
	case domain.DiscountAmount:
		return nonNegative(item.UnitPrice.Sub(item.DiscountValue)), nil
	default:
		return item.UnitPrice, nil
	}
}

func LineTotal(item domain.CartItem) (decimal.Decimal, error) {
	price, err := EffectiveUnitPrice(item)
	if err != nil {
		return decimal.Zero, fmt.Errorf("EffectiveUnitPrice: %w", err)
	}

	return price.Mul(decimal.NewFromInt(int64(item.Quantity))), nil
}

// CartTotals aggregates items. Malformed items are skipped and reported in Excluded rather
// than failing the whole cart.
func CartTotals(items []domain.CartItem) Totals {
	totals := Totals{Subtotal: decimal.Zero}

	for _, item := range items {
		line, err := LineTotal(item)
		if err != nil {
			totals.Excluded = append(totals.Excluded, item.ID)
			continue
		}

		totals.TotalQuantity += item.Quantity
		totals.Subtotal = totals.Subtotal.Add(line)
	}

	return totals
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
