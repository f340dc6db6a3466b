package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CartItem is one product line in a cart. Title and Photos are a snapshot taken when the
// product was first added and are not refreshed from the catalog afterwards.
type CartItem struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Photos []string `json:"photos,omitempty"`

	UnitPrice     decimal.Decimal     `json:"unitPrice"`
	SalePrice     decimal.NullDecimal `json:"salePrice"`
	DiscountType  DiscountType        `json:"discountType"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	Quantity      int                 `json:"quantity"`

	AddedAt time.Time `json:"addedAt"`
}

// PrimaryPhoto returns the first photo URL or an empty string.
func (i CartItem) PrimaryPhoto() string {
	if len(i.Photos) == 0 {
		return ""
	}
	return i.Photos[0]
}

// HasSalePrice reports whether the sale price takes precedence over the discount fields.
func (i CartItem) HasSalePrice() bool {
	return i.SalePrice.Valid && i.SalePrice.Decimal.IsPositive()
}

func (i CartItem) Validate() error {
	if i.ID == "" {
		return validationErr("id is empty")
	}
	if !i.UnitPrice.IsPositive() {
		return validationErr(fmt.Sprintf("item[%s] unit price %s is not positive", i.ID, i.UnitPrice))
	}
	if i.SalePrice.Valid && i.SalePrice.Decimal.IsNegative() {
		return validationErr(fmt.Sprintf("item[%s] sale price %s is negative", i.ID, i.SalePrice.Decimal))
	}
	if !i.DiscountType.Valid() {
		return validationErr(fmt.Sprintf("item[%s] discount type %q is unknown", i.ID, string(i.DiscountType)))
	}
	if i.DiscountValue.IsNegative() {
		return validationErr(fmt.Sprintf("item[%s] discount value %s is negative", i.ID, i.DiscountValue))
	}
	if i.DiscountType == DiscountPercent && i.DiscountValue.GreaterThan(hundred) {
		return validationErr(fmt.Sprintf("item[%s] percent discount %s exceeds 100", i.ID, i.DiscountValue))
	}
	if i.Quantity < 1 {
		return validationErr(fmt.Sprintf("item[%s] quantity %d is less than 1", i.ID, i.Quantity))
	}

	return nil
}

// Clone returns a deep copy, so callers can't mutate a store's items through a view.
func (i CartItem) Clone() CartItem {
	if i.Photos != nil {
		i.Photos = append([]string(nil), i.Photos...)
	}
	return i
}

func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}

	cloned := make([]CartItem, len(items))
	for idx, item := range items {
		cloned[idx] = item.Clone()
	}
	return cloned
}
