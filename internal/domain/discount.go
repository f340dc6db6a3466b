package domain

import (
	"encoding/json"
	"fmt"
)

type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

// Valid reports whether d is a known discount type. The zero value means none.
func (d DiscountType) Valid() bool {
	switch d {
	case "", DiscountNone, DiscountPercent, DiscountAmount:
		return true
	default:
		return false
	}
}

// UnmarshalJSON treats an empty or null discount type as none.
func (d *DiscountType) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("discountType: %w", err)
	}

	if raw == nil || *raw == "" {
		*d = DiscountNone
		return nil
	}

	*d = DiscountType(*raw)
	return nil
}
