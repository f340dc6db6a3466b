package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrStorage         = errors.New("storage error")
	ErrCorrupted       = errors.New("stored cart is corrupted")
	ErrUnauthenticated = errors.New("user is not authenticated")
	ErrEmptyCart       = errors.New("cart is empty")
)

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
