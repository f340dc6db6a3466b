package port

import (
	"context"

	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderRequest struct {
	IdempotencyKey string             `json:"idempotencyKey"`
	UserID         string             `json:"user"`
	Items          []domain.OrderLine `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Currency       string             `json:"currency"`
	Shipping       domain.Shipping    `json:"shipping"`
}

type OrderPlacer interface {
	CreateOrder(ctx context.Context, req OrderRequest) (domain.Order, error)
}

// AuthProvider reports the current authentication state. It is consulted on every call and
// must not cache.
type AuthProvider interface {
	Current(ctx context.Context) domain.Auth
}

type AuthProviderFunc func(ctx context.Context) domain.Auth

func (f AuthProviderFunc) Current(ctx context.Context) domain.Auth {
	return f(ctx)
}
