// Package checkout turns a cart into an order and removes the ordered lines from the cart
// once the backend confirms it.
package checkout

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/bookcart/internal/auth"
	"github.com/nikolayk812/bookcart/internal/cart"
	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/nikolayk812/bookcart/internal/port"
	"github.com/nikolayk812/bookcart/internal/pricing"
	"github.com/rs/zerolog"
)

// Carts resolves the cart store of a user.
type Carts interface {
	Get(ctx context.Context, ownerID string) (*cart.Store, error)
}

type Service struct {
	carts  Carts
	orders port.OrderPlacer
	auth   port.AuthProvider
	logger zerolog.Logger
	newKey func() string
}

func NewService(carts Carts, orders port.OrderPlacer, authProvider port.AuthProvider, logger zerolog.Logger) *Service {
	return &Service{
		carts:  carts,
		orders: orders,
		auth:   authProvider,
		logger: logger,
		newKey: func() string { return uuid.NewString() },
	}
}

// Begin returns the route a checkout click leads to, evaluated against the current auth state.
func (s *Service) Begin(ctx context.Context) string {
	return auth.CheckoutRoute(s.auth.Current(ctx))
}

// PlaceOrder submits the current cart. The submitted lines leave the cart only after the
// backend confirms the order; on any failure the cart is left untouched.
func (s *Service) PlaceOrder(ctx context.Context, shipping domain.Shipping) (domain.Order, error) {
	current := s.auth.Current(ctx)
	if !auth.CanShowCart(current) {
		return domain.Order{}, domain.ErrUnauthenticated
	}

	store, err := s.carts.Get(ctx, current.User.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("carts.Get: %w", err)
	}

	view := store.View()
	req, err := s.buildRequest(current.User.ID, view, shipping)
	if err != nil {
		return domain.Order{}, err
	}

	logger := s.logger.With().
		Str("owner_id", current.User.ID).
		Str("idempotency_key", req.IdempotencyKey).
		Logger()

	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("order placement failed")
		return domain.Order{}, fmt.Errorf("orders.CreateOrder: %w", err)
	}

	if err := store.RemoveOrdered(ctx, req.Items); err != nil {
		// the order is already placed, so this still reports success
		logger.Error().Err(err).Str("order_id", order.ID).Msg("removing ordered items from cart failed")
	}

	logger.Info().Str("order_id", order.ID).Str("subtotal", req.Subtotal.String()).Msg("order placed")
	return order, nil
}

func (s *Service) buildRequest(ownerID string, view cart.View, shipping domain.Shipping) (port.OrderRequest, error) {
	totals := pricing.CartTotals(view.Items)

	lines := make([]domain.OrderLine, 0, len(view.Items))
	for _, item := range view.Items {
		if slices.Contains(totals.Excluded, item.ID) {
			continue
		}

		price, err := pricing.EffectiveUnitPrice(item)
		if err != nil {
			return port.OrderRequest{}, fmt.Errorf("pricing.EffectiveUnitPrice: %w", err)
		}

		lines = append(lines, domain.OrderLine{
			ProductID: item.ID,
			Title:     item.Title,
			UnitPrice: price,
			Quantity:  item.Quantity,
		})
	}

	if len(lines) == 0 {
		return port.OrderRequest{}, domain.ErrEmptyCart
	}

	return port.OrderRequest{
		IdempotencyKey: s.newKey(),
		UserID:         ownerID,
		Items:          lines,
		Subtotal:       totals.Subtotal,
		Currency:       view.Subtotal.Currency.String(),
		Shipping:       shipping,
	}, nil
}
