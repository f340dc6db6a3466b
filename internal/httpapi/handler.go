// Package httpapi exposes the cart, checkout and order history to UI consumers over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/bookcart/internal/api"
	"github.com/nikolayk812/bookcart/internal/auth"
	"github.com/nikolayk812/bookcart/internal/cart"
	"github.com/nikolayk812/bookcart/internal/checkout"
	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/nikolayk812/bookcart/internal/history"
	"github.com/rs/zerolog"
)

const maxRequestBytes = 1 << 20

type OrderHistory interface {
	OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type Handler struct {
	carts    checkout.Carts
	checkout *checkout.Service
	orders   OrderHistory
	tokens   *auth.TokenParser
	logger   zerolog.Logger
}

func NewHandler(
	carts checkout.Carts,
	checkoutService *checkout.Service,
	orders OrderHistory,
	tokens *auth.TokenParser,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkoutService,
		orders:   orders,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(Authenticate(h.tokens))
	r.Use(RequestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cart", h.getCart)
		r.Delete("/cart", h.clearCart)
		r.Post("/cart/items", h.addItem)
		r.Post("/cart/items/{id}/increment", h.increment)
		r.Post("/cart/items/{id}/decrement", h.decrement)
		r.Delete("/cart/items/{id}", h.removeItem)

		r.Get("/checkout", h.beginCheckout)
		r.Post("/checkout", h.placeOrder)

		r.Get("/orders", h.listOrders)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.success(w, http.StatusOK, map[string]string{"state": "ok"})
}

type cartResponse struct {
	Visible bool       `json:"visible"`
	Cart    *cart.View `json:"cart,omitempty"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	a := AuthFromContext(r.Context())
	if !auth.CanShowCart(a) {
		h.success(w, http.StatusOK, cartResponse{Visible: false})
		return
	}

	store, ok := h.store(w, r, a)
	if !ok {
		return
	}

	view := store.View()
	h.success(w, http.StatusOK, cartResponse{Visible: true, Cart: &view})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorizedStore(w, r)
	if !ok {
		return
	}

	var snapshot domain.CartItem
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&snapshot); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid cart item: "+err.Error())
		return
	}

	h.mutate(w, r, store, func(ctx context.Context) error {
		return store.AddOrIncrement(ctx, snapshot.ID, snapshot)
	})
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorizedStore(w, r)
	if !ok {
		return
	}

	h.mutate(w, r, store, func(ctx context.Context) error {
		return store.Increment(ctx, chi.URLParam(r, "id"))
	})
}

func (h *Handler) decrement(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorizedStore(w, r)
	if !ok {
		return
	}

	h.mutate(w, r, store, func(ctx context.Context) error {
		return store.Decrement(ctx, chi.URLParam(r, "id"))
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorizedStore(w, r)
	if !ok {
		return
	}

	h.mutate(w, r, store, func(ctx context.Context) error {
		return store.Remove(ctx, chi.URLParam(r, "id"))
	})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorizedStore(w, r)
	if !ok {
		return
	}

	h.mutate(w, r, store, store.Clear)
}

func (h *Handler) beginCheckout(w http.ResponseWriter, r *http.Request) {
	h.success(w, http.StatusOK, map[string]string{"route": h.checkout.Begin(r.Context())})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var shipping domain.Shipping
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&shipping); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid shipping details: "+err.Error())
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), shipping)
	switch {
	case err == nil:
		h.success(w, http.StatusCreated, map[string]any{"order": order})
	case errors.Is(err, domain.ErrUnauthenticated):
		h.fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		h.fail(w, http.StatusBadRequest, err.Error())
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			h.serverError(w, http.StatusBadGateway, apiErr.Message)
			return
		}
		h.logger.Error().Err(err).Msg("place order")
		h.serverError(w, http.StatusInternalServerError, "order could not be placed")
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	a := AuthFromContext(r.Context())
	if !auth.CanShowCart(a) {
		h.fail(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		return
	}

	q := r.URL.Query()
	query := history.Query{Status: domain.OrderStatus(q.Get("status"))}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.PageSize, _ = strconv.Atoi(q.Get("limit"))

	orders, err := h.orders.OrdersByUser(r.Context(), a.User.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", a.User.ID).Msg("load order history")
		h.serverError(w, http.StatusBadGateway, "order history unavailable")
		return
	}

	h.success(w, http.StatusOK, history.Filter(orders, query))
}

func (h *Handler) authorizedStore(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	a := AuthFromContext(r.Context())
	if !auth.CanShowCart(a) {
		h.fail(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		return nil, false
	}
	return h.store(w, r, a)
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request, a domain.Auth) (*cart.Store, bool) {
	store, err := h.carts.Get(r.Context(), a.User.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", a.User.ID).Msg("open cart")
		h.serverError(w, http.StatusInternalServerError, "cart unavailable")
		return nil, false
	}
	return store, true
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, store *cart.Store, fn func(ctx context.Context) error) {
	err := fn(r.Context())
	switch {
	case err == nil:
		view := store.View()
		h.success(w, http.StatusOK, cartResponse{Visible: true, Cart: &view})
	case errors.Is(err, domain.ErrValidation):
		h.fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStorage):
		h.serverError(w, http.StatusServiceUnavailable, "cart could not be saved")
	default:
		h.logger.Error().Err(err).Msg("cart mutation")
		h.serverError(w, http.StatusInternalServerError, "cart update failed")
	}
}
