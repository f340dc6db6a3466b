package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/nikolayk812/bookcart/internal/port"
)

func (c *Client) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var data struct {
		Orders []domain.Order `json:"orders"`
	}

	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/order/user/" + url.PathEscape(userID)}, &data); err != nil {
		return nil, err
	}

	return data.Orders, nil
}

// CreateOrder implements port.OrderPlacer.
func (c *Client) CreateOrder(ctx context.Context, req port.OrderRequest) (domain.Order, error) {
	var data struct {
		Order domain.Order `json:"order"`
	}

	r := request{
		method:  http.MethodPost,
		path:    "/order",
		body:    req,
		headers: map[string]string{"Idempotency-Key": req.IdempotencyKey},
	}
	if _, err := c.do(ctx, r, &data); err != nil {
		return domain.Order{}, err
	}

	return data.Order, nil
}
