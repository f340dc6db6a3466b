package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Product struct {
	ID            string              `json:"_id"`
	Title         string              `json:"title"`
	Author        string              `json:"author,omitempty"`
	Photos        []string            `json:"photos"`
	Price         decimal.Decimal     `json:"price"`
	SalePrice     decimal.NullDecimal `json:"salePrice"`
	DiscountType  domain.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	Stock         int                 `json:"stock"`
	Category      string              `json:"category,omitempty"`
}

// Snapshot converts a catalog product into a cart line snapshot. Quantity is left for the
// cart store to set.
func (p Product) Snapshot() domain.CartItem {
	discountType := p.DiscountType
	if discountType == "" {
		discountType = domain.DiscountNone
	}

	return domain.CartItem{
		ID:            p.ID,
		Title:         p.Title,
		Photos:        append([]string(nil), p.Photos...),
		UnitPrice:     p.Price,
		SalePrice:     p.SalePrice,
		DiscountType:  discountType,
		DiscountValue: p.DiscountValue,
	}
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var data struct {
		Doc []Category `json:"doc"`
	}

	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/category"}, &data); err != nil {
		return nil, err
	}

	return data.Doc, nil
}

type SearchQuery struct {
	Query  string
	Limit  int
	Page   int
	SortBy string
}

type SearchResult struct {
	Products     []Product
	TotalResults int
}

func (c *Client) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}

	var data struct {
		Products []Product `json:"products"`
	}

	env, err := c.do(ctx, request{method: http.MethodGet, path: "/search", query: params}, &data)
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Products:     data.Products,
		TotalResults: env.TotalResults,
	}, nil
}
