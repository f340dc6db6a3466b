// Package history filters and paginates a user's order history.
package history

import (
	"slices"

	"github.com/nikolayk812/bookcart/internal/domain"
)

const DefaultPageSize = 10

type Query struct {
	// Status keeps only orders in that status; empty keeps all.
	Status   domain.OrderStatus
	Page     int
	PageSize int
}

type Page struct {
	Orders     []domain.Order `json:"orders"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
}

// Filter returns one page of orders, newest first. Pages are 1-based; a page past the end
// is empty but still reports the totals.
func Filter(orders []domain.Order, q Query) Page {
	page := max(q.Page, 1)
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	matched := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if q.Status == "" || o.Status == q.Status {
			matched = append(matched, o)
		}
	}

	slices.SortStableFunc(matched, func(a, b domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	result := Page{
		Orders:     []domain.Order{},
		Page:       page,
		PageSize:   size,
		TotalCount: len(matched),
		TotalPages: (len(matched) + size - 1) / size,
	}

	start := (page - 1) * size
	if start >= len(matched) {
		return result
	}
	end := min(start+size, len(matched))

	result.Orders = matched[start:end]
	return result
}
