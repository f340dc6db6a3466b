package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcart/internal/db"
	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/nikolayk812/bookcart/internal/port"
)

type cartRepository struct {
	q *db.Queries
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q: db.New(pool),
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q: db.New(tx),
	}
}

func (r *cartRepository) Load(ctx context.Context, ownerID string) ([]domain.CartItem, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	row, err := r.q.GetCart(ctx, ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetCart: %w", err)
	}

	items, err := decodeItems(row.Items)
	if err != nil {
		return nil, fmt.Errorf("decodeItems: %w", err)
	}

	return items, nil
}

// Save stores the full item list. An empty list removes the owner's row.
func (r *cartRepository) Save(ctx context.Context, ownerID string, items []domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	if len(items) == 0 {
		if _, err := r.q.DeleteCart(ctx, ownerID); err != nil {
			return fmt.Errorf("q.DeleteCart: %w", err)
		}
		return nil
	}

	raw, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("encodeItems: %w", err)
	}

	err = r.q.UpsertCart(ctx, db.UpsertCartParams{
		OwnerID: ownerID,
		Items:   raw,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertCart: %w", err)
	}

	return nil
}

func encodeItems(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	return json.Marshal(items)
}

func decodeItems(raw []byte) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	if len(raw) == 0 {
		return items, nil
	}

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorrupted, err)
	}

	return items, nil
}
