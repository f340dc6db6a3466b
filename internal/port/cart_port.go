package port

import (
	"context"

	"github.com/nikolayk812/bookcart/internal/domain"
)

// CartRepository is the durable storage behind a cart store. The whole item list of an owner
// is read and written as one value; concurrent writers resolve by last write wins.
type CartRepository interface {
	// Load returns the stored items in insertion order, or an empty slice when nothing is
	// stored. Undecodable data yields an error wrapping domain.ErrCorrupted.
	Load(ctx context.Context, ownerID string) ([]domain.CartItem, error)
	Save(ctx context.Context, ownerID string, items []domain.CartItem) error
}
