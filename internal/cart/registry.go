package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/bookcart/internal/port"
)

// Registry opens one Store per owner on first use and hands out the same Store afterwards.
type Registry struct {
	repo port.CartRepository
	opts []Option

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(repo port.CartRepository, opts ...Option) *Registry {
	return &Registry{
		repo:   repo,
		opts:   opts,
		stores: make(map[string]*Store),
	}
}

// Get returns the owner's store, opening it on first use. A failed open is not cached, so the
// next Get retries the load.
func (r *Registry) Get(ctx context.Context, ownerID string) (*Store, error) {
	r.mu.Lock()
	store, ok := r.stores[ownerID]
	r.mu.Unlock()
	if ok {
		return store, nil
	}

	opened, err := Open(ctx, ownerID, r.repo, r.opts...)
	if err != nil {
		return nil, fmt.Errorf("cart.Open: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[ownerID]; ok {
		return store, nil
	}
	r.stores[ownerID] = opened
	return opened, nil
}
