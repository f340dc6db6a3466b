package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/bookcart/internal/domain"
)

// MemoryCart keeps carts as encoded JSON in process memory, the same shape the
// Postgres repository stores. It backs development runs and tests.
type MemoryCart struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryCart() *MemoryCart {
	return &MemoryCart{
		carts: make(map[string][]byte),
	}
}

func (r *MemoryCart) Load(_ context.Context, ownerID string) ([]domain.CartItem, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	r.mu.RLock()
	raw := r.carts[ownerID]
	r.mu.RUnlock()

	items, err := decodeItems(raw)
	if err != nil {
		return nil, fmt.Errorf("decodeItems: %w", err)
	}

	return items, nil
}

func (r *MemoryCart) Save(_ context.Context, ownerID string, items []domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(items) == 0 {
		delete(r.carts, ownerID)
		return nil
	}

	raw, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("encodeItems: %w", err)
	}

	r.carts[ownerID] = raw
	return nil
}

// PutRaw overwrites the stored bytes for an owner without any encoding.
func (r *MemoryCart) PutRaw(ownerID string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[ownerID] = raw
}
