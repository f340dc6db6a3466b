// Package cart holds the per-owner cart store: the only place cart contents change.
//
// A Store keeps the cart in memory, persists the whole item list after every effective
// mutation and notifies subscribers with a freshly priced View. Totals are always
// computed through the pricing package.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/nikolayk812/bookcart/internal/port"
	"github.com/nikolayk812/bookcart/internal/pricing"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"
)

// StorageFailurePolicy decides what a mutation does when the repository rejects a save.
type StorageFailurePolicy int

const (
	// KeepInMemory keeps the mutated cart, flags it as unsaved and reports success.
	KeepInMemory StorageFailurePolicy = iota
	// Rollback restores the last persisted items and returns an error wrapping domain.ErrStorage.
	Rollback
)

func (p StorageFailurePolicy) String() string {
	switch p {
	case KeepInMemory:
		return "keep"
	case Rollback:
		return "rollback"
	default:
		return fmt.Sprintf("StorageFailurePolicy(%d)", int(p))
	}
}

// ParseStorageFailurePolicy accepts "keep" or "rollback".
func ParseStorageFailurePolicy(s string) (StorageFailurePolicy, error) {
	switch s {
	case "keep", "":
		return KeepInMemory, nil
	case "rollback":
		return Rollback, nil
	default:
		return 0, fmt.Errorf("unknown storage failure policy %q", s)
	}
}

type View struct {
	OwnerID       string            `json:"ownerId"`
	Items         []domain.CartItem `json:"items"`
	TotalQuantity int               `json:"totalQuantity"`
	Subtotal      domain.Money      `json:"subtotal"`

	// Unavailable is set when the stored cart could not be read and the store started empty.
	Unavailable bool `json:"unavailable,omitempty"`
	// Unsaved is set while the in-memory cart is ahead of durable storage.
	Unsaved bool `json:"unsaved,omitempty"`
}

type Listener func(View)

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithCurrency(cur currency.Unit) Option {
	return func(s *Store) {
		s.currency = cur
	}
}

func WithStorageFailurePolicy(policy StorageFailurePolicy) Option {
	return func(s *Store) {
		s.policy = policy
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

type Store struct {
	ownerID  string
	repo     port.CartRepository
	logger   zerolog.Logger
	currency currency.Unit
	policy   StorageFailurePolicy
	now      func() time.Time

	mu          sync.Mutex
	items       []domain.CartItem
	persisted   []domain.CartItem
	unavailable bool
	unsaved     bool
	version     uint64

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int

	// deliverMu serializes listener calls; delivered is the version last handed out.
	deliverMu sync.Mutex
	delivered uint64
}

// Open reads the owner's cart once. A corrupted cart is replaced by an empty one and reported
// through View().Unavailable; any other load error is returned.
func Open(ctx context.Context, ownerID string, repo port.CartRepository, opts ...Option) (*Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}
	if repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}

	s := &Store{
		ownerID:   ownerID,
		repo:      repo,
		logger:    zerolog.Nop(),
		currency:  currency.USD,
		policy:    KeepInMemory,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("owner_id", ownerID).Logger()

	items, err := repo.Load(ctx, ownerID)
	switch {
	case errors.Is(err, domain.ErrCorrupted):
		s.logger.Error().Err(err).Msg("stored cart is corrupted, starting empty")
		s.unavailable = true
		items = nil
	case err != nil:
		return nil, fmt.Errorf("repo.Load: %w", err)
	}

	s.items = items
	s.persisted = domain.CloneItems(items)
	s.logExcluded(items)

	return s, nil
}

func (s *Store) OwnerID() string {
	return s.ownerID
}

func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

// Subscribe registers fn to receive the new View after every effective mutation. Views are
// delivered in mutation order and a view older than one already delivered is dropped.
// Listeners must not mutate the store. The returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// AddOrIncrement bumps the quantity of an existing line, or appends snapshot with quantity 1.
func (s *Store) AddOrIncrement(ctx context.Context, id string, snapshot domain.CartItem) error {
	return s.mutate(ctx, "add_or_increment", func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		if idx := indexOf(items, id); idx >= 0 {
			items[idx].Quantity++
			return items, true, nil
		}

		item := snapshot.Clone()
		item.ID = id
		item.Quantity = 1
		if item.DiscountType == "" {
			item.DiscountType = domain.DiscountNone
		}
		item.AddedAt = s.now().UTC()

		if err := item.Validate(); err != nil {
			return nil, false, err
		}

		return append(items, item), true, nil
	})
}

func (s *Store) Increment(ctx context.Context, id string) error {
	return s.mutate(ctx, "increment", func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return items, false, nil
		}

		items[idx].Quantity++
		return items, true, nil
	})
}

// Decrement lowers the quantity but never below 1; use Remove to drop a line.
func (s *Store) Decrement(ctx context.Context, id string) error {
	return s.mutate(ctx, "decrement", func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		idx := indexOf(items, id)
		if idx < 0 || items[idx].Quantity <= 1 {
			return items, false, nil
		}

		items[idx].Quantity--
		return items, true, nil
	})
}

func (s *Store) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove", func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return items, false, nil
		}

		return append(items[:idx], items[idx+1:]...), true, nil
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		if len(items) == 0 && !s.unsaved {
			return items, false, nil
		}
		return []domain.CartItem{}, true, nil
	})
}

// RemoveOrdered takes the ordered quantities out of the cart in one mutation. A line whose
// whole quantity was ordered is dropped; lines added or increased since the order was built
// keep the difference.
func (s *Store) RemoveOrdered(ctx context.Context, lines []domain.OrderLine) error {
	return s.mutate(ctx, "remove_ordered", func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		ordered := make(map[string]int, len(lines))
		for _, line := range lines {
			ordered[line.ProductID] += line.Quantity
		}

		kept := items[:0]
		changed := false
		for _, item := range items {
			qty, ok := ordered[item.ID]
			if !ok || qty <= 0 {
				kept = append(kept, item)
				continue
			}

			changed = true
			if item.Quantity > qty {
				item.Quantity -= qty
				kept = append(kept, item)
			}
		}

		return kept, changed, nil
	})
}

type mutation func(items []domain.CartItem) ([]domain.CartItem, bool, error)

// mutate applies fn to a copy of the items, persists the result and notifies listeners.
// fn reports whether anything changed; unchanged carts are neither saved nor broadcast.
func (s *Store) mutate(ctx context.Context, op string, fn mutation) error {
	s.mu.Lock()

	next, changed, err := fn(domain.CloneItems(s.items))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}

	s.items = next
	s.logExcluded(next)

	if err := s.repo.Save(ctx, s.ownerID, domain.CloneItems(next)); err != nil {
		storageErr := fmt.Errorf("%w: repo.Save: %w", domain.ErrStorage, err)

		switch s.policy {
		case Rollback:
			s.items = domain.CloneItems(s.persisted)
			s.mu.Unlock()

			s.logger.Error().Err(err).Str("op", op).Msg("cart save failed, rolled back")
			return fmt.Errorf("%s: %w", op, storageErr)
		default:
			s.unsaved = true
			s.version++
			view, version := s.viewLocked(), s.version
			s.mu.Unlock()

			s.logger.Warn().Err(err).Str("op", op).Msg("cart may not be saved")
			s.notify(view, version)
			return nil
		}
	}

	s.persisted = domain.CloneItems(next)
	s.unsaved = false
	s.version++
	view, version := s.viewLocked(), s.version
	s.mu.Unlock()

	s.logger.Debug().Str("op", op).Int("total_quantity", view.TotalQuantity).Msg("cart updated")
	s.notify(view, version)
	return nil
}

func (s *Store) logExcluded(items []domain.CartItem) {
	if excluded := pricing.CartTotals(items).Excluded; len(excluded) > 0 {
		s.logger.Warn().Strs("item_ids", excluded).Msg("malformed cart items excluded from totals")
	}
}

func (s *Store) viewLocked() View {
	totals := pricing.CartTotals(s.items)

	items := domain.CloneItems(s.items)
	if items == nil {
		items = []domain.CartItem{}
	}

	return View{
		OwnerID:       s.ownerID,
		Items:         items,
		TotalQuantity: totals.TotalQuantity,
		Subtotal:      domain.NewMoney(totals.Subtotal, s.currency),
		Unavailable:   s.unavailable,
		Unsaved:       s.unsaved,
	}
}

func (s *Store) notify(view View, version uint64) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

func indexOf(items []domain.CartItem, id string) int {
	for idx, item := range items {
		if item.ID == id {
			return idx
		}
	}
	return -1
}
