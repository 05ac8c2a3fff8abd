package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jaggery_back_end/internal/models"

	"go.uber.org/zap"
)

// Event is published to watchers after a cart changes.
type Event string

const (
	EventUpdated Event = "updated"
	EventCleared Event = "cleared"
)

// Persister stores one snapshot per owner. Save with no items removes the stored cart.
type Persister interface {
	Load(ctx context.Context, owner string) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Clear(ctx context.Context, owner string) error
}

// Watcher is implemented by persisters that can notify about changes.
type Watcher interface {
	Watch(ctx context.Context, owner string) (<-chan Event, func() error, error)
}

// Store applies cart operations and writes every result through to its persister.
type Store struct {
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
	locks     keyedMutex
}

func NewStore(p Persister, logger *zap.Logger) *Store {
	return &Store{
		persister: p,
		logger:    logger,
		now:       time.Now,
		locks:     keyedMutex{locks: make(map[string]*refLock)},
	}
}

func (s *Store) Items(ctx context.Context, owner string) ([]models.CartItem, error) {
	snap, err := s.persister.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return snap.Items, nil
}

func (s *Store) Add(ctx context.Context, owner string, p models.Product) ([]models.CartItem, error) {
	return s.mutate(ctx, owner, func(items []models.CartItem) []models.CartItem {
		return AddItem(items, p)
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, owner string, id, quantity int) ([]models.CartItem, error) {
	return s.mutate(ctx, owner, func(items []models.CartItem) []models.CartItem {
		return UpdateQuantity(items, id, quantity)
	})
}

func (s *Store) Remove(ctx context.Context, owner string, id int) ([]models.CartItem, error) {
	return s.mutate(ctx, owner, func(items []models.CartItem) []models.CartItem {
		return RemoveItem(items, id)
	})
}

func (s *Store) Clear(ctx context.Context, owner string) error {
	unlock := s.locks.Lock(owner)
	defer unlock()

	if err := s.persister.Clear(ctx, owner); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.logger.Debug("🧹 cart cleared", zap.String("owner", owner))
	return nil
}

// Watch returns change notifications for owner, or nil when the persister cannot notify.
func (s *Store) Watch(ctx context.Context, owner string) (<-chan Event, func() error, error) {
	w, ok := s.persister.(Watcher)
	if !ok {
		return nil, func() error { return nil }, nil
	}
	return w.Watch(ctx, owner)
}

func (s *Store) mutate(ctx context.Context, owner string, fn func([]models.CartItem) []models.CartItem) ([]models.CartItem, error) {
	unlock := s.locks.Lock(owner)
	defer unlock()

	snap, err := s.persister.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	snap.Owner = owner
	snap.Items = fn(snap.Items)
	snap.UpdatedAt = s.now().UTC()

	if err := s.persister.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	s.logger.Debug("🛒 cart updated", zap.String("owner", owner), zap.Int("items", len(snap.Items)))
	return snap.Items, nil
}

type refLock struct {
	sync.Mutex
	refs int
}

// keyedMutex serialises mutations per owner and forgets owners with no waiters.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
