package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"jaggery_back_end/internal/apperr"

	"github.com/redis/go-redis/v9"
)

const (
	SessionVersion = 1
	SessionTTL     = 24 * time.Hour
)

func SessionKey(owner string) string { return "checkout:" + owner }

// SessionStore keeps one wizard per user. A missing session loads as a fresh wizard.
type SessionStore interface {
	Load(ctx context.Context, owner string) (*Wizard, error)
	Save(ctx context.Context, owner string, w *Wizard) error
	Delete(ctx context.Context, owner string) error
}

type sessionRecord struct {
	Version   int       `json:"version"`
	Owner     string    `json:"owner"`
	Wizard    Wizard    `json:"wizard"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func encodeSession(owner string, w *Wizard, at time.Time) ([]byte, error) {
	return json.Marshal(sessionRecord{Version: SessionVersion, Owner: owner, Wizard: *w, UpdatedAt: at.UTC()})
}

func decodeSession(data []byte) (*Wizard, error) {
	if len(data) == 0 {
		return NewWizard(), nil
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: checkout session: %v", apperr.ErrCorruptState, err)
	}
	if rec.Version != SessionVersion {
		return nil, fmt.Errorf("%w: checkout session version %d", apperr.ErrCorruptState, rec.Version)
	}
	w := rec.Wizard
	if !w.Step.Valid() {
		return nil, fmt.Errorf("%w: checkout step %d", apperr.ErrCorruptState, int(w.Step))
	}
	return &w, nil
}

type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: SessionTTL, now: time.Now}
}

func (s *RedisSessionStore) Load(ctx context.Context, owner string) (*Wizard, error) {
	data, err := s.rdb.Get(ctx, SessionKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewWizard(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return decodeSession(data)
}

func (s *RedisSessionStore) Save(ctx context.Context, owner string, w *Wizard) error {
	data, err := encodeSession(owner, w, s.now())
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, SessionKey(owner), data, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, owner string) error {
	return s.rdb.Del(ctx, SessionKey(owner)).Err()
}

type MemorySessionStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{data: make(map[string][]byte)}
}

func (s *MemorySessionStore) Load(_ context.Context, owner string) (*Wizard, error) {
	s.mu.Lock()
	data := s.data[owner]
	s.mu.Unlock()
	return decodeSession(data)
}

func (s *MemorySessionStore) Save(_ context.Context, owner string, w *Wizard) error {
	data, err := encodeSession(owner, w, time.Now())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[owner] = data
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	delete(s.data, owner)
	s.mu.Unlock()
	return nil
}
