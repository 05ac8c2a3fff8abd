package cart

import (
	"context"
	"sync"
)

// MemoryPersister keeps encoded snapshots in process. It goes through the same
// codec as Redis so a dev server behaves like production.
type MemoryPersister struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[string]map[chan Event]struct{}
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{
		data:     make(map[string][]byte),
		watchers: make(map[string]map[chan Event]struct{}),
	}
}

func (m *MemoryPersister) Load(_ context.Context, owner string) (Snapshot, error) {
	m.mu.Lock()
	raw := m.data[owner]
	m.mu.Unlock()
	return Decode(owner, raw)
}

func (m *MemoryPersister) Save(_ context.Context, s Snapshot) error {
	if s.Empty() {
		m.mu.Lock()
		delete(m.data, s.Owner)
		m.mu.Unlock()
		m.notify(s.Owner, EventUpdated)
		return nil
	}

	raw, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[s.Owner] = raw
	m.mu.Unlock()
	m.notify(s.Owner, EventUpdated)
	return nil
}

func (m *MemoryPersister) Clear(_ context.Context, owner string) error {
	m.mu.Lock()
	delete(m.data, owner)
	m.mu.Unlock()
	m.notify(owner, EventCleared)
	return nil
}

// Raw returns the stored bytes for owner. Tests use it to seed or inspect the schema.
func (m *MemoryPersister) Raw(owner string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[owner]
}

func (m *MemoryPersister) SetRaw(owner string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[owner] = raw
}

func (m *MemoryPersister) Watch(ctx context.Context, owner string) (<-chan Event, func() error, error) {
	ch := make(chan Event, 8)

	m.mu.Lock()
	if m.watchers[owner] == nil {
		m.watchers[owner] = make(map[chan Event]struct{})
	}
	m.watchers[owner][ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	stop := func() error {
		once.Do(func() {
			m.mu.Lock()
			delete(m.watchers[owner], ch)
			if len(m.watchers[owner]) == 0 {
				delete(m.watchers, owner)
			}
			m.mu.Unlock()
			close(ch)
		})
		return nil
	}
	go func() {
		<-ctx.Done()
		_ = stop()
	}()
	return ch, stop, nil
}

func (m *MemoryPersister) notify(owner string, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.watchers[owner] {
		select {
		case ch <- ev:
		default:
		}
	}
}
