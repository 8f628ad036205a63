package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Manager owns the single live Store for a process. The store opens lazily
// on first use; concurrent EnsureOpen calls share one open attempt and the
// same handle. After the store closes itself for another connection's
// upgrade, the next EnsureOpen opens it again against the newer schema.
type Manager struct {
	opts  Options
	group singleflight.Group

	mu      sync.Mutex
	current *Store
	closed  bool
}

// NewManager prepares a manager; no connection is made until EnsureOpen.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// EnsureOpen returns the live store, opening it when needed.
func (m *Manager) EnsureOpen(ctx context.Context) (*Store, error) {
	if s := m.live(); s != nil {
		return s, nil
	}
	value, err, _ := m.group.Do("open", func() (any, error) {
		if s := m.live(); s != nil {
			return s, nil
		}
		if m.isClosed() {
			return nil, ErrClosed
		}
		s, err := Open(ctx, m.opts)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			_ = s.Close()
			return nil, ErrClosed
		}
		m.current = s
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Store), nil
}

func (m *Manager) live() *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && !m.current.IsClosed() {
		return m.current
	}
	return nil
}

// Close closes the live store and rejects further EnsureOpen calls.
func (m *Manager) Close() error {
	m.mu.Lock()
	s := m.current
	m.current = nil
	m.closed = true
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
