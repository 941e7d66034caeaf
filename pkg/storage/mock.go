package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jwebster45206/rpg-context/pkg/state"
)

// MockStore is an in-memory implementation of Store for testing.
type MockStore struct {
	mu        sync.RWMutex
	contexts  map[string]*state.PlayerContext
	pingError error
	saveError error
	loadError error
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		contexts: make(map[string]*state.PlayerContext),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError configures the mock to fail on load with the given error
func (m *MockStore) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// Count returns the number of stored contexts
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contexts)
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) SaveContext(ctx context.Context, pc *state.PlayerContext) error {
	if pc == nil {
		return errors.New("player context cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	clone := *pc
	m.contexts[pc.SessionID] = &clone
	return nil
}

func (m *MockStore) LoadContext(ctx context.Context, sessionID string) (*state.PlayerContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	pc, ok := m.contexts[sessionID]
	if !ok {
		return nil, nil
	}
	clone := *pc
	return &clone, nil
}

func (m *MockStore) DeleteContext(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, sessionID)
	return nil
}

func (m *MockStore) ListActiveSince(ctx context.Context, since time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, pc := range m.contexts {
		if !pc.LastUpdate.Before(since) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, pc := range m.contexts {
		if pc.LastUpdate.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
