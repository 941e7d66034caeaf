package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockCache is an in-memory Cache for testing. It records deleted keys and
// the last Set expiration so tests can assert on invalidation and TTL
// behavior.
type MockCache struct {
	mu          sync.RWMutex
	values      map[string]string
	DeletedKeys []string
	LastSetTTL  time.Duration
	pingError   error
	getError    error
	setError    error
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string]string),
	}
}

// SetPingError configures the mock to fail on ping
func (m *MockCache) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetGetError configures the mock to fail on get
func (m *MockCache) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetSetError configures the mock to fail on set
func (m *MockCache) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setError = err
}

func (m *MockCache) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setError != nil {
		return m.setError
	}
	m.values[key] = fmt.Sprintf("%v", value)
	m.LastSetTTL = expiration
	return nil
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getError != nil {
		return "", m.getError
	}
	return m.values[key], nil
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
		m.DeletedKeys = append(m.DeletedKeys, key)
	}
	return nil
}

func (m *MockCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCache) Close() error {
	return nil
}

func (m *MockCache) WaitForConnection(ctx context.Context) error {
	return nil
}
