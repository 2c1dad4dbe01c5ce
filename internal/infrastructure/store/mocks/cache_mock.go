package mocks

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-memory store.Cache. TTLs are recorded, not enforced.
type MockCache struct {
	mu   sync.Mutex
	data map[string]string

	TTLs     map[string]time.Duration
	GetCalls int
	GetErr   error
	SetErr   error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
		TTLs: make(map[string]time.Duration),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	m.TTLs[key] = ttl
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.TTLs, key)
	return nil
}

// Raw returns the stored value for key.
func (m *MockCache) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Put sets a value directly for testing
func (m *MockCache) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
