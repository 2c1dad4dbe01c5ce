package mocks

import (
	"context"
	"sync"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/store"
)

// MockOrderStore is an in-memory OrderStore that records calls and can be told
// to fail. Successful calls are served by a MemoryOrderStore.
type MockOrderStore struct {
	mu      sync.Mutex
	backing *store.MemoryOrderStore

	// For tracking calls in tests
	CreateCalls       []CreateCall
	FindCalls         []string
	AppendStatusCalls []AppendStatusCall

	// CreateErrs are returned by successive Create calls before the backing
	// store is consulted. A nil entry lets that call through.
	CreateErrs []error
	FindErr    error
	AppendErr  error

	// CreateCallback runs after a successful backing write when set.
	CreateCallback func(o *order.Order)
}

// CreateCall records the order passed to Create
type CreateCall struct {
	TrackingID string
	Order      *order.Order
}

// AppendStatusCall records parameters passed to AppendStatus
type AppendStatusCall struct {
	ID    string
	Event order.StatusEvent
}

// NewMockOrderStore creates a new MockOrderStore
func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{backing: store.NewMemoryOrderStore()}
}

// Backing exposes the underlying memory store for seeding and assertions.
func (m *MockOrderStore) Backing() *store.MemoryOrderStore {
	return m.backing
}

func (m *MockOrderStore) Create(ctx context.Context, o *order.Order) (string, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, CreateCall{TrackingID: o.TrackingID, Order: o.Clone()})
	var err error
	if len(m.CreateErrs) > 0 {
		err = m.CreateErrs[0]
		m.CreateErrs = m.CreateErrs[1:]
	}
	callback := m.CreateCallback
	m.mu.Unlock()

	if err != nil {
		return "", err
	}

	id, err := m.backing.Create(ctx, o)
	if err == nil && callback != nil {
		callback(o)
	}
	return id, err
}

func (m *MockOrderStore) FindByTrackingID(ctx context.Context, trackingID string) (*order.Order, error) {
	m.mu.Lock()
	m.FindCalls = append(m.FindCalls, trackingID)
	err := m.FindErr
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.backing.FindByTrackingID(ctx, trackingID)
}

func (m *MockOrderStore) FindByID(ctx context.Context, id string) (*order.Order, error) {
	m.mu.Lock()
	m.FindCalls = append(m.FindCalls, id)
	err := m.FindErr
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.backing.FindByID(ctx, id)
}

func (m *MockOrderStore) AppendStatus(ctx context.Context, id string, ev order.StatusEvent) (*order.Order, bool, error) {
	m.mu.Lock()
	m.AppendStatusCalls = append(m.AppendStatusCalls, AppendStatusCall{ID: id, Event: ev})
	err := m.AppendErr
	m.mu.Unlock()

	if err != nil {
		return nil, false, err
	}
	return m.backing.AppendStatus(ctx, id, ev)
}

// Reset clears all orders, recorded calls and injected errors
func (m *MockOrderStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backing = store.NewMemoryOrderStore()
	m.CreateCalls = nil
	m.FindCalls = nil
	m.AppendStatusCalls = nil
	m.CreateErrs = nil
	m.FindErr = nil
	m.AppendErr = nil
	m.CreateCallback = nil
}
