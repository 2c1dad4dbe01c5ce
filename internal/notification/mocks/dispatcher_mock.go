package mocks

import (
	"context"
	"sync"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

// MockDispatcher records notifications and can be told to fail
type MockDispatcher struct {
	mu sync.Mutex

	OrderPlacedCalls   []OrderPlacedCall
	StatusChangedCalls []StatusChangedCall

	OrderPlacedErr   error
	StatusChangedErr error
}

type OrderPlacedCall struct {
	Email        string
	TrackingID   string
	CustomerName string
}

type StatusChangedCall struct {
	Email        string
	TrackingID   string
	CustomerName string
	Status       order.Status
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) NotifyOrderPlaced(ctx context.Context, email, trackingID, customerName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderPlacedCalls = append(m.OrderPlacedCalls, OrderPlacedCall{
		Email:        email,
		TrackingID:   trackingID,
		CustomerName: customerName,
	})
	return m.OrderPlacedErr
}

func (m *MockDispatcher) NotifyStatusChanged(ctx context.Context, email, trackingID, customerName string, status order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusChangedCalls = append(m.StatusChangedCalls, StatusChangedCall{
		Email:        email,
		TrackingID:   trackingID,
		CustomerName: customerName,
		Status:       status,
	})
	return m.StatusChangedErr
}
