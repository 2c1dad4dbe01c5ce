package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/google/uuid"
)

// MemoryOrderStore keeps orders in process memory. Used for local runs and tests.
type MemoryOrderStore struct {
	mu         sync.RWMutex
	orders     map[string]*order.Order // id -> order
	byTracking map[string]string       // tracking id -> id
	now        func() time.Time
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		orders:     make(map[string]*order.Order),
		byTracking: make(map[string]string),
		now:        time.Now,
	}
}

// SetClock replaces the write-time clock.
func (s *MemoryOrderStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryOrderStore) Create(ctx context.Context, o *order.Order) (string, error) {
	if err := o.ValidateNew(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", persistenceError("create order", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byTracking[o.TrackingID]; exists {
		return "", fmt.Errorf("%w: %s", order.ErrDuplicateTrackingID, o.TrackingID)
	}

	stored := o.Clone()
	stored.ID = uuid.New().String()
	stored.StampCreated(s.now().UTC())

	s.orders[stored.ID] = stored
	s.byTracking[stored.TrackingID] = stored.ID

	*o = *stored.Clone()
	return stored.TrackingID, nil
}

func (s *MemoryOrderStore) FindByTrackingID(ctx context.Context, trackingID string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byTracking[trackingID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return s.orders[id].Clone(), nil
}

func (s *MemoryOrderStore) FindByID(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (s *MemoryOrderStore) AppendStatus(ctx context.Context, id string, ev order.StatusEvent) (*order.Order, bool, error) {
	return appendStatus(ctx, id, ev, s.FindByID, s.swap)
}

func (s *MemoryOrderStore) swap(ctx context.Context, current *order.Order, ev order.StatusEvent) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[current.ID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if stored.Status != current.Status {
		return nil, errStaleStatus
	}

	ev.Timestamp = s.now().UTC()
	stored.Apply(ev)
	return stored.Clone(), nil
}

// Len returns the number of stored orders.
func (s *MemoryOrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
