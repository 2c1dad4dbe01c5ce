package store

import (
	"context"
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

// DefaultTimeout bounds every store round trip.
const DefaultTimeout = 5 * time.Second

// OrderStore persists orders and their status history.
//
// Implementations assign the internal ID and every timestamp at write time.
// Infrastructure failures are wrapped in order.ErrPersistence.
type OrderStore interface {
	// Create stores a new order holding a single confirmed event and returns
	// its tracking ID. The order is updated in place with its ID and timestamps.
	Create(ctx context.Context, o *order.Order) (string, error)

	// FindByTrackingID resolves the public tracking identifier.
	FindByTrackingID(ctx context.Context, trackingID string) (*order.Order, error)

	// FindByID looks an order up by its internal identifier.
	FindByID(ctx context.Context, id string) (*order.Order, error)

	// AppendStatus atomically appends ev to the history. Re-applying the current
	// status succeeds without writing and reports appended == false.
	AppendStatus(ctx context.Context, id string, ev order.StatusEvent) (updated *order.Order, appended bool, err error)
}
