package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

const maxSwapAttempts = 3

// errStaleStatus is returned by a swap when the stored status no longer
// matches the one the transition was validated against.
var errStaleStatus = errors.New("order status changed concurrently")

type loadFunc func(ctx context.Context, id string) (*order.Order, error)

// swapFunc writes ev only if the stored status still equals current.Status.
type swapFunc func(ctx context.Context, current *order.Order, ev order.StatusEvent) (*order.Order, error)

// appendStatus runs the read, validate, compare-and-swap cycle shared by all
// backends. A lost race re-reads and re-validates, so a concurrent advance to
// the same status turns into an idempotent success and a concurrent advance
// past it turns into ErrInvalidTransition.
func appendStatus(ctx context.Context, id string, ev order.StatusEvent, load loadFunc, swap swapFunc) (*order.Order, bool, error) {
	if !ev.Status.Valid() {
		return nil, false, fmt.Errorf("%w: %d", order.ErrInvalidStatus, int(ev.Status))
	}

	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		current, err := load(ctx, id)
		if err != nil {
			return nil, false, err
		}

		noop, err := order.CheckTransition(current.Status, ev.Status)
		if err != nil {
			return nil, false, err
		}
		if noop {
			return current, false, nil
		}

		updated, err := swap(ctx, current, ev)
		if errors.Is(err, errStaleStatus) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return updated, true, nil
	}

	return nil, false, fmt.Errorf("%w: order %s kept changing during status update", order.ErrPersistence, id)
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", order.ErrPersistence, op, err)
}
