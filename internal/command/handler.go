package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/catalog"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/store"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/notification"
)

const (
	DefaultMaxAttempts   = 3
	DefaultNotifyTimeout = 5 * time.Second
)

// TrackingIDSource is satisfied by order.TrackingIDGenerator.
type TrackingIDSource interface {
	Generate(customerName string) (string, error)
}

type Handler struct {
	orders        store.OrderStore
	trackingIDs   TrackingIDSource
	notifier      notification.Dispatcher
	products      *catalog.Catalog
	maxAttempts   int
	notifyTimeout time.Duration
}

func NewHandler(
	orders store.OrderStore,
	trackingIDs TrackingIDSource,
	notifier notification.Dispatcher,
	products *catalog.Catalog,
	maxAttempts int,
) *Handler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Handler{
		orders:        orders,
		trackingIDs:   trackingIDs,
		notifier:      notifier,
		products:      products,
		maxAttempts:   maxAttempts,
		notifyTimeout: DefaultNotifyTimeout,
	}
}

// CartItems resolves submitted cart lines against the catalog, capturing the
// current name, price and image of every product.
func (h *Handler) CartItems(lines []CartLine) ([]order.OrderItem, error) {
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}

	items := make([]order.OrderItem, 0, len(lines))
	for i, line := range lines {
		p, err := h.products.Get(line.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, &order.ValidationError{
				Field:  "items",
				Reason: fmt.Sprintf("[%d] references unknown product %q", i, line.ProductID),
			}
		}
		if err != nil {
			return nil, err
		}
		items = append(items, order.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    line.Quantity,
			Image:       p.Image,
		})
	}
	return items, nil
}

// Checkout validates the cart and delivery details, creates the order and
// sends the tracking notification.
//
// Inputs are checked in a fixed order: cart, items, delivery fields, payment
// method, shown total. Nothing is written unless all checks pass.
func (h *Handler) Checkout(ctx context.Context, cmd Checkout) (*order.Order, error) {
	if err := order.ValidateItems(cmd.Items); err != nil {
		return nil, err
	}

	delivery := cmd.DeliveryInfo.Trimmed()
	if err := delivery.Validate(); err != nil {
		return nil, err
	}

	method, err := order.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	total := order.Total(cmd.Items)
	if cmd.ShownTotal != nil && !cmd.ShownTotal.Round(2).Equal(total) {
		return nil, &order.ValidationError{
			Field:  "total",
			Reason: fmt.Sprintf("%s does not match cart total %s", cmd.ShownTotal.StringFixed(2), total.StringFixed(2)),
		}
	}

	o, err := h.create(ctx, cmd.Items, delivery, method)
	if err != nil {
		log.Printf("[Checkout] Order creation failed for %s: %v", delivery.Email, err)
		return nil, err
	}

	log.Printf("[Checkout] Order %s placed (id %s, total %s, %d items)",
		o.TrackingID, o.ID, o.TotalAmount.StringFixed(2), len(o.Items))

	h.notify(ctx, o.TrackingID, func(ctx context.Context) error {
		return h.notifier.NotifyOrderPlaced(ctx, o.CustomerEmail, o.TrackingID, o.CustomerName)
	})

	return o, nil
}

// create persists a new order. A duplicate tracking ID is retried with a fresh
// ID; a persistence failure is retried with the same ID, so a write that landed
// despite the error shows up as a duplicate of an order matching ours.
func (h *Handler) create(ctx context.Context, items []order.OrderItem, delivery order.DeliveryInfo, method order.PaymentMethod) (*order.Order, error) {
	var (
		trackingID string
		lastErr    error
		ambiguous  bool
	)

	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", order.ErrOrderCreationFailed, err)
		}

		if trackingID == "" {
			id, err := h.trackingIDs.Generate(delivery.Name)
			if err != nil {
				lastErr = err
				continue
			}
			trackingID = id
		}

		o := order.New(trackingID, items, delivery, method)
		_, err := h.orders.Create(ctx, o)

		switch {
		case err == nil:
			return o, nil

		case errors.Is(err, order.ErrDuplicateTrackingID):
			if ambiguous {
				if existing, ok := h.findOwnWrite(ctx, o); ok {
					log.Printf("[Checkout] Earlier write of %s landed; using it", trackingID)
					return existing, nil
				}
			}
			log.Printf("[Checkout] Tracking ID %s taken (attempt %d/%d)", trackingID, attempt, h.maxAttempts)
			trackingID = ""
			ambiguous = false

		case errors.Is(err, order.ErrPersistence):
			log.Printf("[Checkout] Store write for %s failed (attempt %d/%d): %v", trackingID, attempt, h.maxAttempts, err)
			ambiguous = true

		default:
			return nil, fmt.Errorf("%w: %w", order.ErrOrderCreationFailed, err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: after %d attempts: %w", order.ErrOrderCreationFailed, h.maxAttempts, lastErr)
}

// findOwnWrite reports whether the order stored under o's tracking ID is the
// one this checkout tried to write.
func (h *Handler) findOwnWrite(ctx context.Context, o *order.Order) (*order.Order, bool) {
	existing, err := h.orders.FindByTrackingID(ctx, o.TrackingID)
	if err != nil {
		return nil, false
	}
	same := existing.CustomerEmail == o.CustomerEmail &&
		existing.TotalAmount.Equal(o.TotalAmount) &&
		len(existing.Items) == len(o.Items)
	return existing, same
}

// AdvanceStatus moves an order forward. Re-applying the current status is a
// no-op and sends no notification.
func (h *Handler) AdvanceStatus(ctx context.Context, cmd AdvanceStatus) (*order.Order, error) {
	status, err := order.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	updated, appended, err := h.orders.AppendStatus(ctx, cmd.OrderID, order.NewStatusEvent(status))
	if err != nil {
		return nil, err
	}
	if !appended {
		return updated, nil
	}

	log.Printf("[Checkout] Order %s moved to %s", updated.TrackingID, updated.Status)

	h.notify(ctx, updated.TrackingID, func(ctx context.Context) error {
		return h.notifier.NotifyStatusChanged(ctx, updated.CustomerEmail, updated.TrackingID, updated.CustomerName, updated.Status)
	})

	return updated, nil
}

// notify runs send with its own deadline, detached from the caller's
// cancellation. Failures are logged only.
func (h *Handler) notify(ctx context.Context, trackingID string, send func(ctx context.Context) error) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.notifyTimeout)
	defer cancel()

	if err := send(ctx); err != nil {
		log.Printf("[Checkout] Notification for %s failed: %v", trackingID, err)
	}
}
