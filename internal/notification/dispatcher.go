package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

// ErrDeliveryFailed is returned when a notification could not be handed off.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Dispatcher tells customers about their order. Delivery is best-effort:
// callers log failures and carry on.
type Dispatcher interface {
	NotifyOrderPlaced(ctx context.Context, email, trackingID, customerName string) error
	NotifyStatusChanged(ctx context.Context, email, trackingID, customerName string, status order.Status) error
}

// LogDispatcher only logs what would be sent. Used when no broker is configured.
type LogDispatcher struct {
	baseURL string
}

func NewLogDispatcher(baseURL string) *LogDispatcher {
	return &LogDispatcher{baseURL: baseURL}
}

func (d *LogDispatcher) NotifyOrderPlaced(ctx context.Context, email, trackingID, customerName string) error {
	log.Printf("[Notifier] Sending tracking email to %s (%s): tracking ID %s, %s",
		email, customerName, trackingID, order.TrackingURL(d.baseURL, trackingID))
	return nil
}

func (d *LogDispatcher) NotifyStatusChanged(ctx context.Context, email, trackingID, customerName string, status order.Status) error {
	log.Printf("[Notifier] Sending status update to %s (%s): %s is now %q",
		email, customerName, trackingID, status.Info().Label)
	return nil
}

// Publisher is satisfied by kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, key, msgType string, value any) error
}

// KafkaDispatcher publishes messages for the notifier service. Messages are
// keyed by tracking ID so the updates of one order stay in order.
type KafkaDispatcher struct {
	publisher Publisher
}

func NewKafkaDispatcher(p Publisher) *KafkaDispatcher {
	return &KafkaDispatcher{publisher: p}
}

func (d *KafkaDispatcher) NotifyOrderPlaced(ctx context.Context, email, trackingID, customerName string) error {
	return d.publish(ctx, Message{
		Type:         MessageOrderPlaced,
		Email:        email,
		TrackingID:   trackingID,
		CustomerName: customerName,
	})
}

func (d *KafkaDispatcher) NotifyStatusChanged(ctx context.Context, email, trackingID, customerName string, status order.Status) error {
	return d.publish(ctx, Message{
		Type:         MessageStatusChanged,
		Email:        email,
		TrackingID:   trackingID,
		CustomerName: customerName,
		Status:       status,
	})
}

func (d *KafkaDispatcher) publish(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	if err := d.publisher.Publish(ctx, msg.TrackingID, string(msg.Type), msg); err != nil {
		return fmt.Errorf("%w: publish %s for %s: %w", ErrDeliveryFailed, msg.Type, msg.TrackingID, err)
	}
	return nil
}
