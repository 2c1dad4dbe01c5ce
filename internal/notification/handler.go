package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

// Sender delivers customer emails. Implemented by email.Service.
type Sender interface {
	SendTrackingEmail(to, customerName, trackingID, trackingURL string) error
	SendStatusUpdate(to, customerName, trackingID string, info order.StatusInfo, trackingURL string) error
}

// Handler turns notification messages into emails
type Handler struct {
	sender  Sender
	baseURL string
}

// NewHandler creates a new notification handler. baseURL is the public
// storefront address used to build tracking links.
func NewHandler(sender Sender, baseURL string) *Handler {
	return &Handler{
		sender:  sender,
		baseURL: baseURL,
	}
}

// HandleEvent processes a message from Kafka. Undecodable or invalid messages
// are logged and dropped.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var msg Message
	if err := json.Unmarshal(value, &msg); err != nil {
		log.Printf("[Notifier] Failed to unmarshal message %s: %v", string(key), err)
		return nil
	}

	err := h.HandleMessage(ctx, msg)
	if errors.Is(err, ErrInvalidMessage) {
		log.Printf("[Notifier] Dropping message %s: %v", string(key), err)
		return nil
	}
	return err
}

// HandleMessage sends the email for msg.
func (h *Handler) HandleMessage(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	url := order.TrackingURL(h.baseURL, msg.TrackingID)

	switch msg.Type {
	case MessageOrderPlaced:
		log.Printf("[Notifier] Processing order placed for %s", msg.TrackingID)
		if err := h.sender.SendTrackingEmail(msg.Email, msg.CustomerName, msg.TrackingID, url); err != nil {
			log.Printf("[Notifier] Failed to send tracking email to %s: %v", msg.Email, err)
			return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}
		log.Printf("[Notifier] Tracking email sent to %s for %s", msg.Email, msg.TrackingID)

	case MessageStatusChanged:
		log.Printf("[Notifier] Processing status %s for %s", msg.Status, msg.TrackingID)
		if err := h.sender.SendStatusUpdate(msg.Email, msg.CustomerName, msg.TrackingID, msg.Status.Info(), url); err != nil {
			log.Printf("[Notifier] Failed to send status update to %s: %v", msg.Email, err)
			return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}
		log.Printf("[Notifier] Status update sent to %s for %s", msg.Email, msg.TrackingID)
	}

	return nil
}
