package notification

import (
	"errors"
	"fmt"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

type MessageType string

const (
	MessageOrderPlaced   MessageType = "order_placed"
	MessageStatusChanged MessageType = "status_changed"
)

// ErrInvalidMessage marks messages that can never be delivered.
var ErrInvalidMessage = errors.New("invalid notification message")

// Message is the payload published on the notification topic.
type Message struct {
	Type         MessageType  `json:"type"`
	Email        string       `json:"email"`
	TrackingID   string       `json:"tracking_id"`
	CustomerName string       `json:"customer_name"`
	Status       order.Status `json:"status,omitempty"`
}

func (m Message) Validate() error {
	if m.Email == "" || m.TrackingID == "" {
		return fmt.Errorf("%w: email and tracking id are required", ErrInvalidMessage)
	}
	switch m.Type {
	case MessageOrderPlaced:
		return nil
	case MessageStatusChanged:
		if !m.Status.Valid() {
			return fmt.Errorf("%w: status change without a status", ErrInvalidMessage)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
}
