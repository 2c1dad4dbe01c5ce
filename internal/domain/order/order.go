package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryLeadTime is added to the creation time to estimate delivery.
const DeliveryLeadTime = 7 * 24 * time.Hour

// OrderItem is a line item captured when the order is placed.
// Name, price and image are copied from the catalog and never re-read.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image"`
}

// Subtotal returns price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type DeliveryInfo struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternate_phone,omitempty"`
	Address        string `json:"address"`
	District       string `json:"district"`
	Pincode        string `json:"pincode"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (d DeliveryInfo) Trimmed() DeliveryInfo {
	return DeliveryInfo{
		Name:           strings.TrimSpace(d.Name),
		Email:          strings.TrimSpace(d.Email),
		Phone:          strings.TrimSpace(d.Phone),
		AlternatePhone: strings.TrimSpace(d.AlternatePhone),
		Address:        strings.TrimSpace(d.Address),
		District:       strings.TrimSpace(d.District),
		Pincode:        strings.TrimSpace(d.Pincode),
	}
}

// Validate checks the mandatory fields in a fixed order and reports the first
// empty one. The alternate phone is optional.
func (d DeliveryInfo) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", d.Name},
		{"email", d.Email},
		{"phone", d.Phone},
		{"address", d.Address},
		{"district", d.District},
		{"pincode", d.Pincode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return newValidationError(r.field, "")
		}
	}
	return nil
}

// StatusEvent is one entry of the append-only status history.
type StatusEvent struct {
	Status        Status    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	EstimatedDays int       `json:"estimated_days"`
}

// NewStatusEvent stamps an event for s from the status policy.
// The timestamp is left for the store to assign.
func NewStatusEvent(s Status) StatusEvent {
	return StatusEvent{
		Status:        s,
		EstimatedDays: s.Info().EstimatedDays,
	}
}

type Order struct {
	ID                string          `json:"id"`
	TrackingID        string          `json:"tracking_id"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	Items             []OrderItem     `json:"items"`
	DeliveryInfo      DeliveryInfo    `json:"delivery_info"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            Status          `json:"status"`
	StatusHistory     []StatusEvent   `json:"status_history"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
}

// Total sums price × quantity over items, rounded to currency precision.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// ValidateItems reports the first malformed line item.
func ValidateItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.ProductID) == "":
			return newValidationError("items", fmt.Sprintf("[%d] has no product id", i))
		case item.Quantity <= 0:
			return newValidationError("items", fmt.Sprintf("[%d] quantity must be positive", i))
		case item.Price.IsNegative():
			return newValidationError("items", fmt.Sprintf("[%d] price must not be negative", i))
		}
	}
	return nil
}

// New builds an unsaved order holding a single confirmed event.
// Items are copied so later changes by the caller do not leak into the order.
func New(trackingID string, items []OrderItem, delivery DeliveryInfo, method PaymentMethod) *Order {
	snapshot := make([]OrderItem, len(items))
	copy(snapshot, items)

	return &Order{
		TrackingID:    trackingID,
		CustomerName:  delivery.Name,
		CustomerEmail: delivery.Email,
		Items:         snapshot,
		DeliveryInfo:  delivery,
		PaymentMethod: method,
		TotalAmount:   Total(snapshot),
		Status:        StatusConfirmed,
		StatusHistory: []StatusEvent{NewStatusEvent(StatusConfirmed)},
	}
}

// ValidateNew checks the shape a store requires before the first write.
func (o *Order) ValidateNew() error {
	if o.TrackingID == "" {
		return fmt.Errorf("%w: missing tracking id", ErrInvalidNewOrder)
	}
	if len(o.StatusHistory) != 1 || o.StatusHistory[0].Status != StatusConfirmed || o.Status != StatusConfirmed {
		return ErrInvalidNewOrder
	}
	if len(o.Items) == 0 {
		return ErrEmptyCart
	}
	if !o.TotalAmount.Equal(Total(o.Items)) {
		return fmt.Errorf("%w: total %s does not match items", ErrInvalidNewOrder, o.TotalAmount.StringFixed(2))
	}
	return nil
}

// StampCreated sets every creation timestamp from the store's clock.
func (o *Order) StampCreated(now time.Time) {
	o.CreatedAt = now
	o.UpdatedAt = now
	o.EstimatedDelivery = now.Add(DeliveryLeadTime)
	if len(o.StatusHistory) > 0 {
		o.StatusHistory[0].Timestamp = now
	}
}

// Apply appends ev to the history and moves the current status with it.
func (o *Order) Apply(ev StatusEvent) {
	o.StatusHistory = append(o.StatusHistory, ev)
	o.Status = ev.Status
	o.UpdatedAt = ev.Timestamp
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	c.StatusHistory = append([]StatusEvent(nil), o.StatusHistory...)
	return &c
}
