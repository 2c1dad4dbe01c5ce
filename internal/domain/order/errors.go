package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrEmptyCart                = errors.New("cart must have at least one item")
	ErrInvalidStatus            = errors.New("invalid order status")
	ErrInvalidTransition        = errors.New("invalid order status transition")
	ErrUnsupportedPaymentMethod = errors.New("payment method is not available")
	ErrDuplicateTrackingID      = errors.New("tracking id already exists")
	ErrPersistence              = errors.New("order persistence failed")
	ErrOrderCreationFailed      = errors.New("order creation failed")
	ErrOrderLookupFailed        = errors.New("order lookup failed")
	ErrInvalidNewOrder          = errors.New("new order must start with a single confirmed event")
)

// ValidationError reports the first invalid checkout input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("validation failed: %s is required", e.Field)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
