package order

import (
	"fmt"
)

// Status is the fulfilment stage of an order. The zero value is not a valid status.
type Status int

const (
	StatusConfirmed Status = iota + 1
	StatusPacking
	StatusOnTheWay
	StatusDelivered

	statusEnd
)

// StatusInfo is the presentation and timing data attached to a status.
type StatusInfo struct {
	Label         string `json:"label"`
	Description   string `json:"description"`
	EstimatedDays int    `json:"estimated_days"`
}

var statusNames = [...]string{
	StatusConfirmed: "confirmed",
	StatusPacking:   "packing",
	StatusOnTheWay:  "on-the-way",
	StatusDelivered: "delivered",
}

var statusPolicy = [...]StatusInfo{
	StatusConfirmed: {
		Label:         "Order Confirmed",
		Description:   "Your order has been confirmed and is being processed",
		EstimatedDays: 1,
	},
	StatusPacking: {
		Label:         "Packing",
		Description:   "Your order is being packed and prepared for shipping",
		EstimatedDays: 2,
	},
	StatusOnTheWay: {
		Label:         "On the Way",
		Description:   "Your order is on its way to your delivery address",
		EstimatedDays: 3,
	},
	StatusDelivered: {
		Label:         "Delivered",
		Description:   "Your order has been successfully delivered",
		EstimatedDays: 0,
	},
}

// Adding a Status without a name and a policy entry fails to compile here.
var (
	_ = [1]struct{}{}[len(statusNames)-int(statusEnd)]
	_ = [1]struct{}{}[len(statusPolicy)-int(statusEnd)]
)

// Statuses returns every status in progression order.
func Statuses() []Status {
	out := make([]Status, 0, int(statusEnd)-1)
	for s := StatusConfirmed; s < statusEnd; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	return s >= StatusConfirmed && s < statusEnd
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Info returns the policy entry for s.
func (s Status) Info() StatusInfo {
	if !s.Valid() {
		return StatusInfo{}
	}
	return statusPolicy[s]
}

// ParseStatus converts the wire name of a status ("on-the-way") into a Status.
func ParseStatus(name string) (Status, error) {
	for s := StatusConfirmed; s < statusEnd; s++ {
		if statusNames[s] == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, name)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CheckTransition validates moving an order from current to next.
// Re-applying the current status is accepted and reported as a no-op.
func CheckTransition(current, next Status) (noop bool, err error) {
	if !next.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidStatus, int(next))
	}
	switch {
	case next == current:
		return true, nil
	case next < current:
		return false, fmt.Errorf("%w: cannot move from %s back to %s", ErrInvalidTransition, current, next)
	default:
		return false, nil
	}
}
