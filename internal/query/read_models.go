package query

import (
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

// TrackingView is what the tracking page renders for one order.
type TrackingView struct {
	Order   *order.Order     `json:"order"`
	Current order.StatusInfo `json:"current"`
	// ShowEstimatedDelivery is false once the order is delivered.
	ShowEstimatedDelivery bool           `json:"show_estimated_delivery"`
	Steps                 []TrackingStep `json:"steps"`
}

// TrackingStep is one status of the progression, reached or not.
type TrackingStep struct {
	Status        order.Status `json:"status"`
	Label         string       `json:"label"`
	Description   string       `json:"description"`
	EstimatedDays int          `json:"estimated_days"`
	Completed     bool         `json:"completed"`
	Current       bool         `json:"current"`
	// ReachedAt is set for completed steps.
	ReachedAt *time.Time `json:"reached_at,omitempty"`
}
