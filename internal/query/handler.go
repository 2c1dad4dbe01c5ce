package query

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/catalog"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/store"
)

type Handler struct {
	orders   store.OrderStore
	products *catalog.Catalog
}

func NewHandler(orders store.OrderStore, products *catalog.Catalog) *Handler {
	return &Handler{orders: orders, products: products}
}

// Products
func (h *Handler) GetProduct(id string) (*catalog.Product, bool) {
	p, err := h.products.Get(id)
	if err != nil {
		return nil, false
	}
	return &p, true
}

func (h *Handler) ListProducts(f catalog.Filter) []catalog.Product {
	return h.products.List(f)
}

func (h *Handler) ListCategories() []string {
	return h.products.Categories()
}

// Orders

// TrackOrder resolves a public tracking ID. Unknown IDs return
// order.ErrOrderNotFound; store failures return order.ErrOrderLookupFailed.
func (h *Handler) TrackOrder(ctx context.Context, trackingID string) (*TrackingView, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, order.ErrOrderNotFound
	}

	o, err := h.orders.FindByTrackingID(ctx, trackingID)
	if errors.Is(err, order.ErrOrderNotFound) {
		return nil, err
	}
	if err != nil {
		log.Printf("[Query] Error getting order %s: %v", trackingID, err)
		return nil, fmt.Errorf("%w: %w", order.ErrOrderLookupFailed, err)
	}

	return buildTrackingView(o), nil
}

func buildTrackingView(o *order.Order) *TrackingView {
	reached := make(map[order.Status]int, len(o.StatusHistory))
	for i, ev := range o.StatusHistory {
		if _, seen := reached[ev.Status]; !seen {
			reached[ev.Status] = i
		}
	}

	statuses := order.Statuses()
	steps := make([]TrackingStep, 0, len(statuses))
	for _, s := range statuses {
		info := s.Info()
		step := TrackingStep{
			Status:        s,
			Label:         info.Label,
			Description:   info.Description,
			EstimatedDays: info.EstimatedDays,
			Completed:     s <= o.Status,
			Current:       s == o.Status,
		}
		if i, ok := reached[s]; ok {
			ts := o.StatusHistory[i].Timestamp
			step.ReachedAt = &ts
			step.EstimatedDays = o.StatusHistory[i].EstimatedDays
		}
		steps = append(steps, step)
	}

	return &TrackingView{
		Order:                 o,
		Current:               o.Status.Info(),
		ShowEstimatedDelivery: o.Status != order.StatusDelivered,
		Steps:                 steps,
	}
}
