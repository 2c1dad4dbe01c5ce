package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/catalog"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/command"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/query"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	baseURL      string
}

// NewHandlers wires the HTTP surface. baseURL is the public storefront address
// used in tracking links.
func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, baseURL string) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		baseURL:      baseURL,
	}
}

// Catalog Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	featured, _ := strconv.ParseBool(q.Get("featured"))
	popular, _ := strconv.ParseBool(q.Get("popular"))

	products := h.queryHandler.ListProducts(catalog.Filter{
		Category: q.Get("category"),
		Featured: featured,
		Popular:  popular,
	})
	if q.Get("sort") == "price" {
		catalog.ByPrice(products)
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.queryHandler.GetProduct(chi.URLParam(r, "id"))
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Product not found"})
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListCategories())
}

// Order Handlers

type checkoutRequest struct {
	Items         []command.CartLine `json:"items"`
	DeliveryInfo  order.DeliveryInfo `json:"delivery_info"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   *decimal.Decimal   `json:"total_amount,omitempty"`
}

type checkoutResponse struct {
	TrackingID  string `json:"tracking_id"`
	TrackingURL string `json:"tracking_url"`
	TotalAmount string `json:"total_amount"`
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	items, err := h.cmdHandler.CartItems(req.Items)
	if err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.cmdHandler.Checkout(r.Context(), command.Checkout{
		Items:         items,
		DeliveryInfo:  req.DeliveryInfo,
		PaymentMethod: req.PaymentMethod,
		ShownTotal:    req.TotalAmount,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkoutResponse{
		TrackingID:  o.TrackingID,
		TrackingURL: order.TrackingURL(h.baseURL, o.TrackingID),
		TotalAmount: o.TotalAmount.StringFixed(2),
	})
}

func (h *Handlers) TrackOrder(w http.ResponseWriter, r *http.Request) {
	// chi matches on the escaped path, so non-ASCII prefixes arrive percent-encoded
	trackingID := chi.URLParam(r, "trackingId")
	if unescaped, err := url.PathUnescape(trackingID); err == nil {
		trackingID = unescaped
	}

	view, err := h.queryHandler.TrackOrder(r.Context(), trackingID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handlers) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	updated, err := h.cmdHandler.AdvanceStatus(r.Context(), command.AdvanceStatus{
		OrderID: chi.URLParam(r, "id"),
		Status:  req.Status,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Helper functions

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
