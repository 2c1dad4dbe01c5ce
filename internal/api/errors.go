package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError maps domain errors onto HTTP statuses. Infrastructure details
// are logged, not returned.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrUnsupportedPaymentMethod),
		errors.Is(err, order.ErrInvalidStatus):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, order.ErrOrderNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Order not found"})
	case errors.Is(err, order.ErrInvalidTransition):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, order.ErrOrderCreationFailed):
		log.Printf("[API] %s %s: %v", r.Method, r.URL.Path, err)
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Order could not be placed, please try again"})
	case errors.Is(err, order.ErrOrderLookupFailed), errors.Is(err, order.ErrPersistence):
		log.Printf("[API] %s %s: %v", r.Method, r.URL.Path, err)
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Orders are temporarily unavailable"})
	default:
		log.Printf("[API] %s %s: %v", r.Method, r.URL.Path, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}
