package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestTimeout bounds every request, store round trips included.
const RequestTimeout = 15 * time.Second

func NewRouter(handlers *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Catalog
	r.Get("/products", handlers.GetProducts)
	r.Get("/products/{id}", handlers.GetProduct)
	r.Get("/categories", handlers.GetCategories)

	// Orders
	r.Post("/checkout", handlers.Checkout)
	r.Get("/track/{trackingId}", handlers.TrackOrder)
	r.Post("/orders/{id}/status", handlers.AdvanceStatus)

	return r
}
