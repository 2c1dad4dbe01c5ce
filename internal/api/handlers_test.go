package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/catalog"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/command"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/store/mocks"
	notifymocks "github.com/MubarakOnGit/clickwave-launchpad/internal/notification/mocks"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   http.Handler
	orders   *mocks.MockOrderStore
	notifier *notifymocks.MockDispatcher
}

func newTestServer() *testServer {
	orders := mocks.NewMockOrderStore()
	notifier := notifymocks.NewMockDispatcher()
	products := catalog.Default()

	cmdHandler := command.NewHandler(orders, order.NewTrackingIDGenerator(), notifier, products, 3)
	queryHandler := query.NewHandler(orders, products)
	handlers := NewHandlers(cmdHandler, queryHandler, "https://shop.example.com")

	return &testServer{router: NewRouter(handlers), orders: orders, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validCheckoutBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": "1", "quantity": 1},
			{"product_id": "2", "quantity": 2},
		},
		"delivery_info": map[string]any{
			"name":     "John Doe",
			"email":    "john@example.com",
			"phone":    "9876543210",
			"address":  "12 Beach Road",
			"district": "Kozhikode",
			"pincode":  "673001",
		},
		"payment_method": "cod",
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ============================================
// Health and Catalog Tests
// ============================================

func TestHealthz(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGetProducts(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 4)

	rec = s.do(t, http.MethodGet, "/products?category=Wearables", nil)
	products := decode[[]map[string]any](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, "Smart Fitness Watch", products[0]["name"])

	rec = s.do(t, http.MethodGet, "/products?sort=price&popular=true", nil)
	products = decode[[]map[string]any](t, rec)
	require.Len(t, products, 3)
	assert.Equal(t, "2", products[0]["id"])
}

func TestGetProduct(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/products/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5G Smartphone Pro", decode[map[string]any](t, rec)["name"])

	rec = s.do(t, http.MethodGet, "/products/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCategories(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[[]string](t, rec), "Audio")
}

// ============================================
// Checkout Tests
// ============================================

func TestCheckout_Success(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodPost, "/checkout", validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[checkoutResponse](t, rec)
	assert.Regexp(t, order.TrackingIDPattern, resp.TrackingID)
	assert.Equal(t, "https://shop.example.com/track/"+resp.TrackingID, resp.TrackingURL)
	assert.Equal(t, "797.00", resp.TotalAmount)
	assert.Len(t, s.notifier.OrderPlacedCalls, 1)
}

func TestCheckout_Failures(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(map[string]any)
		status int
		field  string
	}{
		{"empty email", func(b map[string]any) { b["delivery_info"].(map[string]any)["email"] = "" }, http.StatusBadRequest, "email"},
		{"card payment", func(b map[string]any) { b["payment_method"] = "card" }, http.StatusBadRequest, ""},
		{"empty cart", func(b map[string]any) { b["items"] = []any{} }, http.StatusBadRequest, ""},
		{"unknown product", func(b map[string]any) {
			b["items"] = []map[string]any{{"product_id": "99", "quantity": 1}}
		}, http.StatusBadRequest, "items"},
		{"shown total mismatch", func(b map[string]any) { b["total_amount"] = "10.00" }, http.StatusBadRequest, "total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			body := validCheckoutBody()
			tt.edit(body)

			rec := s.do(t, http.MethodPost, "/checkout", body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.field != "" {
				assert.Equal(t, tt.field, decode[errorResponse](t, rec).Field)
			}
			assert.Equal(t, 0, s.orders.Backing().Len())
		})
	}
}

func TestCheckout_InvalidJSON(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodPost, "/checkout", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_BodyTooLarge(t *testing.T) {
	s := newTestServer()
	body := `{"payment_method":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`

	rec := s.do(t, http.MethodPost, "/checkout", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.orders.CreateCalls)
}

func TestCheckout_StoreUnavailable(t *testing.T) {
	s := newTestServer()
	persistErr := fmt.Errorf("%w: unreachable", order.ErrPersistence)
	s.orders.CreateErrs = []error{persistErr, persistErr, persistErr}

	rec := s.do(t, http.MethodPost, "/checkout", validCheckoutBody())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unreachable")
}

// ============================================
// Tracking Tests
// ============================================

func checkout(t *testing.T, s *testServer) checkoutResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/checkout", validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[checkoutResponse](t, rec)
}

func TestTrackOrder(t *testing.T) {
	s := newTestServer()
	placed := checkout(t, s)

	rec := s.do(t, http.MethodGet, "/track/"+placed.TrackingID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[map[string]any](t, rec)
	o := view["order"].(map[string]any)
	assert.Equal(t, placed.TrackingID, o["tracking_id"])
	assert.Equal(t, "confirmed", o["status"])
	assert.Equal(t, "Order Confirmed", view["current"].(map[string]any)["label"])
	assert.Len(t, view["steps"], 4)
}

func TestTrackOrder_NonASCIIPrefix(t *testing.T) {
	s := newTestServer()
	body := validCheckoutBody()
	body["delivery_info"].(map[string]any)["name"] = "Ñoño"

	rec := s.do(t, http.MethodPost, "/checkout", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[checkoutResponse](t, rec)
	require.True(t, strings.HasPrefix(placed.TrackingID, "ÑOÑ-"), placed.TrackingID)

	path := strings.TrimPrefix(placed.TrackingURL, "https://shop.example.com")
	rec = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	o := decode[map[string]any](t, rec)["order"].(map[string]any)
	assert.Equal(t, placed.TrackingID, o["tracking_id"])
}

func TestTrackOrder_NotFound(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/track/NOPE-00000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrackOrder_LookupFailure(t *testing.T) {
	s := newTestServer()
	s.orders.FindErr = fmt.Errorf("%w: timeout", order.ErrPersistence)

	rec := s.do(t, http.MethodGet, "/track/JOH-4KQ9Z2MA", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// ============================================
// Status Tests
// ============================================

func TestAdvanceStatus(t *testing.T) {
	s := newTestServer()
	placed := checkout(t, s)
	o, err := s.orders.FindByTrackingID(context.Background(), placed.TrackingID)
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/orders/"+o.ID+"/status", map[string]string{"status": "packing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "packing", decode[map[string]any](t, rec)["status"])

	rec = s.do(t, http.MethodPost, "/orders/"+o.ID+"/status", map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/orders/"+o.ID+"/status", map[string]string{"status": "returned"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/orders/missing/status", map[string]string{"status": "packing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Len(t, s.notifier.StatusChangedCalls, 1)
}
