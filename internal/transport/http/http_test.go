package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmlabs/order/internal/metrics"
	"github.com/crmlabs/order/internal/service/models/order"
	"github.com/crmlabs/order/internal/service/services/ordersvc"
)

type fakeService struct {
	createErr    error
	updateErr    error
	getErr       error
	listErr      error
	lastList     order.ListOrdersModel
	lastStatusID string
	lastStatus   order.Status
}

func (f *fakeService) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	if f.createErr != nil {
		return order.Order{}, f.createErr
	}

	items, total := order.PriceItems(o.Items)
	o.ID = "68b1c0ffee0000000000cafe"
	o.Items = items
	o.TotalAmount = total
	o.Status = order.StatusPending
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt

	return o, nil
}

func (f *fakeService) GetOrders(_ context.Context, model order.ListOrdersModel) ([]order.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastList = model

	return []order.Order{}, nil
}

func (f *fakeService) GetOrder(_ context.Context, id string) (order.Order, error) {
	if f.getErr != nil {
		return order.Order{}, f.getErr
	}

	return order.Order{ID: id, Status: order.StatusPending}, nil
}

func (f *fakeService) UpdateStatus(_ context.Context, id string, newStatus order.Status) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastStatusID = id
	f.lastStatus = newStatus

	return nil
}

func newTestTransport(svc *fakeService) *HTTPTransport {
	h := NewHTTPTransport(svc, metrics.NewMetrics())
	h.RegisterRoutes()

	return h
}

func doRequest(h *HTTPTransport, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	h := newTestTransport(&fakeService{})

	rec := doRequest(h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestTransport(&fakeService{})

	// generate one request so the counter vector has a sample
	doRequest(h, http.MethodGet, "/health", "")

	rec := doRequest(h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "order_service_requests_total")
	assert.Contains(t, rec.Body.String(), "active_orders_total")
}

func TestCreateOrderEndpoint(t *testing.T) {
	validBody := `{
		"customer_id": "cust-1",
		"items": [
			{"product_id": "p1", "product_name": "Widget", "quantity": 2, "unit_price": 9.99},
			{"product_id": "p2", "product_name": "Gadget", "quantity": 1, "unit_price": 5.00}
		],
		"shipping_address": {"street": "1 Main St", "city": "Springfield", "state": "IL", "postal_code": "62701", "country": "US"},
		"payment_method": "card"
	}`

	t.Run("should return the created order with computed totals", func(t *testing.T) {
		h := newTestTransport(&fakeService{})

		rec := doRequest(h, http.MethodPost, "/api/orders", validBody)

		require.Equal(t, http.StatusOK, rec.Code)

		var created order.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, order.StatusPending, created.Status)
		assert.InDelta(t, 24.98, created.TotalAmount, 1e-9)
	})

	t.Run("should return 400 for an invalid customer", func(t *testing.T) {
		h := newTestTransport(&fakeService{createErr: ordersvc.ErrInvalidCustomer})

		rec := doRequest(h, http.MethodPost, "/api/orders", validBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid customer ID")
	})

	t.Run("should return 400 for malformed json", func(t *testing.T) {
		h := newTestTransport(&fakeService{})

		rec := doRequest(h, http.MethodPost, "/api/orders", "{not json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return 400 for an order without items", func(t *testing.T) {
		h := newTestTransport(&fakeService{})
		body := `{"customer_id": "cust-1", "items": [], "payment_method": "card",
			"shipping_address": {"street": "s", "city": "c", "state": "st", "postal_code": "p", "country": "co"}}`

		rec := doRequest(h, http.MethodPost, "/api/orders", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return 400 for non-positive quantity or price", func(t *testing.T) {
		h := newTestTransport(&fakeService{})
		body := `{"customer_id": "cust-1", "payment_method": "card",
			"items": [{"product_id": "p1", "product_name": "Widget", "quantity": 0, "unit_price": 9.99}],
			"shipping_address": {"street": "s", "city": "c", "state": "st", "postal_code": "p", "country": "co"}}`

		rec := doRequest(h, http.MethodPost, "/api/orders", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListOrdersEndpoint(t *testing.T) {
	t.Run("should apply defaults and pass filters through", func(t *testing.T) {
		svc := &fakeService{}
		h := newTestTransport(svc)

		rec := doRequest(h, http.MethodGet, "/api/orders?customer_id=cust-1&status=pending", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, order.ListOrdersModel{
			CustomerID: "cust-1",
			Status:     "pending",
			Page:       1,
			Limit:      10,
		}, svc.lastList)
	})

	t.Run("should honor explicit pagination", func(t *testing.T) {
		svc := &fakeService{}
		h := newTestTransport(svc)

		rec := doRequest(h, http.MethodGet, "/api/orders?page=2&limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, svc.lastList.Page)
		assert.Equal(t, 5, svc.lastList.Limit)
	})

	t.Run("should return 400 for non-positive page or limit", func(t *testing.T) {
		h := newTestTransport(&fakeService{})

		assert.Equal(t, http.StatusBadRequest, doRequest(h, http.MethodGet, "/api/orders?page=0", "").Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(h, http.MethodGet, "/api/orders?limit=-1", "").Code)
	})

	t.Run("should return an empty json array when nothing matches", func(t *testing.T) {
		h := newTestTransport(&fakeService{})

		rec := doRequest(h, http.MethodGet, "/api/orders", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestGetOrderEndpoint(t *testing.T) {
	t.Run("should return the order", func(t *testing.T) {
		h := newTestTransport(&fakeService{})

		rec := doRequest(h, http.MethodGet, "/api/orders/abc123", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var o order.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
		assert.Equal(t, "abc123", o.ID)
	})

	t.Run("should return 404 for an unknown order", func(t *testing.T) {
		h := newTestTransport(&fakeService{getErr: order.ErrNotFound})

		rec := doRequest(h, http.MethodGet, "/api/orders/missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateStatusEndpoint(t *testing.T) {
	t.Run("should update and report success", func(t *testing.T) {
		svc := &fakeService{}
		h := newTestTransport(svc)

		rec := doRequest(h, http.MethodPut, "/api/orders/abc123/status", `{"status": "shipped"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","message":"Order status updated successfully"}`, rec.Body.String())
		assert.Equal(t, "abc123", svc.lastStatusID)
		assert.Equal(t, order.StatusShipped, svc.lastStatus)
	})

	t.Run("should return 400 for a status outside the enumeration", func(t *testing.T) {
		svc := &fakeService{}
		h := newTestTransport(svc)

		rec := doRequest(h, http.MethodPut, "/api/orders/abc123/status", `{"status": "refunded"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid order status")
		assert.Empty(t, svc.lastStatusID)
	})

	t.Run("should return 404 when the order vanished", func(t *testing.T) {
		h := newTestTransport(&fakeService{updateErr: order.ErrNotFound})

		rec := doRequest(h, http.MethodPut, "/api/orders/abc123/status", `{"status": "shipped"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should return 500 when retries are exhausted", func(t *testing.T) {
		h := newTestTransport(&fakeService{updateErr: ordersvc.ErrUpdateConflict})

		rec := doRequest(h, http.MethodPut, "/api/orders/abc123/status", `{"status": "shipped"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRequestMetricsMiddleware(t *testing.T) {
	h := newTestTransport(&fakeService{})

	doRequest(h, http.MethodGet, "/api/orders/abc123", "")

	rec := doRequest(h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	// labeled by route pattern, not the raw path
	assert.Contains(t, rec.Body.String(), `endpoint="/api/orders/{id}"`)
}
