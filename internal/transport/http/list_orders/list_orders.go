package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/crmlabs/order/internal/service/models/order"
)

type service interface {
	GetOrders(ctx context.Context, model order.ListOrdersModel) ([]order.Order, error)
}

type listOrdersRequest struct {
	CustomerID string `schema:"customer_id,omitempty"`
	Status     string `schema:"status,omitempty"`
	Page       int    `schema:"page,omitempty"`
	Limit      int    `schema:"limit,omitempty"`
}

func (q *listOrdersRequest) toModel() order.ListOrdersModel {
	return order.ListOrdersModel{
		CustomerID: q.CustomerID,
		Status:     q.Status,
		Page:       q.Page,
		Limit:      q.Limit,
	}
}

// ListOrders handles the list orders request. Page and limit default to 1
// and 10 and must both be positive.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &listOrdersRequest{Page: 1, Limit: 10}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding list orders request", "error", err)

		return
	}

	if query.Page < 1 || query.Limit < 1 {
		http.Error(w, "page and limit must be greater than 0", http.StatusBadRequest)

		return
	}

	orders, err := service.GetOrders(r.Context(), query.toModel())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders", "error", err)

		return
	}

	if orders == nil {
		orders = []order.Order{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending response for list orders", "error", err)
	}
}
