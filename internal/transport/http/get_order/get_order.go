package getorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crmlabs/order/internal/service/models/order"
)

type service interface {
	GetOrder(ctx context.Context, id string) (order.Order, error)
}

// GetOrder handles the get order by id request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	id := chi.URLParam(r, "id")

	o, err := service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting order", "order_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o); err != nil {
		slog.Error("Error sending response for get order", "error", err)
	}
}
