package updatestatus

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
	UpdateStatus(ctx context.Context, id string, newStatus order.Status) error
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UpdateStatus handles the order status update request. Membership of the
// requested status is checked before the order is ever read.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	id := chi.URLParam(r, "id")

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding status update request", "error", err)

		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, "Invalid order status", http.StatusBadRequest)

		return
	}

	if err := service.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error updating order status", "order_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := updateStatusResponse{
		Status:  "success",
		Message: "Order status updated successfully",
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for status update", "error", err)
	}
}
