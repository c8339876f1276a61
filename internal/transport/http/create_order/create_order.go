package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/crmlabs/order/internal/service/models/order"
	"github.com/crmlabs/order/internal/service/models/orderitem"
	"github.com/crmlabs/order/internal/service/services/ordersvc"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
// Subtotal is deliberately absent: it is never client-authoritative.
type itemInCreateOrderRequest struct {
	ProductID   string  `json:"product_id"   validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity"     validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price"   validate:"gt=0"`
}

// addressInCreateOrderRequest represents the shipping address. Fields are
// opaque, presence-checked only.
type addressInCreateOrderRequest struct {
	Street     string `json:"street"      validate:"required"`
	City       string `json:"city"        validate:"required"`
	State      string `json:"state"       validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country"     validate:"required"`
}

// createOrderRequest represents a create order request. It carries no status
// field: new orders always start pending.
type createOrderRequest struct {
	CustomerID      string                      `json:"customer_id" validate:"required"`
	Items           []itemInCreateOrderRequest  `json:"items"       validate:"required,min=1,dive"`
	ShippingAddress addressInCreateOrderRequest `json:"shipping_address"`
	PaymentMethod   string                      `json:"payment_method" validate:"required"`
	Notes           string                      `json:"notes"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to order.Order.
func (r *createOrderRequest) toModel() *order.Order {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = orderitem.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return &order.Order{
		CustomerID: r.CustomerID,
		Items:      items,
		ShippingAddress: order.Address{
			Street:     r.ShippingAddress.Street,
			City:       r.ShippingAddress.City,
			State:      r.ShippingAddress.State,
			PostalCode: r.ShippingAddress.PostalCode,
			Country:    r.ShippingAddress.Country,
		},
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	created, err := service.CreateOrder(r.Context(), *orderReq.toModel())
	if err != nil {
		if errors.Is(err, ordersvc.ErrInvalidCustomer) {
			http.Error(w, "Invalid customer ID", http.StatusBadRequest)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
