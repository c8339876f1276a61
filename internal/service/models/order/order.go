package order

import (
	"errors"
	"time"

	"github.com/crmlabs/order/internal/service/models/orderitem"
)

// ErrNotFound is returned when no order exists for a given id, including an
// order that vanished between a read and a conditional write.
var ErrNotFound = errors.New("order not found")

// Order represents a purchase order in the system.
type Order struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customer_id"`
	Items           []orderitem.OrderItem `json:"items"`
	TotalAmount     float64               `json:"total_amount"`
	Status          Status                `json:"status"`
	ShippingAddress Address               `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	Notes           string                `json:"notes,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// Address is a shipping destination. Fields are opaque strings, checked for
// presence only at the transport boundary.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
