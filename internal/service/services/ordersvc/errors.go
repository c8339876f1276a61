package ordersvc

import "errors"

var (
	// ErrInvalidCustomer is returned when the identity service does not
	// confirm the customer, including when it is unreachable.
	ErrInvalidCustomer = errors.New("invalid customer id")

	// ErrUpdateConflict is returned when a status update keeps losing the
	// conditional write to concurrent updates on the same order.
	ErrUpdateConflict = errors.New("order status update conflicted with concurrent updates")
)
