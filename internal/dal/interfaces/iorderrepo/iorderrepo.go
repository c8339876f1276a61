package iorderrepo

import (
	"context"
	"time"

	"github.com/crmlabs/order/internal/service/models/order"
)

// IOrderRepository is the persistence contract the lifecycle service consumes.
type IOrderRepository interface {
	// Insert persists a new order and returns it with the assigned id.
	Insert(ctx context.Context, o order.Order) (order.Order, error)

	// FindOne returns the order with the given id, or ErrNotFound.
	FindOne(ctx context.Context, id string) (order.Order, error)

	// Query returns orders matching the filter, newest-created first,
	// with offset pagination. No total count is computed.
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// UpdateStatus conditionally sets the status and updated_at of the order
	// with the given id, but only if its stored status still equals
	// expectedStatus. It reports whether a document was modified.
	UpdateStatus(
		ctx context.Context,
		id string,
		expectedStatus order.Status,
		newStatus order.Status,
		updatedAt time.Time,
	) (bool, error)
}
