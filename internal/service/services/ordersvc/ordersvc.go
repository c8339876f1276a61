package ordersvc

import (
	"context"
	"time"

	"github.com/crmlabs/order/internal/dal/interfaces/iorderrepo"
	"github.com/crmlabs/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/crmlabs/order/internal/metrics"
	"github.com/crmlabs/order/internal/service/models/order"
)

// maxUpdateAttempts bounds the read-decide-write retry loop in UpdateStatus.
const maxUpdateAttempts = 3

// customerValidator is the identity oracle consulted at creation time.
type customerValidator interface {
	IsValidCustomer(ctx context.Context, customerID string) bool
}

// OrderService owns the order lifecycle: creation, queries and status
// transitions, together with the metrics they emit.
type OrderService struct {
	orderRepo  iorderrepo.IOrderRepository
	outboxRepo ioutboxrepo.IOutboxRepository
	validator  customerValidator
	metrics    *metrics.Metrics
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil || s.validator == nil || s.metrics == nil {
		panic("ordersvc: order repository, customer validator and metrics are required")
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithOutboxRepository sets the outbox repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *OrderService) {
		s.outboxRepo = repo
	}
}

// WithCustomerValidator sets the customer validator for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCustomerValidator(v customerValidator) option {
	return func(s *OrderService) {
		s.validator = v
	}
}

// WithMetrics sets the metrics instruments for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMetrics(m *metrics.Metrics) option {
	return func(s *OrderService) {
		s.metrics = m
	}
}

// CreateOrder validates the customer, prices the items and persists the
// order. The initial status is always pending regardless of input, and the
// total is always recomputed server-side.
func (s *OrderService) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if !s.validator.IsValidCustomer(ctx, o.CustomerID) {
		return order.Order{}, ErrInvalidCustomer
	}

	items, total := order.PriceItems(o.Items)
	o.Items = items
	o.TotalAmount = total
	o.Status = order.StatusPending

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	inserted, err := s.orderRepo.Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	s.metrics.ActiveOrders.Inc()
	s.enqueueOrderCreatedEvent(ctx, inserted)

	return inserted, nil
}

// GetOrders lists orders matching the optional customer and status filters,
// newest-created first. A page with no matches is an empty slice, not an
// error.
func (s *OrderService) GetOrders(ctx context.Context, model order.ListOrdersModel) ([]order.Order, error) {
	return s.orderRepo.Query(ctx, &order.QueryOrdersModel{
		CustomerID: model.CustomerID,
		Status:     model.Status,
		Limit:      model.Limit,
		Offset:     (model.Page - 1) * model.Limit,
	})
}

// GetOrder returns the order with the given id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (order.Order, error) {
	return s.orderRepo.FindOne(ctx, id)
}

// UpdateStatus moves the order to newStatus. The write is conditioned on the
// status observed at read time; losing that condition to a concurrent update
// re-reads and retries, so the transition metric and the active-orders gauge
// reflect each persisted transition exactly once.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, newStatus order.Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := s.orderRepo.FindOne(ctx, id)
		if err != nil {
			return err
		}

		transition := current.Status.TransitionTo(newStatus)

		modified, err := s.orderRepo.UpdateStatus(ctx, id, current.Status, newStatus, time.Now().UTC())
		if err != nil {
			return err
		}
		if !modified {
			// Vanished or concurrently moved; the next read decides which.
			continue
		}

		s.metrics.StatusUpdates.WithLabelValues(transition.From.String(), transition.To.String()).Inc()
		if transition.ActiveDelta != 0 {
			s.metrics.ActiveOrders.Add(float64(transition.ActiveDelta))
		}
		s.enqueueStatusChangedEvent(ctx, current, transition)

		return nil
	}

	return ErrUpdateConflict
}
