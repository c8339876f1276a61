package ordersvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/crmlabs/order/internal/service/models/order"
	"github.com/crmlabs/order/internal/service/models/outbox"
)

// orderEvent is the payload published to downstream consumers such as the
// notification service.
type orderEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	FromStatus string    `json:"from_status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// enqueueOrderCreatedEvent writes a creation event to the outbox. Eventing is
// best-effort: a failed enqueue is logged, never surfaced to the caller.
func (s *OrderService) enqueueOrderCreatedEvent(ctx context.Context, o order.Order) {
	s.enqueueEvent(ctx, viper.GetString("rabbitmq.queues.order_created"), orderEvent{
		EventID:    uuid.NewString(),
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		TotalPrice: o.TotalAmount,
		Status:     o.Status.String(),
		OccurredAt: time.Now().UTC(),
	})
}

// enqueueStatusChangedEvent writes a transition event to the outbox.
func (s *OrderService) enqueueStatusChangedEvent(ctx context.Context, o order.Order, t order.Transition) {
	s.enqueueEvent(ctx, viper.GetString("rabbitmq.queues.status_changed"), orderEvent{
		EventID:    uuid.NewString(),
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		TotalPrice: o.TotalAmount,
		Status:     t.To.String(),
		FromStatus: t.From.String(),
		OccurredAt: time.Now().UTC(),
	})
}

func (s *OrderService) enqueueEvent(ctx context.Context, queue string, event orderEvent) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal order event", "event_id", event.EventID, "error", err)

		return
	}

	now := time.Now().UTC()
	msg := outbox.Message{
		QueueName:   queue,
		RoutingKey:  queue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  viper.GetInt("rabbitmq.outbox.max_retries"),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}

	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Warn("Failed to enqueue order event", "order_id", event.OrderID, "queue", queue, "error", err)
	}
}
