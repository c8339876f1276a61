package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/crmlabs/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/crmlabs/order/internal/service/models/outbox"
)

// publisher sends an event payload to a queue.
type publisher interface {
	Publish(queue string, contentType string, body []byte) error
}

// Worker drains the outbox collection and publishes pending events to
// RabbitMQ. Failed publishes are rescheduled with exponential backoff.
type Worker struct {
	outboxRepo   ioutboxrepo.IOutboxRepository
	publisher    publisher
	pollInterval time.Duration
	batchSize    int
	stopCh       chan struct{}
}

// NewWorker creates a new outbox worker.
func NewWorker(outboxRepo ioutboxrepo.IOutboxRepository, pub publisher) *Worker {
	pollInterval := viper.GetDuration("rabbitmq.outbox.poll_interval")
	if pollInterval == 0 {
		pollInterval = 10 * time.Second
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	return &Worker{
		outboxRepo:   outboxRepo,
		publisher:    pub,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		stopCh:       make(chan struct{}),
	}
}

// Start begins draining the outbox until the context is cancelled or Stop is
// called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// drain publishes one batch of pending messages, at most three in flight.
func (w *Worker) drain(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending outbox messages", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for _, msg := range messages {
		msg := msg
		g.Go(func() error {
			w.publishOne(ctx, msg)

			return nil
		})
	}

	_ = g.Wait()
}

func (w *Worker) publishOne(ctx context.Context, msg outbox.Message) {
	err := w.publisher.Publish(msg.QueueName, msg.ContentType, msg.Payload)
	if err == nil {
		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete published outbox message", "outbox_id", msg.ID, "error", err)
		}

		return
	}

	if msg.MaxRetries > 0 && msg.RetryCount+1 >= msg.MaxRetries {
		slog.Error("Outbox message exhausted retries, dropping", "outbox_id", msg.ID, "error", err)
		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete exhausted outbox message", "outbox_id", msg.ID, "error", err)
		}

		return
	}

	retryCount := msg.RetryCount + 1
	backoff := time.Duration(math.Pow(2, float64(retryCount))) * 30 * time.Second
	nextRetryAt := time.Now().UTC().Add(backoff)

	slog.Warn("Failed to publish outbox message, will retry",
		"outbox_id", msg.ID,
		"retry_count", retryCount,
		"next_retry", nextRetryAt,
		"error", err,
	)

	if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, retryCount, err.Error(), nextRetryAt); err != nil {
		slog.Error("Failed to update outbox retry information", "outbox_id", msg.ID, "error", err)
	}
}
