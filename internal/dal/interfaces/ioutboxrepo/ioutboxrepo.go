package ioutboxrepo

import (
	"context"
	"time"

	"github.com/crmlabs/order/internal/service/models/outbox"
)

// IOutboxRepository stores events until the outbox worker publishes them.
type IOutboxRepository interface {
	Insert(ctx context.Context, msg outbox.Message) error
	GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error)
	UpdateRetry(ctx context.Context, id string, retryCount int, lastError string, nextRetryAt time.Time) error
	Delete(ctx context.Context, id string) error
}
