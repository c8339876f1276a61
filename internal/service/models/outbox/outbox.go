package outbox

import (
	"time"
)

// Message is an event waiting to be published to RabbitMQ. Messages are
// written in the request path and drained by the outbox worker.
type Message struct {
	ID          string
	QueueName   string
	RoutingKey  string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
