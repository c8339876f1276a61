package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmlabs/order/internal/service/models/outbox"
)

type fakeOutboxRepo struct {
	mu      sync.Mutex
	pending []outbox.Message
	deleted []string
	retried []string
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, limit int) ([]outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}

	return r.pending, nil
}

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, id string, _ int, _ string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.retried = append(r.retried, id)

	return nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleted = append(r.deleted, id)

	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	err       error
	published []string
}

func (p *fakePublisher) Publish(queue string, _ string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, queue)

	return nil
}

func pendingMessage(id string, retryCount, maxRetries int) outbox.Message {
	now := time.Now().UTC()

	return outbox.Message{
		ID:          id,
		QueueName:   "oms.order.created",
		RoutingKey:  "oms.order.created",
		Payload:     []byte(`{"order_id":"order-1"}`),
		ContentType: "application/json",
		RetryCount:  retryCount,
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
}

func TestDrain(t *testing.T) {
	t.Run("should publish and delete pending messages", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []outbox.Message{
			pendingMessage("m1", 0, 10),
			pendingMessage("m2", 0, 10),
		}}
		pub := &fakePublisher{}
		w := NewWorker(repo, pub)

		w.drain(context.Background())

		assert.Len(t, pub.published, 2)
		assert.ElementsMatch(t, []string{"m1", "m2"}, repo.deleted)
		assert.Empty(t, repo.retried)
	})

	t.Run("should schedule a retry when publishing fails", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []outbox.Message{pendingMessage("m1", 0, 10)}}
		pub := &fakePublisher{err: errors.New("broker down")}
		w := NewWorker(repo, pub)

		w.drain(context.Background())

		assert.Empty(t, repo.deleted)
		assert.Equal(t, []string{"m1"}, repo.retried)
	})

	t.Run("should drop a message that exhausted its retries", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []outbox.Message{pendingMessage("m1", 9, 10)}}
		pub := &fakePublisher{err: errors.New("broker down")}
		w := NewWorker(repo, pub)

		w.drain(context.Background())

		assert.Equal(t, []string{"m1"}, repo.deleted)
		assert.Empty(t, repo.retried)
	})

	t.Run("should do nothing when the outbox is empty", func(t *testing.T) {
		repo := &fakeOutboxRepo{}
		pub := &fakePublisher{}
		w := NewWorker(repo, pub)

		w.drain(context.Background())

		assert.Empty(t, pub.published)
		assert.Empty(t, repo.deleted)
	})
}

func TestStartStop(t *testing.T) {
	repo := &fakeOutboxRepo{}
	pub := &fakePublisher{}
	w := NewWorker(repo, pub)

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "worker did not stop")
	}
}
