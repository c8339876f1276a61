package mongorepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crmlabs/order/internal/dal/mongo"
	"github.com/crmlabs/order/internal/service/models/outbox"
)

const collectionName = "outbox"

// messageDal represents an outbox document.
type messageDal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	QueueName   string             `bson:"queue_name"`
	RoutingKey  string             `bson:"routing_key"`
	Payload     []byte             `bson:"payload"`
	ContentType string             `bson:"content_type"`
	RetryCount  int                `bson:"retry_count"`
	MaxRetries  int                `bson:"max_retries"`
	LastError   string             `bson:"last_error,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
	NextRetryAt time.Time          `bson:"next_retry_at"`
}

func (d *messageDal) toModel() outbox.Message {
	return outbox.Message{
		ID:          d.ID.Hex(),
		QueueName:   d.QueueName,
		RoutingKey:  d.RoutingKey,
		Payload:     d.Payload,
		ContentType: d.ContentType,
		RetryCount:  d.RetryCount,
		MaxRetries:  d.MaxRetries,
		LastError:   d.LastError,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		NextRetryAt: d.NextRetryAt,
	}
}

// MongoOutboxRepository implements the outbox repository over the outbox
// collection.
type MongoOutboxRepository struct {
	collection *mongodrv.Collection
}

// NewMongoOutboxRepository creates a new outbox repository.
func NewMongoOutboxRepository(client *mongo.Client) *MongoOutboxRepository {
	return &MongoOutboxRepository{
		collection: client.Database().Collection(collectionName),
	}
}

// Insert adds a new message to the outbox.
func (r *MongoOutboxRepository) Insert(ctx context.Context, msg outbox.Message) error {
	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, &messageDal{
		QueueName:   msg.QueueName,
		RoutingKey:  msg.RoutingKey,
		Payload:     msg.Payload,
		ContentType: msg.ContentType,
		RetryCount:  msg.RetryCount,
		MaxRetries:  msg.MaxRetries,
		CreatedAt:   msg.CreatedAt,
		UpdatedAt:   msg.UpdatedAt,
		NextRetryAt: msg.NextRetryAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

// GetPendingMessages returns messages due for publishing, oldest first.
func (r *MongoOutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error) {
	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	filter := bson.M{"next_retry_at": bson.M{"$lte": time.Now().UTC()}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer cursor.Close(ctx)

	var result []outbox.Message
	for cursor.Next(ctx) {
		var dal messageDal
		if err := cursor.Decode(&dal); err != nil {
			return nil, fmt.Errorf("failed to decode outbox message: %w", err)
		}
		result = append(result, dal.toModel())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}

	return result, nil
}

// UpdateRetry records a failed publish attempt and schedules the next one.
func (r *MongoOutboxRepository) UpdateRetry(
	ctx context.Context,
	id string,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid outbox message id %q: %w", id, err)
	}

	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"retry_count":   retryCount,
			"last_error":    lastError,
			"next_retry_at": nextRetryAt,
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update outbox retry: %w", err)
	}

	return nil
}

// Delete removes a message after a successful publish.
func (r *MongoOutboxRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid outbox message id %q: %w", id, err)
	}

	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return fmt.Errorf("failed to delete outbox message: %w", err)
	}

	return nil
}
