package mongo

import (
	"context"
	"os"
	"time"

	"github.com/spf13/viper"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client represents a MongoDB client bound to the service database.
type Client struct {
	client *mongodrv.Client
	db     *mongodrv.Database
}

// Database returns the underlying database handle.
func (c *Client) Database() *mongodrv.Database {
	return c.db
}

// Close closes the connection for graceful shutdown.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// MustNewClient creates a new MongoDB client. The store must answer a ping
// within the configured connect timeout; an unreachable store aborts startup.
func MustNewClient() *Client {
	uri := os.Getenv("ORDER_MONGO_URI")
	if uri == "" {
		uri = viper.GetString("mongo.uri")
	}

	connectTimeout := viper.GetDuration("mongo.connect_timeout")

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongodrv.Connect(ctx, opts)
	if err != nil {
		panic(err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}

	return &Client{
		client: client,
		db:     client.Database(viper.GetString("mongo.database")),
	}
}

// OperationContext derives a context bounded by the configured per-operation
// timeout. Every repository call goes through it.
func OperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := viper.GetDuration("mongo.operation_timeout")
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return context.WithTimeout(ctx, timeout)
}
