package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	// ErrNoMongoURI is returned when no connection string was configured.
	ErrNoMongoURI = errors.New("mongodb uri is not configured")
	// ErrConnectorClosed is returned by Client after Disconnect.
	ErrConnectorClosed = errors.New("mongodb connector is closed")
)

// MongoConnector connects to MongoDB on first use. Concurrent callers share
// the same attempt and its outcome; there is no reconnect.
type MongoConnector struct {
	uri     string
	timeout time.Duration

	once   sync.Once
	client *mongo.Client
	err    error
}

func NewMongoConnector(uri string, timeout time.Duration) *MongoConnector {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &MongoConnector{
		uri:     uri,
		timeout: timeout,
	}
}

// Client returns the shared client, connecting on the first call.
func (c *MongoConnector) Client(ctx context.Context) (*mongo.Client, error) {
	c.once.Do(func() {
		c.client, c.err = c.connect(ctx)
	})
	return c.client, c.err
}

func (c *MongoConnector) connect(ctx context.Context) (*mongo.Client, error) {
	if c.uri == "" {
		return nil, ErrNoMongoURI
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(c.uri).
		SetServerSelectionTimeout(c.timeout).
		SetConnectTimeout(c.timeout).
		SetBSONOptions(
			&options.BSONOptions{
				ObjectIDAsHexString: true,
			},
		))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info().Msg("MongoDB connected")
	return client, nil
}

// Database returns the named database of the shared client.
func (c *MongoConnector) Database(ctx context.Context, name string) (*mongo.Database, error) {
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(name), nil
}

// Disconnect waits for an in-flight connect before closing. A connector
// that never connected is closed for good.
func (c *MongoConnector) Disconnect(ctx context.Context) error {
	c.once.Do(func() {
		c.err = ErrConnectorClosed
	})
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
