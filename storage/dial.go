package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"blueshift/logger"
)

// MongoConfig holds what Dial needs to reach a server.
type MongoConfig struct {
	URI            string
	ConnectTimeout time.Duration
	// OperationTimeout bounds every operation run on the dialed client.
	// Zero leaves operations bounded only by their context.
	OperationTimeout time.Duration
}

func (cfg MongoConfig) clientOptions() *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.OperationTimeout > 0 {
		opts.SetTimeout(cfg.OperationTimeout)
	}
	return opts
}

// Dial connects to MongoDB and verifies the connection with a ping.
// The caller owns the returned client and must Disconnect it.
func Dial(ctx context.Context, cfg MongoConfig, log logger.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("storage: mongodb URI is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, cfg.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	log.Info("MongoDB connection established")
	return client, nil
}
