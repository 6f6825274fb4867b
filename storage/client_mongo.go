package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultOperationTimeout = 5 * time.Second

// MongoClient is the Client backed by the official MongoDB driver.
type MongoClient struct {
	client  *mongo.Client
	timeout time.Duration
}

type MongoClientOption func(*MongoClient)

// WithOperationTimeout bounds DropDatabase, which has no caller context.
// A non-positive value disables the bound.
func WithOperationTimeout(d time.Duration) MongoClientOption {
	return func(c *MongoClient) { c.timeout = d }
}

func NewMongoClient(client *mongo.Client, opts ...MongoClientOption) *MongoClient {
	c := &MongoClient{client: client, timeout: defaultOperationTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MongoClient) Unwrap() *mongo.Client { return c.client }

func (c *MongoClient) Database(name string, opts ...*options.DatabaseOptions) Database {
	return &MongoDatabase{db: c.client.Database(name, opts...)}
}

func (c *MongoClient) DropDatabase(name string) error {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.client.Database(name).Drop(ctx)
}

func (c *MongoClient) DropDatabaseContext(ctx context.Context, name string) error {
	return c.client.Database(name).Drop(ctx)
}

type MongoDatabase struct {
	db *mongo.Database
}

func (d *MongoDatabase) Name() string            { return d.db.Name() }
func (d *MongoDatabase) Unwrap() *mongo.Database { return d.db }

func (d *MongoDatabase) Collection(name string, opts ...*options.CollectionOptions) Collection {
	return &MongoCollection{coll: d.db.Collection(name, opts...)}
}

type MongoCollection struct {
	coll *mongo.Collection
}

func (c *MongoCollection) Name() string              { return c.coll.Name() }
func (c *MongoCollection) Unwrap() *mongo.Collection { return c.coll }

func (c *MongoCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error) {
	return c.coll.Indexes().CreateMany(ctx, models)
}
