package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client produces database handles by name and drops databases.
type Client interface {
	Database(name string, opts ...*options.DatabaseOptions) Database
	DropDatabase(name string) error
	DropDatabaseContext(ctx context.Context, name string) error
}

// Database is a handle to one named database.
type Database interface {
	Name() string
	Collection(name string, opts ...*options.CollectionOptions) Collection
}

// Collection is a handle to one named collection.
type Collection interface {
	Name() string
	CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error)
}
