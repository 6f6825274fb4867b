package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blueshift/metadata"
)

// Migrate creates the indexes declared on each entity of the connection's
// model. Creating an index that already exists with the same definition is
// a no-op on the server, so Migrate can run on every start.
func Migrate(ctx context.Context, c *Connection) error {
	for _, e := range c.Model().Entities() {
		if len(e.Indexes) == 0 {
			continue
		}
		coll, err := c.collection(ctx, e.Type, true)
		if err != nil {
			return err
		}
		names, err := coll.CreateIndexes(ctx, indexModels(e.Indexes))
		if err != nil {
			c.log.Error("create indexes failed", "collection", e.Collection, "error", err)
			return err
		}
		c.log.Info("indexes ensured", "collection", e.Collection, "indexes", names)
	}
	return nil
}

func indexModels(indexes []metadata.Index) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, ix := range indexes {
		keys := make(bson.D, 0, len(ix.Keys))
		for _, k := range ix.Keys {
			dir := 1
			if k.Descending {
				dir = -1
			}
			keys = append(keys, bson.E{Key: k.Field, Value: dir})
		}
		opts := options.Index()
		if ix.Name != "" {
			opts.SetName(ix.Name)
		}
		if ix.Unique {
			opts.SetUnique(true)
		}
		if ix.Sparse {
			opts.SetSparse(true)
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: opts})
	}
	return models
}
