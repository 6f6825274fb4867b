package storage

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blueshift/metadata"
)

type countingClient struct {
	gets, drops, ctxDrops atomic.Int64
	db                    *countingDatabase
}

func (c *countingClient) Database(string, ...*options.DatabaseOptions) Database {
	c.gets.Add(1)
	return c.db
}

func (c *countingClient) DropDatabase(string) error {
	c.drops.Add(1)
	return nil
}

func (c *countingClient) DropDatabaseContext(context.Context, string) error {
	c.ctxDrops.Add(1)
	return nil
}

type countingDatabase struct {
	collections atomic.Int64
	last        atomic.Value
}

func (d *countingDatabase) Name() string { return "zooDb" }

func (d *countingDatabase) Collection(name string, _ ...*options.CollectionOptions) Collection {
	d.collections.Add(1)
	d.last.Store(name)
	return namedCollection(name)
}

type namedCollection string

func (n namedCollection) Name() string { return string(n) }

func (n namedCollection) CreateIndexes(context.Context, []mongo.IndexModel) ([]string, error) {
	return nil, nil
}

// Property: every call issues exactly one delegated request.
func TestProperty_OneDelegatedRequestPerCall(t *testing.T) {
	b := metadata.NewBuilder().FromDatabase("zooDb")
	b.Entity(Employee{}).FromCollection("employees")
	model, err := b.Build()
	if err != nil {
		t.Fatalf("build model: %v", err)
	}

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("n getter calls and m drops issue n gets and m drops", prop.ForAll(
		func(gets, colls, drops, ctxDrops int) bool {
			client := &countingClient{db: &countingDatabase{}}
			c, err := NewConnection(client, model)
			if err != nil {
				return false
			}
			for i := 0; i < gets; i++ {
				if _, err := c.DatabaseContext(context.Background()); err != nil {
					return false
				}
			}
			for i := 0; i < colls; i++ {
				if _, err := CollectionOf[Employee](c); err != nil {
					return false
				}
			}
			for i := 0; i < drops; i++ {
				_ = c.DropDatabase()
			}
			for i := 0; i < ctxDrops; i++ {
				_ = c.DropDatabaseContext(context.Background())
			}
			if colls > 0 && client.db.last.Load() != "employees" {
				return false
			}
			return client.gets.Load() == int64(gets+colls) &&
				client.db.collections.Load() == int64(colls) &&
				client.drops.Load() == int64(drops) &&
				client.ctxDrops.Load() == int64(ctxDrops)
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}
