package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"

	"blueshift/logger"
)

// TestConnection_Integration runs the connection against a real MongoDB
// started with testcontainers. Set BLUESHIFT_INTEGRATION=1 to enable.
func TestConnection_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("BLUESHIFT_INTEGRATION") == "" {
		t.Skip("skipping integration test (set BLUESHIFT_INTEGRATION=1 to run)")
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "start mongodb container")
	defer func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	log, err := logger.NewZapLogger(logger.Config{Level: logger.DebugLevel, Format: logger.TextFormat})
	require.NoError(t, err)

	raw, err := Dial(ctx, MongoConfig{URI: uri, ConnectTimeout: 30 * time.Second}, log)
	require.NoError(t, err)
	defer func() { _ = raw.Disconnect(context.Background()) }()

	m := NewManager(WithLogger(log))
	require.NoError(t, m.Start(raw, indexedZooModel(t)))
	require.NoError(t, m.Build(ctx))
	conn := m.Connection()

	coll, err := CollectionOf[Employee](conn)
	require.NoError(t, err)
	employees := coll.(*MongoCollection).Unwrap()
	_, err = employees.InsertOne(ctx, Employee{Name: "Alice"})
	require.NoError(t, err)

	names, err := raw.Database("zooDb").ListCollectionNames(ctx, bson.D{})
	require.NoError(t, err)
	assert.Contains(t, names, "employees")

	cur, err := employees.Indexes().List(ctx)
	require.NoError(t, err)
	var indexes []bson.M
	require.NoError(t, cur.All(ctx, &indexes))
	assert.Len(t, indexes, 3, "_id plus two declared indexes")

	require.NoError(t, conn.DropDatabaseContext(ctx))
	dbs, err := raw.ListDatabaseNames(ctx, bson.D{})
	require.NoError(t, err)
	assert.NotContains(t, dbs, "zooDb")
}
