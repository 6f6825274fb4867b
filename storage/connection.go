package storage

import (
	"context"
	"errors"
	"reflect"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blueshift/logger"
	"blueshift/metadata"
)

// Connection resolves database and collection names from a Model and
// forwards each request to a Client. It keeps no handles between calls:
// every call re-resolves the name and asks the client again.
//
// Errors from the client and its handles are returned as-is. Metadata
// errors are returned before the client is called.
type Connection struct {
	id       uuid.UUID
	client   Client
	model    *metadata.Model
	log      logger.Logger
	dbOpts   []*options.DatabaseOptions
	collOpts []*options.CollectionOptions
}

type Option func(*Connection)

func WithLogger(l logger.Logger) Option {
	return func(c *Connection) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDatabaseOptions sets the options passed to every Client.Database call.
func WithDatabaseOptions(opts ...*options.DatabaseOptions) Option {
	return func(c *Connection) { c.dbOpts = append(c.dbOpts, opts...) }
}

// WithCollectionOptions sets the options passed to every Database.Collection call.
func WithCollectionOptions(opts ...*options.CollectionOptions) Option {
	return func(c *Connection) { c.collOpts = append(c.collOpts, opts...) }
}

var (
	ErrNilClient = errors.New("storage: client is required")
	ErrNilModel  = errors.New("storage: model is required")
)

func NewConnection(client Client, model *metadata.Model, opts ...Option) (*Connection, error) {
	if isNil(client) {
		return nil, ErrNilClient
	}
	if model == nil {
		return nil, ErrNilModel
	}
	c := &Connection{
		id:     uuid.New(),
		client: client,
		model:  model,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("connection_id", c.id.String())
	return c, nil
}

func (c *Connection) ID() uuid.UUID          { return c.id }
func (c *Connection) Model() *metadata.Model { return c.model }

// Database returns the handle for the model's database.
func (c *Connection) Database() (Database, error) {
	name, err := c.model.DatabaseName()
	if err != nil {
		return nil, err
	}
	c.log.Debug("get database", "database", name)
	return c.client.Database(name, c.dbOpts...), nil
}

// DatabaseContext is Database honoring ctx: a done ctx is reported
// without contacting the client.
func (c *Connection) DatabaseContext(ctx context.Context) (Database, error) {
	name, err := c.model.DatabaseName()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.log.WithContext(ctx).Debug("get database", "database", name)
	return c.client.Database(name, c.dbOpts...), nil
}

func (c *Connection) DropDatabase() error {
	name, err := c.model.DatabaseName()
	if err != nil {
		return err
	}
	c.log.Info("dropping database", "database", name)
	return c.client.DropDatabase(name)
}

// DropDatabaseContext drops the model's database, passing ctx to the client.
func (c *Connection) DropDatabaseContext(ctx context.Context) error {
	name, err := c.model.DatabaseName()
	if err != nil {
		return err
	}
	c.log.WithContext(ctx).Info("dropping database", "database", name)
	return c.client.DropDatabaseContext(ctx, name)
}

// CollectionOf returns the collection handle registered for T.
func CollectionOf[T any](c *Connection) (Collection, error) {
	return c.collection(context.Background(), reflect.TypeOf((*T)(nil)).Elem(), false)
}

// CollectionOfContext is CollectionOf honoring ctx.
func CollectionOfContext[T any](ctx context.Context, c *Connection) (Collection, error) {
	return c.collection(ctx, reflect.TypeOf((*T)(nil)).Elem(), true)
}

// CollectionFor returns the collection handle registered for t.
func (c *Connection) CollectionFor(t reflect.Type) (Collection, error) {
	return c.collection(context.Background(), t, false)
}

func (c *Connection) collection(ctx context.Context, t reflect.Type, withCtx bool) (Collection, error) {
	name, err := c.model.CollectionName(t)
	if err != nil {
		return nil, err
	}
	var db Database
	if withCtx {
		db, err = c.DatabaseContext(ctx)
	} else {
		db, err = c.Database()
	}
	if err != nil {
		return nil, err
	}
	log := c.log
	if withCtx {
		log = log.WithContext(ctx)
	}
	log.Debug("get collection", "collection", name, "entity", t.String())
	return db.Collection(name, c.collOpts...), nil
}
