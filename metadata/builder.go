package metadata

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm/schema"
)

// ModelBuilder collects database and entity configuration. Build freezes
// the result into a Model; later builder calls never affect a built Model.
type ModelBuilder struct {
	database string
	naming   schema.Namer
	order    []reflect.Type
	entities map[reflect.Type]*EntityBuilder
}

type EntityBuilder struct {
	typ        reflect.Type
	collection string
	indexes    []*IndexBuilder
}

type IndexBuilder struct {
	index Index
}

func NewBuilder() *ModelBuilder {
	return &ModelBuilder{
		naming:   schema.NamingStrategy{},
		entities: make(map[reflect.Type]*EntityBuilder),
	}
}

func (b *ModelBuilder) FromDatabase(name string) *ModelBuilder {
	b.database = name
	return b
}

// WithNaming replaces the strategy used for entities without an explicit
// collection name.
func (b *ModelBuilder) WithNaming(n schema.Namer) *ModelBuilder {
	if n != nil {
		b.naming = n
	}
	return b
}

// Entity registers the type of sample. Pointers are dereferenced, so
// Entity(Employee{}) and Entity(&Employee{}) register the same entity.
func (b *ModelBuilder) Entity(sample any) *EntityBuilder {
	t := reflect.TypeOf(sample)
	if t == nil {
		panic("metadata: Entity called with nil")
	}
	t = indirect(t)
	if e, ok := b.entities[t]; ok {
		return e
	}
	e := &EntityBuilder{typ: t}
	b.entities[t] = e
	b.order = append(b.order, t)
	return e
}

func (e *EntityBuilder) FromCollection(name string) *EntityBuilder {
	e.collection = name
	return e
}

func (e *EntityBuilder) HasIndex(name string, keys ...IndexKey) *IndexBuilder {
	ib := &IndexBuilder{index: Index{Name: name, Keys: append([]IndexKey(nil), keys...)}}
	e.indexes = append(e.indexes, ib)
	return ib
}

func (ib *IndexBuilder) Unique() *IndexBuilder {
	ib.index.Unique = true
	return ib
}

func (ib *IndexBuilder) Sparse() *IndexBuilder {
	ib.index.Sparse = true
	return ib
}

// Build validates the configuration and returns an immutable Model.
// An unset database name is allowed here and reported on resolution.
func (b *ModelBuilder) Build() (*Model, error) {
	if b.database != "" {
		if err := validateDatabaseName(b.database); err != nil {
			return nil, err
		}
	}
	m := &Model{
		database: b.database,
		entities: make(map[reflect.Type]EntityType, len(b.entities)),
	}
	owners := make(map[string]reflect.Type, len(b.entities))
	for _, t := range b.order {
		eb := b.entities[t]
		name := eb.collection
		if name == "" {
			if t.Name() == "" {
				return nil, fmt.Errorf("%w: unnamed type %v needs an explicit collection", ErrInvalidName, t)
			}
			name = b.naming.TableName(t.Name())
		}
		if err := validateCollectionName(name); err != nil {
			return nil, fmt.Errorf("entity %v: %w", t, err)
		}
		if prev, ok := owners[name]; ok {
			return nil, fmt.Errorf("%w: %q by %v and %v", ErrDuplicateCollection, name, prev, t)
		}
		owners[name] = t

		et := EntityType{Type: t, Collection: name}
		for _, ib := range eb.indexes {
			if len(ib.index.Keys) == 0 {
				return nil, fmt.Errorf("entity %v: %w: index %q has no keys", t, ErrInvalidIndex, ib.index.Name)
			}
			ix := ib.index
			ix.Keys = append([]IndexKey(nil), ix.Keys...)
			et.Indexes = append(et.Indexes, ix)
		}
		m.entities[t] = et
	}
	return m, nil
}

func validateDatabaseName(name string) error {
	if len(name) > 63 {
		return fmt.Errorf("%w: database name %q longer than 63 bytes", ErrInvalidName, name)
	}
	if i := strings.IndexAny(name, "/\\. \"$\x00"); i >= 0 {
		return fmt.Errorf("%w: database name %q contains %q", ErrInvalidName, name, name[i])
	}
	return nil
}

func validateCollectionName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty collection name", ErrInvalidName)
	case strings.ContainsAny(name, "$\x00"):
		return fmt.Errorf("%w: collection name %q contains a reserved character", ErrInvalidName, name)
	case strings.HasPrefix(name, "system."):
		return fmt.Errorf("%w: collection name %q uses the system. prefix", ErrInvalidName, name)
	}
	return nil
}
