package metadata

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var (
	ErrDatabaseNotConfigured = errors.New("metadata: database name not configured")
	ErrEntityNotMapped       = errors.New("metadata: entity type not mapped to a collection")
	ErrInvalidName           = errors.New("metadata: invalid name")
	ErrDuplicateCollection   = errors.New("metadata: collection mapped by more than one entity")
	ErrInvalidIndex          = errors.New("metadata: invalid index")
)

// Model maps a root database and registered entity types to storage names.
// A Model is read-only once built and safe for concurrent use.
type Model struct {
	database string
	entities map[reflect.Type]EntityType
}

// EntityType describes one registered entity.
type EntityType struct {
	Type       reflect.Type
	Collection string
	Indexes    []Index
}

type Index struct {
	Name   string
	Keys   []IndexKey
	Unique bool
	Sparse bool
}

type IndexKey struct {
	Field      string
	Descending bool
}

func Asc(field string) IndexKey  { return IndexKey{Field: field} }
func Desc(field string) IndexKey { return IndexKey{Field: field, Descending: true} }

// DatabaseName returns the root database name.
func (m *Model) DatabaseName() (string, error) {
	if m == nil || m.database == "" {
		return "", ErrDatabaseNotConfigured
	}
	return m.database, nil
}

// CollectionName returns the collection registered for t.
func (m *Model) CollectionName(t reflect.Type) (string, error) {
	e, ok := m.lookup(t)
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrEntityNotMapped, t)
	}
	return e.Collection, nil
}

// Entity returns the entity registered for t.
func (m *Model) Entity(t reflect.Type) (EntityType, bool) {
	e, ok := m.lookup(t)
	if !ok {
		return EntityType{}, false
	}
	return e.clone(), true
}

// Entities returns a copy of every registered entity ordered by collection name.
func (m *Model) Entities() []EntityType {
	if m == nil {
		return nil
	}
	out := make([]EntityType, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out
}

// CollectionNameOf returns the collection registered for T.
func CollectionNameOf[T any](m *Model) (string, error) {
	return m.CollectionName(reflect.TypeOf((*T)(nil)).Elem())
}

func (m *Model) lookup(t reflect.Type) (EntityType, bool) {
	if m == nil || t == nil {
		return EntityType{}, false
	}
	e, ok := m.entities[indirect(t)]
	return e, ok
}

func (e EntityType) clone() EntityType {
	idx := make([]Index, len(e.Indexes))
	for i, ix := range e.Indexes {
		ix.Keys = append([]IndexKey(nil), ix.Keys...)
		idx[i] = ix
	}
	e.Indexes = idx
	return e
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
