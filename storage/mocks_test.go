package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Database(name string, opts ...*options.DatabaseOptions) Database {
	args := m.Called(name, opts)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(Database)
}

func (m *mockClient) DropDatabase(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *mockClient) DropDatabaseContext(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type mockDatabase struct {
	mock.Mock
}

func (m *mockDatabase) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockDatabase) Collection(name string, opts ...*options.CollectionOptions) Collection {
	args := m.Called(name, opts)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(Collection)
}

type mockCollection struct {
	mock.Mock
}

func (m *mockCollection) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error) {
	args := m.Called(ctx, models)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
