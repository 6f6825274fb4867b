package storage

import (
	"context"
	"errors"

	"blueshift/metadata"
)

// Manager owns the Connection built from a caller's connection value and model.
type Manager struct {
	opts []Option
	conn *Connection
}

var ErrNotStarted = errors.New("storage: manager not started")

func NewManager(opts ...Option) *Manager {
	return &Manager{opts: opts}
}

// Start resolves conn into a Client and binds it to model.
func (m *Manager) Start(conn any, model *metadata.Model) error {
	if conn == nil {
		return ErrNilClient
	}
	client, err := ResolveClient(conn)
	if err != nil {
		return err
	}
	c, err := NewConnection(client, model, m.opts...)
	if err != nil {
		return err
	}
	m.conn = c
	c.log.Debug("storage manager started")
	return nil
}

func (m *Manager) Started() bool           { return m.conn != nil }
func (m *Manager) Connection() *Connection { return m.conn }

// Build creates the indexes declared in the model.
func (m *Manager) Build(ctx context.Context) error {
	if m.conn == nil {
		return ErrNotStarted
	}
	return Migrate(ctx, m.conn)
}
