package storage

import (
	"errors"
	"fmt"
	"sync"
)

type clientMatcher func(conn any) bool
type clientFactory func(conn any) (Client, error)

var (
	registryMu     sync.RWMutex
	clientRegistry = make([]struct {
		match   clientMatcher
		factory clientFactory
	}, 0)
)

var ErrNoClient = errors.New("storage: no client registered for connection type")

// RegisterClient adds a factory for connection values accepted by match.
// Later registrations are tried after earlier ones.
func RegisterClient(match clientMatcher, factory clientFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	clientRegistry = append(clientRegistry, struct {
		match   clientMatcher
		factory clientFactory
	}{match: match, factory: factory})
}

// ResolveClient turns a caller's connection value into a Client.
func ResolveClient(conn any) (Client, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, entry := range clientRegistry {
		if entry.match(conn) {
			return entry.factory(conn)
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrNoClient, conn)
}
