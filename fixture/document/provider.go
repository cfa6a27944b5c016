package document

import (
	"github.com/kbukum/seedkit/fixture"
	"github.com/kbukum/seedkit/redis"
)

// Manager is one Redis connection acting as a fixture manager.
type Manager struct {
	client *redis.Client
}

var _ fixture.Manager = (*Manager)(nil)

// NewManager wraps client.
func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Name returns the connection name.
func (m *Manager) Name() string { return m.client.Name() }

// Client returns the wrapped client.
func (m *Manager) Client() *redis.Client { return m.client }

// NewProvider creates the document-store manager provider over clients.
func NewProvider(defaultName string, routes []fixture.Route, clients ...*redis.Client) (*fixture.StaticProvider, error) {
	managers := make([]fixture.Manager, len(clients))
	for i, c := range clients {
		managers[i] = NewManager(c)
	}
	return fixture.NewStaticProvider(fixture.BackendDocument, defaultName, routes, managers...)
}
