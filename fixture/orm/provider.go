package orm

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/kbukum/seedkit/database"
	"github.com/kbukum/seedkit/fixture"
)

// Manager is one GORM database acting as a fixture manager.
type Manager struct {
	db *database.DB

	mu     sync.Mutex
	pinned *database.Session
}

var (
	_ fixture.Manager          = (*Manager)(nil)
	_ fixture.IntegrityToggler = (*Manager)(nil)
)

// NewManager wraps db.
func NewManager(db *database.DB) *Manager {
	return &Manager{db: db}
}

// Name returns the database name.
func (m *Manager) Name() string { return m.db.Name() }

// DB returns the wrapped database.
func (m *Manager) DB() *database.DB { return m.db }

// SetIntegrityChecks toggles foreign key enforcement. Disabling pins one
// connection and keeps it until checks are enabled again; purges in between
// run on that connection.
func (m *Manager) SetIntegrityChecks(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !enabled {
		if m.pinned == nil {
			s, err := m.db.Pin(ctx)
			if err != nil {
				return err
			}
			m.pinned = s
		}
		if err := m.pinned.SetForeignKeyChecks(ctx, false); err != nil {
			_ = m.pinned.Close()
			m.pinned = nil
			return err
		}
		return nil
	}

	if m.pinned == nil {
		return m.db.SetForeignKeyChecks(ctx, true)
	}
	s := m.pinned
	m.pinned = nil
	if err := s.SetForeignKeyChecks(ctx, true); err != nil {
		s.Discard()
		return err
	}
	return s.Close()
}

func (m *Manager) session() *database.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pinned
}

// conn returns a handle on the pinned connection when there is one.
func (m *Manager) conn(ctx context.Context) *gorm.DB {
	if s := m.session(); s != nil {
		return s.WithContext(ctx)
	}
	return m.db.WithContext(ctx)
}

// NewProvider creates the orm manager provider over dbs. defaultName names
// the database for unrouted models; empty selects the first one.
func NewProvider(defaultName string, routes []fixture.Route, dbs ...*database.DB) (*fixture.StaticProvider, error) {
	managers := make([]fixture.Manager, len(dbs))
	for i, db := range dbs {
		managers[i] = NewManager(db)
	}
	return fixture.NewStaticProvider(fixture.BackendORM, defaultName, routes, managers...)
}
