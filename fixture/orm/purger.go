package orm

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/kbukum/seedkit/database"
	"github.com/kbukum/seedkit/fixture"
)

// Purger empties every table of one database except the excluded ones.
type Purger struct {
	mgr     *Manager
	mode    fixture.PurgeMode
	exclude []string
}

var _ fixture.StorePurger = (*Purger)(nil)

// NewPurger creates a purger for m's database.
func NewPurger(m *Manager, mode fixture.PurgeMode, exclude ...string) *Purger {
	return &Purger{mgr: m, mode: mode, exclude: exclude}
}

// Mode returns the purge mode.
func (p *Purger) Mode() fixture.PurgeMode { return p.mode }

// Purge empties the tables outside a transaction.
func (p *Purger) Purge(ctx context.Context) error {
	return p.PurgeTx(p.mgr.conn(ctx))
}

// PurgeTx empties the tables using tx. Truncate mode falls back to DELETE
// on dialects without TRUNCATE.
func (p *Purger) PurgeTx(tx *gorm.DB) error {
	tables, err := database.ListTables(tx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if slices.Contains(p.exclude, table) {
			continue
		}
		if err := p.purgeTable(tx, table); err != nil {
			return fmt.Errorf("purge %s: %w", table, database.FromDatabase(err, table))
		}
	}
	return nil
}

func (p *Purger) purgeTable(tx *gorm.DB, table string) error {
	if p.mode == fixture.PurgeTruncate && p.mgr.db.SupportsTruncate() {
		return p.mgr.db.TruncateTable(tx, table)
	}
	return database.DeleteAll(tx, table)
}

// Executor runs a Purger: delete mode inside one transaction, truncate mode
// directly since TRUNCATE commits implicitly on most engines. Both run on
// the connection the manager pinned when integrity checks were disabled.
type Executor struct {
	mgr *Manager
}

var _ fixture.Executor = (*Executor)(nil)

// NewExecutor creates an executor for m.
func NewExecutor(m *Manager) *Executor {
	return &Executor{mgr: m}
}

// Execute runs p.
func (e *Executor) Execute(ctx context.Context, p fixture.StorePurger) error {
	op, ok := p.(*Purger)
	if !ok {
		return p.Purge(ctx)
	}
	if op.mode == fixture.PurgeTruncate && e.mgr.db.SupportsTruncate() {
		return op.PurgeTx(e.mgr.conn(ctx))
	}
	if s := e.mgr.session(); s != nil {
		return s.WithTransaction(ctx, op.PurgeTx)
	}
	return e.mgr.db.WithTransaction(ctx, op.PurgeTx)
}

// Tools builds orm purgers and executors. Exclude lists tables that are
// never purged, such as migration bookkeeping.
type Tools struct {
	Exclude []string
}

var _ fixture.PurgeTools = (*Tools)(nil)

// SupportsTruncate reports whether m's dialect has TRUNCATE.
func (t *Tools) SupportsTruncate(m fixture.Manager) bool {
	mgr, ok := m.(*Manager)
	return ok && mgr.db.SupportsTruncate()
}

// NewPurger returns a Purger for m.
func (t *Tools) NewPurger(m fixture.Manager, mode fixture.PurgeMode) (fixture.StorePurger, error) {
	mgr, err := asManager(m)
	if err != nil {
		return nil, err
	}
	return NewPurger(mgr, mode, t.Exclude...), nil
}

// NewExecutor returns an Executor for m.
func (t *Tools) NewExecutor(m fixture.Manager) (fixture.Executor, error) {
	mgr, err := asManager(m)
	if err != nil {
		return nil, err
	}
	return NewExecutor(mgr), nil
}

// NewBinding returns the "orm" backend binding over p.
func NewBinding(p fixture.ManagerProvider, exclude ...string) fixture.Binding {
	return fixture.Binding{
		Managers: p,
		Strategy: NewFixture,
		Purge:    &Tools{Exclude: exclude},
	}
}

func asManager(m fixture.Manager) (*Manager, error) {
	mgr, ok := m.(*Manager)
	if !ok {
		return nil, fmt.Errorf("orm backend cannot purge %T", m)
	}
	return mgr, nil
}
