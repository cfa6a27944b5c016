package fixture

import "context"

// Manager is a connection or session to one logical database of a backend.
type Manager interface {
	Name() string
}

// IntegrityToggler is implemented by managers whose store enforces
// referential integrity that can be suspended for a purge.
type IntegrityToggler interface {
	SetIntegrityChecks(ctx context.Context, enabled bool) error
}

// ManagerProvider hands out a backend's managers.
type ManagerProvider interface {
	// ManagerForModel returns the manager responsible for model.
	ManagerForModel(model string) (Manager, error)
	// Manager returns the named manager, or the default one for "".
	Manager(name string) (Manager, error)
	// Managers returns every manager in a stable order.
	Managers() []Manager
}

// Fixture persists the entries of one record and registers the entities it
// creates in refs.
type Fixture interface {
	Load(ctx context.Context, m Manager, refs *References) error
}

// StrategyFactory builds the Fixture for a record. Errors are treated as
// malformed fixture files.
type StrategyFactory func(rec *Record) (Fixture, error)

// PurgeMode selects how a purger empties a store.
type PurgeMode int

const (
	// PurgeDelete removes rows or documents one statement at a time.
	PurgeDelete PurgeMode = iota
	// PurgeTruncate uses the store's bulk truncate.
	PurgeTruncate
)

func (m PurgeMode) String() string {
	if m == PurgeTruncate {
		return "truncate"
	}
	return "delete"
}

// StorePurger empties one manager's store.
type StorePurger interface {
	Purge(ctx context.Context) error
}

// Executor runs a StorePurger, for example inside a transaction.
type Executor interface {
	Execute(ctx context.Context, p StorePurger) error
}

// PurgeTools builds the purge strategy and executor for one manager.
// Both are constructed per manager.
type PurgeTools interface {
	SupportsTruncate(m Manager) bool
	NewPurger(m Manager, mode PurgeMode) (StorePurger, error)
	NewExecutor(m Manager) (Executor, error)
}

// Binding wires one backend identifier to its collaborators.
type Binding struct {
	Managers ManagerProvider
	Strategy StrategyFactory
	Purge    PurgeTools
}
