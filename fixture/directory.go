package fixture

import (
	"slices"
	"sync"

	"github.com/kbukum/seedkit/errors"
)

// Backend identifiers seeded by the CLI.
const (
	BackendORM      = "orm"
	BackendDocument = "document-store"
	// BackendMongoDB is accepted as an alias of BackendDocument.
	BackendMongoDB = "mongodb"
)

// Directory maps backend identifiers to their Bindings.
type Directory struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	aliases  map[string]string
	order    []string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		bindings: make(map[string]Binding),
		aliases:  make(map[string]string),
	}
}

// Register adds a backend. Every Binding field is required and ids are unique.
func (d *Directory) Register(id string, b Binding) error {
	if id == "" {
		return errors.Configuration("backend id is required")
	}
	if b.Managers == nil || b.Strategy == nil || b.Purge == nil {
		return errors.Configuration("backend %q binding is incomplete", id).WithDetail(errors.DetailBackend, id)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.bindings[id]; ok {
		return errors.Configuration("backend %q already registered", id).WithDetail(errors.DetailBackend, id)
	}
	if _, ok := d.aliases[id]; ok {
		return errors.Configuration("backend %q is registered as an alias", id).WithDetail(errors.DetailBackend, id)
	}
	d.bindings[id] = b
	d.order = append(d.order, id)
	return nil
}

// Alias makes alias resolve to the registered backend target.
func (d *Directory) Alias(alias, target string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.bindings[target]; !ok {
		return errors.UnknownBackend(target)
	}
	if _, ok := d.bindings[alias]; ok {
		return errors.Configuration("alias %q shadows a registered backend", alias).WithDetail(errors.DetailBackend, alias)
	}
	d.aliases[alias] = target
	return nil
}

// Canonical returns the registered id that id names, following aliases.
func (d *Directory) Canonical(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if target, ok := d.aliases[id]; ok {
		id = target
	}
	if _, ok := d.bindings[id]; !ok {
		return "", errors.UnknownBackend(id)
	}
	return id, nil
}

// Binding returns the binding for id or an UNKNOWN_BACKEND error.
func (d *Directory) Binding(id string) (Binding, error) {
	canonical, err := d.Canonical(id)
	if err != nil {
		return Binding{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.bindings[canonical], nil
}

// ManagerProvider returns the manager provider for id.
func (d *Directory) ManagerProvider(id string) (ManagerProvider, error) {
	b, err := d.Binding(id)
	if err != nil {
		return nil, err
	}
	return b.Managers, nil
}

// Strategy returns the strategy factory for id.
func (d *Directory) Strategy(id string) (StrategyFactory, error) {
	b, err := d.Binding(id)
	if err != nil {
		return nil, err
	}
	return b.Strategy, nil
}

// PurgeTools returns the purge tools for id.
func (d *Directory) PurgeTools(id string) (PurgeTools, error) {
	b, err := d.Binding(id)
	if err != nil {
		return nil, err
	}
	return b.Purge, nil
}

// Backends returns registered ids in registration order, without aliases.
func (d *Directory) Backends() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.order)
}
