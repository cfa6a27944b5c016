package fixture

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/seedkit/errors"
)

// memManager is an in-memory store keyed by model.
type memManager struct {
	name      string
	mu        sync.Mutex
	rows      map[string][]map[string]any
	calls     *[]string
	toggleErr error
	execErr   error
	integrity bool
}

func newMemManager(name string, calls *[]string) *memManager {
	return &memManager{name: name, rows: make(map[string][]map[string]any), calls: calls, integrity: true}
}

func (m *memManager) Name() string { return m.name }

func (m *memManager) record(call string) {
	if m.calls != nil {
		*m.calls = append(*m.calls, m.name+":"+call)
	}
}

func (m *memManager) SetIntegrityChecks(_ context.Context, enabled bool) error {
	m.record(fmt.Sprintf("integrity=%v", enabled))
	if m.toggleErr != nil && !enabled {
		return m.toggleErr
	}
	m.integrity = enabled
	return nil
}

func (m *memManager) insert(model string, row map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[model] = append(m.rows[model], row)
}

// plainManager has no integrity checks.
type plainManager struct{ store *memManager }

func (p plainManager) Name() string { return p.store.Name() }

type memProvider struct {
	managers []Manager
	routes   map[string]string
}

func (p *memProvider) ManagerForModel(model string) (Manager, error) {
	for prefix, name := range p.routes {
		if strings.HasPrefix(model, prefix) {
			return p.Manager(name)
		}
	}
	return p.Manager("")
}

func (p *memProvider) Manager(name string) (Manager, error) {
	if name == "" {
		return p.managers[0], nil
	}
	for _, m := range p.managers {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, errors.NotFound("manager", name)
}

func (p *memProvider) Managers() []Manager { return p.managers }

// memFixture inserts each entry with its references resolved and registers
// it under its name.
type memFixture struct {
	rec     *Record
	entries *Map
}

func memStrategy(rec *Record) (Fixture, error) {
	entries, err := rec.Entries()
	if err != nil {
		return nil, err
	}
	return &memFixture{rec: rec, entries: entries}, nil
}

func (f *memFixture) Load(_ context.Context, m Manager, refs *References) error {
	store := managerStore(m)
	for name, v := range f.entries.All() {
		fields, ok := v.(*Map)
		if !ok {
			return fmt.Errorf("entry %q is not a mapping", name)
		}
		row, err := refs.ResolveFields(fields)
		if err != nil {
			return err
		}
		store.insert(f.rec.Model, row)
		refs.Set(name, &Entity{Model: f.rec.Model, Name: name, ID: row["id"], Fields: row})
	}
	return nil
}

func managerStore(m Manager) *memManager {
	switch t := m.(type) {
	case *memManager:
		return t
	case plainManager:
		return t.store
	}
	panic(fmt.Sprintf("unexpected manager %T", m))
}

type memTools struct {
	truncate bool
	modes    map[string]PurgeMode
	mu       sync.Mutex
}

func (t *memTools) SupportsTruncate(Manager) bool { return t.truncate }

func (t *memTools) NewPurger(m Manager, mode PurgeMode) (StorePurger, error) {
	t.mu.Lock()
	if t.modes == nil {
		t.modes = make(map[string]PurgeMode)
	}
	t.modes[m.Name()] = mode
	t.mu.Unlock()
	return memPurger{store: managerStore(m)}, nil
}

func (t *memTools) NewExecutor(m Manager) (Executor, error) {
	return memExecutor{store: managerStore(m)}, nil
}

type memPurger struct{ store *memManager }

func (p memPurger) Purge(context.Context) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	p.store.rows = make(map[string][]map[string]any)
	return nil
}

type memExecutor struct{ store *memManager }

func (e memExecutor) Execute(ctx context.Context, p StorePurger) error {
	e.store.record("execute")
	if e.store.execErr != nil {
		return e.store.execErr
	}
	return p.Purge(ctx)
}

func newMemDirectory(id string, provider *memProvider, tools *memTools) *Directory {
	dir := NewDirectory()
	if err := dir.Register(id, Binding{Managers: provider, Strategy: memStrategy, Purge: tools}); err != nil {
		panic(err)
	}
	return dir
}
