package fixture

import (
	"sort"
	"strings"

	"github.com/kbukum/seedkit/errors"
)

// Route sends models whose identifier starts with Prefix to Manager.
type Route struct {
	Prefix  string `mapstructure:"prefix" validate:"required"`
	Manager string `mapstructure:"manager" validate:"required"`
}

// StaticProvider is a ManagerProvider over a fixed set of managers with
// namespace routing. Backends build theirs from configured connections.
type StaticProvider struct {
	backend     string
	managers    []Manager
	byName      map[string]Manager
	defaultName string
	routes      []Route
}

var _ ManagerProvider = (*StaticProvider)(nil)

// NewStaticProvider creates a provider. defaultName names the manager for
// unrouted models; empty selects the first manager.
func NewStaticProvider(backend, defaultName string, routes []Route, managers ...Manager) (*StaticProvider, error) {
	if len(managers) == 0 {
		return nil, errors.Configuration("%s: at least one manager is required", backend).
			WithDetail(errors.DetailBackend, backend)
	}
	p := &StaticProvider{backend: backend, byName: make(map[string]Manager, len(managers))}
	for _, m := range managers {
		if _, dup := p.byName[m.Name()]; dup {
			return nil, errors.Configuration("%s: duplicate manager %q", backend, m.Name()).
				WithDetail(errors.DetailBackend, backend)
		}
		p.managers = append(p.managers, m)
		p.byName[m.Name()] = m
	}

	if defaultName == "" {
		defaultName = managers[0].Name()
	}
	if _, ok := p.byName[defaultName]; !ok {
		return nil, errors.Configuration("%s: default manager %q is not configured", backend, defaultName).
			WithDetail(errors.DetailBackend, backend)
	}
	p.defaultName = defaultName

	for _, r := range routes {
		if _, ok := p.byName[r.Manager]; !ok {
			return nil, errors.Configuration("%s: route %q targets unknown manager %q", backend, r.Prefix, r.Manager).
				WithDetail(errors.DetailBackend, backend)
		}
	}
	p.routes = append([]Route(nil), routes...)
	sort.SliceStable(p.routes, func(i, j int) bool {
		return len(p.routes[i].Prefix) > len(p.routes[j].Prefix)
	})
	return p, nil
}

// ManagerForModel returns the manager of the longest matching route, or
// the default manager.
func (p *StaticProvider) ManagerForModel(model string) (Manager, error) {
	for _, r := range p.routes {
		if strings.HasPrefix(model, r.Prefix) {
			return p.byName[r.Manager], nil
		}
	}
	return p.byName[p.defaultName], nil
}

// Manager returns the named manager, or the default one for "".
func (p *StaticProvider) Manager(name string) (Manager, error) {
	if name == "" {
		name = p.defaultName
	}
	m, ok := p.byName[name]
	if !ok {
		return nil, errors.NotFound(p.backend+" manager", name).WithDetail(errors.DetailBackend, p.backend)
	}
	return m, nil
}

// Managers returns every manager in configuration order.
func (p *StaticProvider) Managers() []Manager {
	out := make([]Manager, len(p.managers))
	copy(out, p.managers)
	return out
}

// DefaultManager returns the name of the default manager.
func (p *StaticProvider) DefaultManager() string { return p.defaultName }
