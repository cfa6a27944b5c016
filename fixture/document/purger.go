package document

import (
	"context"
	"fmt"

	"github.com/kbukum/seedkit/fixture"
	"github.com/kbukum/seedkit/redis"
)

// Purger deletes every key under a client's prefix.
type Purger struct {
	client *redis.Client
}

var _ fixture.StorePurger = (*Purger)(nil)

// NewPurger creates a purger for client.
func NewPurger(client *redis.Client) *Purger {
	return &Purger{client: client}
}

// Purge deletes <prefix>:* with SCAN and DEL.
func (p *Purger) Purge(ctx context.Context) error {
	_, err := p.client.DeleteMatching(ctx, p.client.Prefix()+":*")
	return err
}

// Executor runs a purger directly; Redis has no transaction to wrap a
// SCAN-driven delete in.
type Executor struct{}

var _ fixture.Executor = Executor{}

// Execute runs p.
func (Executor) Execute(ctx context.Context, p fixture.StorePurger) error {
	return p.Purge(ctx)
}

// Tools builds document-store purgers. Truncate is never supported.
type Tools struct{}

var _ fixture.PurgeTools = Tools{}

// SupportsTruncate always reports false.
func (Tools) SupportsTruncate(fixture.Manager) bool { return false }

// NewPurger returns a Purger for m; the mode is ignored.
func (Tools) NewPurger(m fixture.Manager, _ fixture.PurgeMode) (fixture.StorePurger, error) {
	mgr, ok := m.(*Manager)
	if !ok {
		return nil, fmt.Errorf("document-store backend cannot purge %T", m)
	}
	return NewPurger(mgr.client), nil
}

// NewExecutor returns an Executor.
func (Tools) NewExecutor(fixture.Manager) (fixture.Executor, error) {
	return Executor{}, nil
}

// NewBinding returns the "document-store" backend binding over p.
func NewBinding(p fixture.ManagerProvider) fixture.Binding {
	return fixture.Binding{
		Managers: p,
		Strategy: NewFixture,
		Purge:    Tools{},
	}
}
