package component

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/seedkit/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
	desc Description
}

func (d *describedComponent) Describe() Description { return d.desc }

func newTestRegistry() *Registry {
	return NewRegistry(logger.Nop())
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRegistry()
	if err := r.Register(&mockComponent{name: "db"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register(&mockComponent{name: "db"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := newTestRegistry()
	r.Register(&mockComponent{name: "db"})

	got := r.Get("db")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "db" {
		t.Errorf("expected 'db', got %q", got.Name())
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := newTestRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "database.default", startOrder: &order})
	r.Register(&mockComponent{name: "redis.documents", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	if len(order) != 2 || order[0] != "database.default" || order[1] != "redis.documents" {
		t.Errorf("expected registration start order, got %v", order)
	}

	// A second StartAll must not restart running components.
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("second StartAll failed: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected no restarts, got %v", order)
	}
}

func TestStartAllErrorStopsStartedOnly(t *testing.T) {
	r := newTestRegistry()
	stops := []string{}
	r.Register(&mockComponent{name: "db", stopOrder: &stops})
	r.Register(&mockComponent{name: "cache", startErr: fmt.Errorf("connection refused"), stopOrder: &stops})
	r.Register(&mockComponent{name: "never", stopOrder: &stops})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "cache") {
		t.Fatalf("expected start error naming cache, got %v", err)
	}

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(stops) != 1 || stops[0] != "db" {
		t.Errorf("expected only db to be stopped, got %v", stops)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := newTestRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "db", stopOrder: &order})
	r.Register(&mockComponent{name: "cache", stopOrder: &order})
	r.Register(&mockComponent{name: "docs", stopOrder: &order})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 || order[0] != "docs" || order[1] != "cache" || order[2] != "db" {
		t.Errorf("expected reverse stop order [docs, cache, db], got %v", order)
	}
}

func TestStopAllCombinesErrors(t *testing.T) {
	r := newTestRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "db", stopErr: fmt.Errorf("db stuck"), stopOrder: &order})
	r.Register(&mockComponent{name: "cache", stopErr: fmt.Errorf("cache stuck"), stopOrder: &order})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	for _, want := range []string{"db stuck", "cache stuck"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
	if len(order) != 2 {
		t.Errorf("expected every component to get Stop, got %v", order)
	}
}

func TestHealthAll(t *testing.T) {
	r := newTestRegistry()
	r.Register(&mockComponent{
		name:   "db",
		health: Health{Name: "db", Status: StatusHealthy, Message: "connected"},
	})
	r.Register(&mockComponent{
		name:   "cache",
		health: Health{Name: "cache", Status: StatusUnhealthy, Message: "timeout"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected db healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy {
		t.Errorf("expected cache unhealthy, got %s", results[1].Status)
	}
}

func TestDescribe(t *testing.T) {
	r := newTestRegistry()
	r.Register(&mockComponent{name: "plain"})
	r.Register(&describedComponent{
		mockComponent: mockComponent{name: "database.default"},
		desc:          Description{Type: "database", Details: "sqlite fixtures.db"},
	})

	got := r.Describe()
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptions, got %d", len(got))
	}
	if got[0].Name != "plain" || got[0].Type != "" {
		t.Errorf("unexpected plain description %+v", got[0])
	}
	if got[1].Name != "database.default" || got[1].Type != "database" {
		t.Errorf("unexpected described component %+v", got[1])
	}
}

func TestAll(t *testing.T) {
	r := newTestRegistry()
	r.Register(&mockComponent{name: "a"})
	r.Register(&mockComponent{name: "b"})
	all := r.All()
	if len(all) != 2 || all[0].Name() != "a" || all[1].Name() != "b" {
		t.Errorf("unexpected All() result")
	}
}
