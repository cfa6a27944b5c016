package testutil

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/seedkit/component"
)

type mockComponent struct {
	name     string
	started  bool
	resets   int
	startErr error
	stopErr  error
	order    *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = true
	return nil
}

func (m *mockComponent) Stop(context.Context) error {
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
	m.started = false
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) component.Health {
	return component.Health{Name: m.name, Status: component.StatusHealthy}
}

func (m *mockComponent) Reset(context.Context) error {
	m.resets++
	return nil
}

func TestManager_StopAllReverseOrderAndCombinesErrors(t *testing.T) {
	var order []string
	a := &mockComponent{name: "a", order: &order, stopErr: errors.New("a failed")}
	b := &mockComponent{name: "b", order: &order, stopErr: errors.New("b failed")}

	m := NewManager(context.Background())
	m.Add(a)
	m.Add(b)
	if err := m.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}

	err := m.StopAll()
	if err == nil {
		t.Fatal("expected combined error")
	}
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("stop order = %v, want [b a]", order)
	}
	for _, want := range []string{"a failed", "b failed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestManager_StartAllStopsAtFirstFailure(t *testing.T) {
	a := &mockComponent{name: "a", startErr: errors.New("boom")}
	b := &mockComponent{name: "b"}

	m := NewManager(context.Background())
	m.Add(a)
	m.Add(b)
	if err := m.StartAll(); err == nil {
		t.Fatal("expected error")
	}
	if b.started {
		t.Error("b should not start after a failed")
	}
}

func TestManager_ResetAllAndGet(t *testing.T) {
	a := &mockComponent{name: "a"}
	m := NewManager(context.Background())
	m.Add(a)

	if err := m.ResetAll(); err != nil {
		t.Fatal(err)
	}
	if a.resets != 1 {
		t.Errorf("resets = %d", a.resets)
	}
	if m.Get("a") != a || m.Get("missing") != nil {
		t.Error("Get returned the wrong component")
	}
	if len(m.Components()) != 1 {
		t.Errorf("Components() = %d", len(m.Components()))
	}
}
