package fixture

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/seedkit/errors"
)

func testBinding() Binding {
	return Binding{Managers: &memProvider{}, Strategy: memStrategy, Purge: &memTools{}}
}

func TestDirectory_RegisterAndResolve(t *testing.T) {
	dir := NewDirectory()
	orm := testBinding()
	if err := dir.Register(BackendORM, orm); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := dir.Register(BackendDocument, testBinding()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	provider, err := dir.ManagerProvider(BackendORM)
	if err != nil || provider != orm.Managers {
		t.Errorf("ManagerProvider = %v, %v", provider, err)
	}
	if _, err := dir.Strategy(BackendORM); err != nil {
		t.Errorf("Strategy: %v", err)
	}
	if tools, err := dir.PurgeTools(BackendORM); err != nil || tools != orm.Purge {
		t.Errorf("PurgeTools = %v, %v", tools, err)
	}
	if diff := cmp.Diff([]string{BackendORM, BackendDocument}, dir.Backends()); diff != "" {
		t.Errorf("Backends mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectory_UnknownBackend(t *testing.T) {
	dir := NewDirectory()
	lookups := map[string]func(string) error{
		"provider": func(id string) error { _, err := dir.ManagerProvider(id); return err },
		"strategy": func(id string) error { _, err := dir.Strategy(id); return err },
		"purge":    func(id string) error { _, err := dir.PurgeTools(id); return err },
	}
	for name, lookup := range lookups {
		err := lookup("couchdb")
		if !errors.IsCode(err, errors.ErrCodeUnknownBackend) || !errors.IsConfiguration(err) {
			t.Errorf("%s: expected UNKNOWN_BACKEND configuration error, got %v", name, err)
		}
	}
}

func TestDirectory_RegisterRejects(t *testing.T) {
	dir := NewDirectory()
	_ = dir.Register(BackendORM, testBinding())

	tests := []struct {
		name    string
		id      string
		binding Binding
	}{
		{"duplicate", BackendORM, testBinding()},
		{"empty id", "", testBinding()},
		{"incomplete", "x", Binding{Strategy: memStrategy}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := dir.Register(tc.id, tc.binding); !errors.IsConfiguration(err) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestDirectory_Alias(t *testing.T) {
	dir := NewDirectory()
	_ = dir.Register(BackendDocument, testBinding())

	if err := dir.Alias(BackendMongoDB, BackendDocument); err != nil {
		t.Fatalf("Alias: %v", err)
	}
	if id, err := dir.Canonical(BackendMongoDB); err != nil || id != BackendDocument {
		t.Errorf("Canonical(mongodb) = %q, %v", id, err)
	}
	if err := dir.Alias("x", "missing"); !errors.IsCode(err, errors.ErrCodeUnknownBackend) {
		t.Errorf("alias to missing backend: %v", err)
	}
	if err := dir.Register(BackendMongoDB, testBinding()); err == nil {
		t.Error("registering an alias name should fail")
	}
	if diff := cmp.Diff([]string{BackendDocument}, dir.Backends()); diff != "" {
		t.Errorf("Backends should not list aliases (-want +got):\n%s", diff)
	}
}
