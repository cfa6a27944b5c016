package fixture

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/kbukum/seedkit/errors"
)

func TestParseBytes_PreservesFixtureOrder(t *testing.T) {
	raw := []byte(`App\Entity\User:
  data:
    order: 1
    fixtures:
      zed: {id: u-3, name: Zed}
      admin: {id: u-1, name: Admin}
      bob: {id: u-2, name: Bob}
`)
	doc, err := ParseBytes("users.yml", raw)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if doc.Model != `App\Entity\User` {
		t.Errorf("Model = %q", doc.Model)
	}
	data, ok := doc.Data()
	if !ok {
		t.Fatal("expected data section")
	}
	if v, _ := data.Get(KeyOrder); v != 1 {
		t.Errorf("order = %#v", v)
	}
	fixtures, _ := data.Get(KeyFixtures)
	if diff := cmp.Diff([]string{"zed", "admin", "bob"}, fixtures.(*Map).Keys()); diff != "" {
		t.Errorf("fixture order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid yaml", "a: [b"},
		{"empty", ""},
		{"scalar top level", "just a string"},
		{"two models", "A:\n  data: {}\nB:\n  data: {}\n"},
		{"body is a list", "A:\n  - 1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBytes("f.yml", []byte(tc.raw))
			if !errors.IsCode(err, errors.ErrCodeParse) {
				t.Fatalf("expected PARSE_FAILED, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			if appErr.Detail(errors.DetailFile) != "f.yml" {
				t.Errorf("file detail = %q", appErr.Detail(errors.DetailFile))
			}
		})
	}
}

func TestDocument_DataUnusable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"null body", "A:\n"},
		{"no data key", "A:\n  other: 1\n"},
		{"data is a list", "A:\n  data: [1, 2]\n"},
		{"data is empty", "A:\n  data: {}\n"},
		{"data is null", "A:\n  data:\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ParseBytes("f.yml", []byte(tc.raw))
			if err != nil {
				t.Fatalf("ParseBytes: %v", err)
			}
			if _, ok := doc.Data(); ok {
				t.Error("expected no usable data")
			}
		})
	}
}

func TestParseBytes_MergeKeys(t *testing.T) {
	raw := []byte(`A:
  data:
    fixtures:
      base: &base {role: user, active: true}
      admin:
        <<: *base
        role: admin
`)
	doc, err := ParseBytes("f.yml", raw)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := doc.Data()
	fixtures, _ := data.Get(KeyFixtures)
	admin, _ := fixtures.(*Map).Get("admin")

	want := map[string]any{"role": "admin", "active": true}
	if diff := cmp.Diff(want, admin.(*Map).ToMap()); diff != "" {
		t.Errorf("merged entry mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes_RecursiveAlias(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"self reference", "App\\Entity\\User:\n  data: &a\n    fixtures:\n      x: *a\n"},
		{"through a list", "A:\n  data: &a\n    fixtures:\n      x: [1, *a]\n"},
		{"through a merge key", "A:\n  data: &a\n    fixtures:\n      x:\n        <<: *a\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBytes("loop.yml", []byte(tc.raw))
			if !errors.IsCode(err, errors.ErrCodeParse) {
				t.Fatalf("expected PARSE_FAILED, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			if appErr.Message != "recursive alias" {
				t.Errorf("message = %q", appErr.Message)
			}
		})
	}
}

func TestParseBytes_AliasExpansionLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("A:\n  data:\n    fixtures:\n")
	b.WriteString("      l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 8; i++ {
		fmt.Fprintf(&b, "      l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*l%d", i-1)
		}
		b.WriteString("]\n")
	}

	_, err := ParseBytes("bomb.yml", []byte(b.String()))
	if !errors.IsCode(err, errors.ErrCodeParse) {
		t.Fatalf("expected PARSE_FAILED, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Message != "excessive aliasing" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestParseBytes_RepeatedAliasIsNotACycle(t *testing.T) {
	raw := []byte(`A:
  data:
    fixtures:
      base: &base {tags: &tags [a, b]}
      one: {tags: *tags, copy: *base}
      two: {tags: *tags, copy: *base}
`)
	doc, err := ParseBytes("f.yml", raw)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	data, _ := doc.Data()
	fixtures, _ := data.Get(KeyFixtures)
	two, _ := fixtures.(*Map).Get("two")
	tags, _ := two.(*Map).Get("tags")
	if diff := cmp.Diff([]any{"a", "b"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLParser_ReadsFromFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/m/fixtures/a.yml", []byte("A:\n  data: {fixtures: {x: {id: 1}}}\n"), 0o644)

	p := NewYAMLParser(fs)
	if _, err := p.Parse("/m/fixtures/a.yml"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := p.Parse("/m/fixtures/missing.yml"); !errors.IsCode(err, errors.ErrCodeParse) {
		t.Errorf("missing file: expected PARSE_FAILED, got %v", err)
	}
}
