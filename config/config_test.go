package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/kbukum/seedkit/errors"
)

func memFS(t *testing.T, files map[string]string) *AferoFileSystem {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return &AferoFileSystem{Fs: fs}
}

type testFixturesConfig struct {
	RootNamespace string   `mapstructure:"root_namespace"`
	Modules       []string `mapstructure:"modules"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Fixtures      testFixturesConfig `mapstructure:"fixtures"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "seedkit"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
		if cfg.Logging.ServiceName != "seedkit" {
			t.Errorf("expected service name propagated to logging, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "seedkit", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid test env", ServiceConfig{Name: "svc", Environment: "test"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "environment: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
				if !errors.IsConfiguration(err) {
					t.Errorf("expected configuration error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/work/seedkit.yml": `
name: seedkit
environment: staging
fixtures:
  root_namespace: App
  modules: [CoreBundle, BlogBundle]
`,
	})

	var cfg testConfig
	if err := LoadConfig("seedkit", &cfg, WithFileSystem(fs), WithConfigFile("/work/seedkit.yml")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "seedkit" {
		t.Errorf("expected name 'seedkit', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Fixtures.RootNamespace != "App" {
		t.Errorf("expected root namespace 'App', got %q", cfg.Fixtures.RootNamespace)
	}
	if len(cfg.Fixtures.Modules) != 2 {
		t.Errorf("expected 2 modules, got %v", cfg.Fixtures.Modules)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("FIXTURES_ROOT_NAMESPACE", "Acme")
	fs := memFS(t, map[string]string{
		"/work/seedkit.yml": "name: seedkit\nfixtures:\n  root_namespace: App\n",
	})

	var cfg testConfig
	if err := LoadConfig("seedkit", &cfg, WithFileSystem(fs), WithConfigFile("/work/seedkit.yml")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Fixtures.RootNamespace != "Acme" {
		t.Errorf("expected env override 'Acme', got %q", cfg.Fixtures.RootNamespace)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	// Register restoration, then clear so only the .env file provides it.
	t.Setenv("FIXTURES_ROOT_NAMESPACE", "")
	os.Unsetenv("FIXTURES_ROOT_NAMESPACE")

	fs := memFS(t, map[string]string{
		"/work/seedkit.yml": "name: seedkit\n",
		"/work/.env":        "FIXTURES_ROOT_NAMESPACE=FromDotEnv\n",
	})

	var cfg testConfig
	err := LoadConfig("seedkit", &cfg,
		WithFileSystem(fs), WithConfigFile("/work/seedkit.yml"), WithEnvFile("/work/.env"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Fixtures.RootNamespace != "FromDotEnv" {
		t.Errorf("expected value from .env, got %q", cfg.Fixtures.RootNamespace)
	}
}

func TestAferoFileSystemLoadEnvKeepsProcessEnv(t *testing.T) {
	t.Setenv("SEEDKIT_PROBE", "process")
	fs := memFS(t, map[string]string{"/.env": "SEEDKIT_PROBE=file\n"})
	if err := fs.LoadEnv("/.env"); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("SEEDKIT_PROBE"); got != "process" {
		t.Errorf("expected process env to win, got %q", got)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/work/seedkit.yml": "name: [unterminated",
	})

	var cfg testConfig
	err := LoadConfig("seedkit", &cfg, WithFileSystem(fs), WithConfigFile("/work/seedkit.yml"))
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithFileSystem(memFS(t, nil)), WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./seedkit.yml":  true,
		"./config.yml":   true,
		"./config/.env":  true,
		"./.env.seedkit": true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("seedkit", LoaderConfig{})
	if files.ConfigFile != "./seedkit.yml" {
		t.Errorf("expected ./seedkit.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env.seedkit" {
		t.Errorf("expected ./.env.seedkit, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	files := resolver.ResolveFiles("seedkit", LoaderConfig{ConfigFile: "/etc/seedkit.yml"})
	if files.ConfigFile != "/etc/seedkit.yml" {
		t.Errorf("expected explicit path, got %q", files.ConfigFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Afero() afero.Fs           { return afero.NewMemMapFs() }

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("FIXTURES_ROOT_NAMESPACE")
	want := map[string]bool{
		"fixtures_root_namespace": true,
		"fixtures.root.namespace": true,
		"fixtures.root_namespace": true,
	}
	for _, v := range got {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("missing variants %v in %v", want, got)
	}

	if got := generateEnvKeyVariants("HOME"); len(got) != 1 || got[0] != "home" {
		t.Errorf("single-part key variants = %v", got)
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}
