package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/gridcanvas/pkg/errors"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grid != Default().Grid || cfg.Storage.Backend != BackendFile {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesFieldByField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
catalog = "widgets.toml"

[grid]
columns = 12
container_width_px = 800.0

[storage]
backend = "sqlite"
path = "/tmp/canvas.db"

[permissions]
granted = ["events"]

[permissions.views]
daily = ["events"]
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grid.Columns != 12 || cfg.Grid.ContainerWidthPx != 800 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.Grid.RowHeightPx != Default().Grid.RowHeightPx {
		t.Errorf("row height lost its default: %v", cfg.Grid.RowHeightPx)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Path != "/tmp/canvas.db" || cfg.Storage.Key != DefaultKey {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.CatalogPath != "widgets.toml" {
		t.Errorf("catalog = %q", cfg.CatalogPath)
	}
	if len(cfg.Permissions.Granted) != 1 || cfg.Permissions.Views["daily"][0] != "events" {
		t.Errorf("permissions = %+v", cfg.Permissions)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[grid\ncolumns = "), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr errors.Code
	}{
		{"defaults", func(*Config) {}, ""},
		{"memory", func(c *Config) { c.Storage.Backend = BackendMemory }, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, errors.ErrCodeInvalidConfig},
		{"file without dir", func(c *Config) { c.Storage.Dir = "" }, errors.ErrCodeInvalidConfig},
		{"sqlite without path", func(c *Config) { c.Storage.Backend = BackendSQLite; c.Storage.Path = "" }, errors.ErrCodeInvalidConfig},
		{"redis without addr", func(c *Config) { c.Storage.Backend = BackendRedis; c.Storage.RedisAddr = "" }, errors.ErrCodeInvalidConfig},
		{"mongo without database", func(c *Config) { c.Storage.Backend = BackendMongo; c.Storage.MongoDatabase = "" }, errors.ErrCodeInvalidConfig},
		{"traversing key", func(c *Config) { c.Storage.Key = "../x" }, errors.ErrCodeInvalidConfig},
		{"zero columns", func(c *Config) { c.Grid.Columns = 0 }, errors.ErrCodeInvalidGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Key != "sales-dashboard" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	// Fields the file leaves out keep their defaults.
	if cfg.Storage.RedisPrefix != Default().Storage.RedisPrefix {
		t.Errorf("redis prefix = %q, want default", cfg.Storage.RedisPrefix)
	}
	if got := cfg.Permissions.Views["customer_revenue"]; len(got) != 2 {
		t.Errorf("customer_revenue bases = %v", got)
	}
	if cfg.CatalogPath != "examples/catalog.toml" {
		t.Errorf("catalog = %q", cfg.CatalogPath)
	}
}
