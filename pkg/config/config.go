// Package config loads gridcanvas settings from a TOML file.
//
// Every field has a default, so a missing file is not an error. Values
// from the file override the defaults field by field; CLI flags override
// the file.
//
//	[grid]
//	columns = 30
//	row_height_px = 30
//	margin_px = [6, 6]
//	container_width_px = 1200
//
//	[storage]
//	backend = "sqlite"
//	path = "canvas.db"
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/grid"
)

// Storage backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// DefaultKey is the storage key of the canvas blob.
const DefaultKey = "dashboard-widget-instances"

// Config is the top-level configuration.
type Config struct {
	Grid        grid.Config `toml:"grid"`
	Storage     Storage     `toml:"storage"`
	CatalogPath string      `toml:"catalog"`
	Permissions Permissions `toml:"permissions"`
	Server      Server      `toml:"server"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend string `toml:"backend"`
	Key     string `toml:"key"`

	// Dir is the directory of the file backend.
	Dir string `toml:"dir"`

	// Path is the database file of the sqlite backend.
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Permissions is the permission context of the local user.
type Permissions struct {
	Granted []string            `toml:"granted"`
	Views   map[string][]string `toml:"views"`
}

// Server configures `gridcanvas serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration: the scenario grid, file
// storage under the user config directory, the builtin catalog and
// wildcard permissions.
func Default() Config {
	return Config{
		Grid: grid.Default(),
		Storage: Storage{
			Backend:         BackendFile,
			Key:             DefaultKey,
			Dir:             filepath.Join(Dir(), "canvas"),
			Path:            filepath.Join(Dir(), "canvas.db"),
			RedisAddr:       "localhost:6379",
			RedisPrefix:     "gridcanvas:",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "gridcanvas",
			MongoCollection: "canvases",
		},
		Permissions: Permissions{Granted: []string{"*"}},
		Server:      Server{Addr: "127.0.0.1:8080"},
	}
}

// Dir returns the gridcanvas configuration directory.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gridcanvas")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "gridcanvas")
	}
	return ".gridcanvas"
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path on top of Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values no component can work with.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateStorageKey(c.Storage.Key); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Storage.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.dir is required for the file backend")
		}
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDatabase == "" || c.Storage.MongoCollection == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.mongo_uri, mongo_database and mongo_collection are required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
