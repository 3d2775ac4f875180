// Package storage provides key/value backends for the persisted canvas.
//
// The canvas is stored as one JSON document under one key, so every
// backend only needs to get and set strings. Backends:
//
//   - memory: process-local map, for tests and throwaway sessions
//   - file: one file per key in a directory, for CLI usage
//   - sqlite: single-table database via modernc.org/sqlite
//   - redis: shared storage for several server processes
//   - mongo: document storage, one document per key
//
// Use [Open] to construct the backend named in the configuration.
package storage

import (
	"context"

	"github.com/matzehuels/gridcanvas/pkg/config"
	"github.com/matzehuels/gridcanvas/pkg/errors"
)

// Storage is a string key/value store.
type Storage interface {
	// Get returns the value stored under key. A missing key is not an
	// error: ok is false.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Open constructs the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Storage) (Storage, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return NewFile(cfg.Dir)
	case config.BackendSQLite:
		return NewSQLite(ctx, cfg.Path)
	case config.BackendRedis:
		return NewRedis(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendMongo:
		return NewMongo(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown storage backend %q", cfg.Backend)
	}
}

func storageErr(err error, op, key string) error {
	return errors.Wrap(errors.ErrCodeStorage, err, "%s %s", op, key)
}
