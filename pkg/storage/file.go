package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File stores each key as a JSON file in a directory.
type File struct {
	mu  sync.RWMutex
	dir string
}

// fileEntry wraps a stored value with metadata.
type fileEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFile creates a file store in dir. The directory is created if it
// doesn't exist.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, storageErr(err, "create dir", dir)
	}
	return &File{dir: dir}, nil
}

// Get returns the value stored under key.
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr(err, "read", key)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", false, storageErr(fmt.Errorf("parse entry: %w", err), "read", key)
	}
	return entry.Value, true, nil
}

// Set stores value under key. The file is replaced atomically.
func (f *File) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(fileEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return storageErr(err, "marshal", key)
	}

	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return storageErr(err, "write", key)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return storageErr(err, "write", key)
	}
	return nil
}

// Delete removes key.
func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return storageErr(err, "delete", key)
	}
	return nil
}

// Close does nothing for the file store.
func (f *File) Close() error {
	return nil
}

// Dir returns the directory holding the entries.
func (f *File) Dir() string { return f.dir }

// Path returns the file that holds key.
func (f *File) Path(key string) string { return f.path(key) }

// path maps a key to a file name. Keys may contain separators, so the
// name is derived from their hash.
func (f *File) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:16])+".json")
}

// Ensure File implements Storage.
var _ Storage = (*File)(nil)
