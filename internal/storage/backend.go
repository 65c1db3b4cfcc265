// Package storage persists the text blobs of the entry and pool stores in a
// key-value backend: a directory of text files or a SQLite table.
package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	// EntriesKey identifies the entry store blob
	EntriesKey = "projectTimeTracker_projectTime"
	// PoolsKey identifies the pool store blob
	PoolsKey = "projectTimeTracker_dailyPools"
)

// ErrInvalidKey is returned for keys that cannot be stored.
var ErrInvalidKey = errors.New("invalid storage key")

// Backend is a string key-value store.
type Backend interface {
	// Get returns the value of key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Location describes where data lives, for display.
	Location() string
	Close() error
}

// Open creates the backend named kind ("file" or "sqlite") rooted at dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch kind {
	case "", "file":
		return NewFileBackend(dataDir)
	case "sqlite":
		return NewSQLiteBackend(SQLitePath(dataDir))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, r := range key {
		if r == '/' || r == '\\' || r == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
