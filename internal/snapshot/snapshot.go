// Package snapshot provides abstractions for durably persisting named state
// blobs across process restarts.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no blob exists under the given key.
var ErrNotFound = errors.New("snapshot: key not found")

// Store defines the interface for snapshot persistence. Blobs are opaque
// bytes; serialization is the caller's concern. This abstraction allows
// swapping backends (SQLite file, Redis, in-memory fake) without changing
// the state-store layer.
type Store interface {
	// Save writes the blob under key, replacing any previous value.
	// Writes are idempotent: last write wins.
	Save(ctx context.Context, key string, value []byte) error

	// Load reads the blob stored under key.
	// Returns ErrNotFound if no value exists.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob stored under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
