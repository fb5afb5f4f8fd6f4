// Package redis provides a Redis-backed implementation of the snapshot.Store
// interface, storing each state blob as one JSON value per key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ozodbek-r/neoneats/internal/snapshot"
)

// Ensure Store implements snapshot.Store
var _ snapshot.Store = (*Store)(nil)

// Store implements snapshot.Store using Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configures the Redis snapshot store.
type Options struct {
	// Addr is the Redis server address, e.g. "localhost:6379".
	Addr string
	// Prefix is prepended to every key to namespace the client's snapshots.
	// Defaults to "neoneats:snapshot:".
	Prefix string
	// TTL, when non-zero, expires snapshots that have not been written for
	// the given duration. Zero means keep forever.
	TTL time.Duration
}

// New creates a Redis-backed snapshot store and verifies connectivity.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: opts.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "neoneats:snapshot:"
	}

	return &Store{client: client, prefix: prefix, ttl: opts.TTL}, nil
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

// Save writes the blob under key. Last write wins.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}
	return nil
}

// Load reads the blob stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, snapshot.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", key, err)
	}
	return data, nil
}

// Delete removes the blob stored under key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", key, err)
	}
	return nil
}
