package redis

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ozodbek-r/neoneats/internal/snapshot"
)

// setupStore connects to the Redis named by TEST_REDIS_ADDR, skipping the
// test when no server is available.
func setupStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store, err := New(ctx, Options{Addr: addr, Prefix: "neoneats:test:"})
	if err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	blob := []byte(`{"items":[],"total":0.00,"deliveryFee":5.99}`)
	if err := store.Save(ctx, "cart-storage", blob); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	defer store.Delete(ctx, "cart-storage")

	got, err := store.Load(ctx, "cart-storage")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("Load = %s, want %s", got, blob)
	}
}

func TestStoreMissingAndDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.Load(ctx, "no-such-key"); !errors.Is(err, snapshot.ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}

	if err := store.Save(ctx, "doomed", []byte("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "doomed"); !errors.Is(err, snapshot.ErrNotFound) {
		t.Errorf("Load after Delete error = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is a no-op, not an error.
	if err := store.Delete(ctx, "doomed"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}
