package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neoneats.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.DeliveryFee() != 599 {
		t.Errorf("delivery fee = %d cents, want 599", cfg.DeliveryFee())
	}
	if cfg.Debounce() != 0 {
		t.Errorf("debounce = %v, want 0 for write-through", cfg.Debounce())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.neoneats.uz
  timeout_seconds: 5
cart:
  delivery_fee: "3.49"
snapshot:
  backend: redis
  redis_addr: localhost:6380
persist:
  policy: debounced
  debounce_ms: 100
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://api.neoneats.uz" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
	if cfg.DeliveryFee() != 349 {
		t.Errorf("delivery fee = %d cents, want 349", cfg.DeliveryFee())
	}
	if cfg.Snapshot.Backend != BackendRedis {
		t.Errorf("backend = %q", cfg.Snapshot.Backend)
	}
	if cfg.Debounce() != 100*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Debounce())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEONEATS_API_BASE_URL", "http://staging:9000")
	t.Setenv("NEONEATS_SNAPSHOT_PATH", "/tmp/override.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://staging:9000" {
		t.Errorf("base URL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Snapshot.Path != "/tmp/override.db" {
		t.Errorf("path = %q, want env override", cfg.Snapshot.Path)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad fee", "cart:\n  delivery_fee: \"free\"\n"},
		{"bad backend", "snapshot:\n  backend: csv\n"},
		{"bad policy", "persist:\n  policy: eventually\n"},
		{"bad yaml", ":\t not yaml {{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.contents)); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}
