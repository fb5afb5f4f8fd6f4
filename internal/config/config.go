// Package config loads the client configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ozodbek-r/neoneats/internal/money"
)

// Persist policies for stores.
const (
	PersistWriteThrough = "write-through"
	PersistDebounced    = "debounced"
)

// Snapshot backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the full client configuration.
type Config struct {
	API struct {
		// BaseURL of the remote auth/backend service.
		BaseURL string `yaml:"base_url"`
		// TimeoutSeconds bounds each request. Default 15.
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"api"`

	Cart struct {
		// DeliveryFee as a decimal string, e.g. "5.99".
		DeliveryFee string `yaml:"delivery_fee"`
	} `yaml:"cart"`

	Snapshot struct {
		// Backend is "sqlite" or "redis".
		Backend string `yaml:"backend"`
		// Path of the sqlite database file.
		Path string `yaml:"path"`
		// RedisAddr like "localhost:6379".
		RedisAddr string `yaml:"redis_addr"`
	} `yaml:"snapshot"`

	Persist struct {
		// Policy is "write-through" or "debounced".
		Policy string `yaml:"policy"`
		// DebounceMS applies when Policy is "debounced". Default 250.
		DebounceMS int `yaml:"debounce_ms"`
	} `yaml:"persist"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "http://127.0.0.1:8000"
	cfg.API.TimeoutSeconds = 15
	cfg.Cart.DeliveryFee = "5.99"
	cfg.Snapshot.Backend = BackendSQLite
	cfg.Snapshot.Path = "./data/neoneats.db"
	cfg.Persist.Policy = PersistWriteThrough
	cfg.Persist.DebounceMS = 250
	return cfg
}

// Load reads the YAML file at path on top of the defaults, then applies env
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("NEONEATS_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("NEONEATS_SNAPSHOT_BACKEND"); v != "" {
		cfg.Snapshot.Backend = v
	}
	if v := os.Getenv("NEONEATS_SNAPSHOT_PATH"); v != "" {
		cfg.Snapshot.Path = v
	}
	if v := os.Getenv("NEONEATS_REDIS_ADDR"); v != "" {
		cfg.Snapshot.RedisAddr = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := money.FromDecimalString(c.Cart.DeliveryFee); err != nil {
		return fmt.Errorf("invalid cart.delivery_fee: %w", err)
	}
	switch c.Snapshot.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown snapshot.backend %q", c.Snapshot.Backend)
	}
	switch c.Persist.Policy {
	case PersistWriteThrough, PersistDebounced:
	default:
		return fmt.Errorf("unknown persist.policy %q", c.Persist.Policy)
	}
	return nil
}

// DeliveryFee returns the configured fee in cents.
func (c *Config) DeliveryFee() money.Cents {
	fee, _ := money.FromDecimalString(c.Cart.DeliveryFee) // validated in Load
	return fee
}

// Timeout returns the API request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Debounce returns the store debounce interval, zero for write-through.
func (c *Config) Debounce() time.Duration {
	if c.Persist.Policy != PersistDebounced {
		return 0
	}
	return time.Duration(c.Persist.DebounceMS) * time.Millisecond
}
