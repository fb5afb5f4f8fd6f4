// Package neoneats wires the client state core together: one snapshot
// backend shared by the cart, session, and theme stores, configured from a
// single Config.
package neoneats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ozodbek-r/neoneats/internal/authapi"
	"github.com/ozodbek-r/neoneats/internal/cart"
	"github.com/ozodbek-r/neoneats/internal/config"
	"github.com/ozodbek-r/neoneats/internal/session"
	"github.com/ozodbek-r/neoneats/internal/snapshot"
	redissnap "github.com/ozodbek-r/neoneats/internal/snapshot/redis"
	sqlitesnap "github.com/ozodbek-r/neoneats/internal/snapshot/sqlite"
	"github.com/ozodbek-r/neoneats/internal/theme"
)

// Client bundles the three state services behind one lifecycle.
type Client struct {
	Cart    *cart.Cart
	Session *session.Service
	Theme   *theme.Theme

	snap snapshot.Store
}

// Open builds a Client from cfg: it opens the configured snapshot backend,
// restores all three stores from it, and points the session service at the
// configured auth API.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	snap, err := openSnapshot(ctx, cfg)
	if err != nil {
		return nil, err
	}

	remote := authapi.New(cfg.API.BaseURL,
		authapi.WithLogger(logger),
		authapi.WithTimeout(cfg.Timeout()),
	)

	c := &Client{
		Cart: cart.New(cart.Options{
			DeliveryFee: cfg.DeliveryFee(),
			Snapshot:    snap,
			Debounce:    cfg.Debounce(),
			Logger:      logger,
		}),
		Session: session.New(session.Options{
			Remote:   remote,
			Snapshot: snap,
			Logger:   logger,
		}),
		Theme: theme.New(theme.Options{
			Snapshot: snap,
			Debounce: cfg.Debounce(),
			Logger:   logger,
		}),
		snap: snap,
	}

	logger.Info("Client state restored",
		"backend", cfg.Snapshot.Backend,
		"cart_items", c.Cart.ItemCount(),
		"signed_in", c.Session.Current().SignedIn(),
	)
	return c, nil
}

// Close disposes all stores, flushing pending snapshot writes, then closes
// the backend.
func (c *Client) Close() error {
	c.Cart.Close()
	c.Session.Close()
	c.Theme.Close()
	return c.snap.Close()
}

func openSnapshot(ctx context.Context, cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case config.BackendSQLite:
		return sqlitesnap.New(cfg.Snapshot.Path)
	case config.BackendRedis:
		return redissnap.New(ctx, redissnap.Options{Addr: cfg.Snapshot.RedisAddr})
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}
