package neoneats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ozodbek-r/neoneats/internal/config"
	"github.com/ozodbek-r/neoneats/internal/models"
	"github.com/ozodbek-r/neoneats/internal/money"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Snapshot.Path = filepath.Join(t.TempDir(), "neoneats.db")
	return cfg
}

func TestOpenCloseReopenKeepsState(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	client, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	price, _ := money.FromDecimalString("18.99")
	client.Cart.AddItem(models.CartLine{ID: "1", Name: "Pizza", UnitPrice: price})
	client.Cart.AddItem(models.CartLine{ID: "1", Name: "Pizza", UnitPrice: price})
	client.Theme.SetNeonColor(models.NeonGreen)

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	if got := reopened.Cart.ItemCount(); got != 2 {
		t.Errorf("restored item count = %d, want 2", got)
	}
	if got := reopened.Cart.Subtotal(); got != 3798 {
		t.Errorf("restored subtotal = %s, want 37.98", got)
	}
	if got := reopened.Theme.Current().NeonColor; got != models.NeonGreen {
		t.Errorf("restored neon color = %q, want green", got)
	}
	if reopened.Session.Current().SignedIn() {
		t.Error("session signed in without ever logging in")
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshot.Backend = "papyrus"

	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Error("Open succeeded with unknown backend")
	}
}
