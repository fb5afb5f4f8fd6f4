// Package cart implements the shopping-cart domain logic on top of a
// reactive state store.
//
// The cart total is derived state: every mutation recomputes it from the
// lines, so it can never drift from the items it summarizes. Line order is
// stable; new lines append at the end.
package cart

import (
	"log/slog"
	"time"

	"github.com/ozodbek-r/neoneats/internal/models"
	"github.com/ozodbek-r/neoneats/internal/money"
	"github.com/ozodbek-r/neoneats/internal/snapshot"
	"github.com/ozodbek-r/neoneats/internal/store"
)

// StorageKey is the snapshot key the cart persists under.
const StorageKey = "cart-storage"

// DefaultDeliveryFee matches the standing fee configured in the app.
const DefaultDeliveryFee = money.Cents(599) // 5.99

// Options configures a Cart.
type Options struct {
	// DeliveryFee is the standing delivery charge. Zero means
	// DefaultDeliveryFee.
	DeliveryFee money.Cents

	// Snapshot, when set, persists the cart under StorageKey and restores
	// it at construction.
	Snapshot snapshot.Store

	// Debounce switches persistence from write-through to debounced.
	Debounce time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Cart provides the cart operations over a Store[models.CartState].
type Cart struct {
	store *store.Store[models.CartState]
}

// New creates a Cart, restoring any persisted contents. The delivery fee is
// configuration, not cart contents: it always comes from opts, and the total
// is recomputed from the restored lines so a stale persisted total cannot
// survive a restart.
func New(opts Options) *Cart {
	fee := opts.DeliveryFee
	if fee == 0 {
		fee = DefaultDeliveryFee
	}

	initial := models.CartState{
		Items:       []models.CartLine{},
		DeliveryFee: fee,
	}

	var storeOpts []store.Option[models.CartState]
	if opts.Snapshot != nil {
		storeOpts = append(storeOpts, store.WithSnapshot[models.CartState](opts.Snapshot, StorageKey))
	}
	if opts.Debounce > 0 {
		storeOpts = append(storeOpts, store.WithDebounce[models.CartState](opts.Debounce))
	}
	if opts.Logger != nil {
		storeOpts = append(storeOpts, store.WithLogger[models.CartState](opts.Logger))
	}

	c := &Cart{store: store.New("cart", initial, storeOpts...)}

	// Normalize whatever the restore produced.
	c.store.Update(func(st models.CartState) models.CartState {
		if st.Items == nil {
			st.Items = []models.CartLine{}
		}
		st.DeliveryFee = fee
		st.Total = st.Subtotal()
		return st
	})

	return c
}

// AddItem adds one unit of item to the cart. If a line with the same ID
// exists its quantity goes up by one; otherwise a new line with quantity 1
// appends at the end.
func (c *Cart) AddItem(item models.CartLine) error {
	return c.store.Update(func(st models.CartState) models.CartState {
		items := make([]models.CartLine, len(st.Items))
		copy(items, st.Items)

		found := false
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			item.Quantity = 1
			items = append(items, item)
		}

		st.Items = items
		st.Total = st.Subtotal()
		return st
	})
}

// RemoveItem deletes the line with the given id. Absent id is a no-op, not
// an error.
func (c *Cart) RemoveItem(id string) error {
	return c.store.Update(func(st models.CartState) models.CartState {
		items := make([]models.CartLine, 0, len(st.Items))
		for _, l := range st.Items {
			if l.ID != id {
				items = append(items, l)
			}
		}
		st.Items = items
		st.Total = st.Subtotal()
		return st
	})
}

// UpdateQuantity sets the line's quantity to an absolute value. A quantity
// of zero or less removes the line. Unknown id is a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(id)
	}
	return c.store.Update(func(st models.CartState) models.CartState {
		items := make([]models.CartLine, len(st.Items))
		copy(items, st.Items)
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
				break
			}
		}
		st.Items = items
		st.Total = st.Subtotal()
		return st
	})
}

// Clear empties the cart. The delivery fee is a standing configuration
// value and stays as is.
func (c *Cart) Clear() error {
	return c.store.Update(func(st models.CartState) models.CartState {
		st.Items = []models.CartLine{}
		st.Total = 0
		return st
	})
}

// Items returns a copy of the current lines in order.
func (c *Cart) Items() []models.CartLine {
	st := c.store.Get()
	items := make([]models.CartLine, len(st.Items))
	copy(items, st.Items)
	return items
}

// Subtotal returns the current derived subtotal.
func (c *Cart) Subtotal() money.Cents {
	return c.store.Get().Total
}

// DeliveryFee returns the standing delivery charge.
func (c *Cart) DeliveryFee() money.Cents {
	return c.store.Get().DeliveryFee
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	return c.store.Get().ItemCount()
}

// TotalWithDelivery returns subtotal + delivery fee.
func (c *Cart) TotalWithDelivery() money.Cents {
	st := c.store.Get()
	return st.Total + st.DeliveryFee
}

// Subscribe registers a listener for cart changes; the returned function
// removes it.
func (c *Cart) Subscribe(listener func(models.CartState)) (unsubscribe func()) {
	return c.store.Subscribe(listener)
}

// Close disposes the underlying store, flushing any pending snapshot write.
func (c *Cart) Close() {
	c.store.Close()
}
