package models

import "github.com/ozodbek-r/neoneats/internal/money"

// CartLine is one distinct product entry in the cart with its own quantity.
type CartLine struct {
	// ID is the opaque menu-item identifier. Unique across lines.
	ID string `json:"id"`

	// Name is the display name of the item (e.g. "Neon Pizza").
	Name string `json:"name"`

	// UnitPrice is the price of a single unit.
	UnitPrice money.Cents `json:"price"`

	// Quantity is always >= 1 while the line exists; a line dropping to
	// zero is removed, never retained.
	Quantity int `json:"quantity"`

	// Restaurant is the label of the restaurant the item belongs to.
	Restaurant string `json:"restaurant,omitempty"`

	// Image is the URI of the item's picture.
	Image string `json:"image,omitempty"`
}

// LineTotal returns UnitPrice * Quantity.
func (l CartLine) LineTotal() money.Cents {
	return l.UnitPrice.Mul(l.Quantity)
}

// CartState is the full cart contents as persisted under the "cart-storage"
// snapshot key.
type CartState struct {
	// Items is the ordered list of lines. Order of existing lines is
	// preserved across mutations; new lines append at the end.
	Items []CartLine `json:"items"`

	// Total is the subtotal of all lines. Derived: always recomputed from
	// Items on every mutation, never adjusted incrementally.
	Total money.Cents `json:"total"`

	// DeliveryFee is a standing configuration value, not part of the
	// clearable cart contents.
	DeliveryFee money.Cents `json:"deliveryFee"`
}

// Subtotal computes the sum of line totals from scratch.
func (s CartState) Subtotal() money.Cents {
	var sum money.Cents
	for _, l := range s.Items {
		sum += l.LineTotal()
	}
	return sum
}

// ItemCount returns the total quantity across all lines.
func (s CartState) ItemCount() int {
	var n int
	for _, l := range s.Items {
		n += l.Quantity
	}
	return n
}
