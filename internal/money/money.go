// Package money provides a fixed-point monetary amount stored in integer cents.
//
// All cart arithmetic runs on Cents so that repeated additions never accumulate
// binary floating-point drift. Decimal strings and JSON numbers are converted at
// the boundaries via shopspring/decimal.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer minor units (1/100 of the major unit).
type Cents int64

// FromDecimalString parses a decimal amount like "18.99" into Cents,
// rounding half-up at two places.
func FromDecimalString(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Cents(d.Shift(2).Round(0).IntPart()), nil
}

// FromFloat converts a float amount (e.g. 5.99) into Cents, rounding half-up
// at two places. Use only at boundaries where the caller holds a float.
func FromFloat(f float64) Cents {
	return Cents(decimal.NewFromFloat(f).Shift(2).Round(0).IntPart())
}

// Mul returns the amount multiplied by a quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// Decimal returns the amount as a decimal value in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with exactly two decimal places, e.g. "18.99".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a plain JSON number with two decimal
// places (e.g. 18.99), matching the persisted cart layout.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON decodes a JSON number (or quoted decimal string) into Cents.
// Parsing goes through decimal strings, never float64 arithmetic.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := FromDecimalString(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
