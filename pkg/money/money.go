// Package money converts between the integer cents used inside the system and
// the two-place decimal amounts exchanged over JSON.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const scale = 2

var hundred = decimal.NewFromInt(100)

// Amount is a JSON-facing money value. It marshals as a bare number with two
// decimal places, e.g. 21.00.
type Amount struct {
	decimal.Decimal
}

// FromCents converts minor units into an Amount.
func FromCents(cents int64) Amount {
	return Amount{decimal.New(cents, -scale)}
}

// Cents converts the amount back into minor units, rounding half away from zero.
func (a Amount) Cents() int64 {
	return a.Mul(hundred).Round(0).IntPart()
}

// MarshalJSON renders the amount with exactly two decimal places.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(scale)), nil
}

// UnmarshalJSON accepts numbers and numeric strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	a.Decimal = d
	return nil
}

// ParseCents parses a decimal string such as "5.50" into cents.
func ParseCents(value string) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return Amount{d}.Cents(), nil
}
