// Package money holds the numeric amount used for prices and totals.
package money

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal that travels on the wire as a JSON number.
// decimal.Decimal quotes itself by default; prices here are numbers.
type Amount struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{decimal.Zero}

func NewFromFloat(f float64) Amount { return Amount{decimal.NewFromFloat(f)} }

func NewFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

func RequireFromString(s string) Amount { return Amount{decimal.RequireFromString(s)} }

// Sum adds the given amounts. An empty call returns Zero.
func Sum(amounts ...Amount) Amount {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal)
	}
	return Amount{total}
}

func (a Amount) Equal(b Amount) bool { return a.Decimal.Equal(b.Decimal) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts 9.99, "9.99" and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	a.Decimal = d
	return nil
}

// Scan reads NUMERIC columns (pgx hands them over as text when cast).
func (a *Amount) Scan(value interface{}) error {
	return a.Decimal.Scan(value)
}

func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.Value()
}
