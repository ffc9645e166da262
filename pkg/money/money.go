// Package money normalizes currency values to two decimal places.
// All persisted amounts and every arithmetic result that crosses a
// package boundary must go through Round.
package money

import "github.com/shopspring/decimal"

// Round quantizes v to two decimal places, ties away from zero.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Zero returns 0.00.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// FromFloat converts a float to a rounded money value.
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

// FromString parses a money literal such as "25.00".
func FromString(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return Round(v), nil
}

// MulQty multiplies a unit price by an integer quantity.
func MulQty(unit decimal.Decimal, qty int) decimal.Decimal {
	return Round(unit.Mul(decimal.NewFromInt(int64(qty))))
}

// Sum adds values and rounds the result.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Round(total)
}

// NonNegative clamps v at zero.
func NonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return Zero()
	}
	return Round(v)
}
