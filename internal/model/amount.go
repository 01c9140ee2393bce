package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor currency units (cents).
type Amount int64

// MinorUnitsPerUnit is the number of minor units in one currency unit.
const MinorUnitsPerUnit = 100

var hundred = decimal.NewFromInt(MinorUnitsPerUnit)

// ParseAmount parses a decimal string like "12.34" into minor units.
// More than two decimal places is an error, never a rounding.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal converts a currency-unit decimal into minor units.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	minor := d.Mul(hundred)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than 2 decimal places", d)
	}
	return Amount(minor.IntPart()), nil
}

// Decimal returns the amount in currency units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats the amount with two decimals ("83.33").
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Sum adds amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
