package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRate is one of the VAT rates of the reference jurisdiction.
type TaxRate int

const (
	Rate0 TaxRate = iota
	Rate5_5
	Rate10
	Rate20

	// NumTaxRates is the size of the closed rate set.
	NumTaxRates = 4
)

// TaxRates lists the supported rates in ascending order.
var TaxRates = [NumTaxRates]TaxRate{Rate0, Rate5_5, Rate10, Rate20}

var ratePercents = [NumTaxRates]decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("5.5"),
	decimal.NewFromInt(10),
	decimal.NewFromInt(20),
}

// Valid reports whether r is one of the closed rate set.
func (r TaxRate) Valid() bool { return r >= 0 && r < NumTaxRates }

// Percent returns the rate as a percentage (5.5 for Rate5_5). It panics on
// a rate outside the closed set; check Valid first for untrusted input.
func (r TaxRate) Percent() decimal.Decimal {
	if !r.Valid() {
		panic(fmt.Sprintf("model: invalid tax rate %d", int(r)))
	}
	return ratePercents[r]
}

func (r TaxRate) String() string {
	return r.Percent().String()
}

// RateFromPercent maps a percentage onto the closed rate set.
func RateFromPercent(p decimal.Decimal) (TaxRate, error) {
	for _, r := range TaxRates {
		if ratePercents[r].Equal(p) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unsupported tax rate %s%%", p)
}

// ParseTaxRate parses "20", "5.5", "0"...
func ParseTaxRate(s string) (TaxRate, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing tax rate %q: %w", s, err)
	}
	return RateFromPercent(p)
}

// ComputeTax returns round(net × percent / 100), half away from zero.
func ComputeTax(net Amount, percent decimal.Decimal) Amount {
	return Amount(decimal.NewFromInt(int64(net)).Mul(percent).Div(hundred).Round(0).IntPart())
}
