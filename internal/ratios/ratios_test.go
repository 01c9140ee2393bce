package ratios

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/fiscal/internal/statements"
)

func snapshot() (statements.BalanceSnapshot, statements.IncomeStatement) {
	b := statements.BalanceSnapshot{
		Cash:          60000,
		Receivables:   20000,
		TaxReceivable: 10000,
		CurrentAssets: 90000,
		TotalAssets:   150000,
		Equity:        100000,
		Liabilities:   50000,
	}
	inc := statements.IncomeStatement{
		Revenue:            200000,
		DepreciationCharge: 5000,
		NetResult:          20000,
	}
	return b, inc
}

func ratio(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	if assert.True(t, got.Valid) {
		assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "want %s, got %s", want, got.Decimal)
	}
}

func TestCompute(t *testing.T) {
	r := Compute(snapshot())
	ratio(t, "1.8", r.CurrentRatio)
	ratio(t, "1.6", r.QuickRatio)
	ratio(t, "0.6667", r.EquityRatio)
	ratio(t, "2", r.DebtRepaymentYears)
	ratio(t, "0.2", r.ReturnOnEquity)
	ratio(t, "0.1333", r.ReturnOnAssets)
	ratio(t, "0.1", r.NetMargin)
}

func TestCompute_ZeroEquityIsNotApplicable(t *testing.T) {
	b, inc := snapshot()
	b.Equity = 0
	r := Compute(b, inc)
	assert.False(t, r.ReturnOnEquity.Valid)
	assert.True(t, r.EquityRatio.Valid, "equity ratio divides by assets")
}

func TestCompute_EmptyStatements(t *testing.T) {
	r := Compute(statements.BalanceSnapshot{}, statements.IncomeStatement{})
	for _, d := range []decimal.NullDecimal{
		r.CurrentRatio, r.QuickRatio, r.EquityRatio, r.DebtRepaymentYears,
		r.ReturnOnEquity, r.ReturnOnAssets, r.NetMargin,
	} {
		assert.False(t, d.Valid)
	}
}

func TestCompute_LossHasNoRepaymentCapacity(t *testing.T) {
	b, inc := snapshot()
	inc.NetResult = -8000
	r := Compute(b, inc)
	assert.False(t, r.DebtRepaymentYears.Valid)
	ratio(t, "-0.08", r.ReturnOnEquity)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "n/a", Format(decimal.NullDecimal{}))
	assert.Equal(t, "1.80", Format(decimal.NewNullDecimal(decimal.RequireFromString("1.8"))))
}
