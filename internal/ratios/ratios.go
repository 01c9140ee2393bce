// Package ratios derives financial ratios from a balance snapshot and its
// income statement.
package ratios

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/statements"
)

// Places is the number of decimal places ratios are rounded to.
const Places = 4

// Ratios holds the derived ratios. A ratio whose divisor is zero (or, for
// the repayment capacity, whose capacity is not positive) is not
// applicable and has Valid == false.
type Ratios struct {
	CurrentRatio decimal.NullDecimal
	QuickRatio   decimal.NullDecimal

	EquityRatio        decimal.NullDecimal
	DebtRepaymentYears decimal.NullDecimal

	ReturnOnEquity decimal.NullDecimal
	ReturnOnAssets decimal.NullDecimal
	NetMargin      decimal.NullDecimal
}

// Compute derives the ratios of b and inc.
//
//	current ratio        current assets / liabilities
//	quick ratio          (cash + receivables) / liabilities
//	equity ratio         equity / total assets
//	debt repayment years liabilities / (net result + depreciation)
//	return on equity     net result / equity
//	return on assets     net result / total assets
//	net margin           net result / revenue
func Compute(b statements.BalanceSnapshot, inc statements.IncomeStatement) Ratios {
	capacity := inc.NetResult + inc.DepreciationCharge
	r := Ratios{
		CurrentRatio:   div(b.CurrentAssets, b.Liabilities),
		QuickRatio:     div(b.Cash+b.Receivables, b.Liabilities),
		EquityRatio:    div(b.Equity, b.TotalAssets),
		ReturnOnEquity: div(inc.NetResult, b.Equity),
		ReturnOnAssets: div(inc.NetResult, b.TotalAssets),
		NetMargin:      div(inc.NetResult, inc.Revenue),
	}
	if capacity > 0 {
		r.DebtRepaymentYears = div(b.Liabilities, capacity)
	}
	return r
}

func div(num, den model.Amount) decimal.NullDecimal {
	if den == 0 {
		return decimal.NullDecimal{}
	}
	q := decimal.NewFromInt(int64(num)).DivRound(decimal.NewFromInt(int64(den)), Places)
	return decimal.NewNullDecimal(q)
}

// Format renders a ratio for display, "n/a" when not applicable.
func Format(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.StringFixed(2)
}
