// Package vat aggregates transactions into periodic VAT declarations.
package vat

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/fiscal/internal/model"
)

var (
	// ErrUnsupportedRate is returned for a transaction whose rate is outside
	// the closed rate set.
	ErrUnsupportedRate = errors.New("unsupported tax rate")

	// ErrRollupMismatch is returned when the annual declaration differs
	// from the sum of its twelve months.
	ErrRollupMismatch = errors.New("annual declaration does not match its months")
)

// Bucket is the taxable base and tax collected at one rate.
type Bucket struct {
	Base model.Amount
	Tax  model.Amount
}

// Declaration is a periodic VAT declaration. In a monthly declaration
// NetDue and CreditCarriedForward are never both positive. An annual
// declaration sums them month by month, so it can carry both: the tax paid
// over the months with a due, and the credit of the months with a credit.
type Declaration struct {
	Period model.Period

	Buckets      [model.NumTaxRates]Bucket
	TaxCollected model.Amount
	Deductible   model.Amount

	NetDue               model.Amount
	CreditCarriedForward model.Amount

	Transactions int // completed transactions in the VAT scope

	// Months holds the monthly declarations of an annual rollup.
	Months []Declaration
}

// Bucket returns the bucket of rate r.
func (d Declaration) Bucket(r model.TaxRate) Bucket {
	return d.Buckets[r]
}

// Position is collected minus deductible tax, negative for a credit.
func (d Declaration) Position() model.Amount {
	return d.NetDue - d.CreditCarriedForward
}

// MonthlyDeclaration aggregates the completed transactions dated within
// month of year. Refunds reduce the bases, withdrawals are out of scope.
func MonthlyDeclaration(txs []model.Transaction, year, month int) (Declaration, error) {
	if month < 1 || month > 12 {
		return Declaration{}, fmt.Errorf("vat: invalid month %d", month)
	}
	return aggregate(txs, model.Month(year, month))
}

func aggregate(txs []model.Transaction, period model.Period) (Declaration, error) {
	d := Declaration{Period: period}
	for _, tx := range txs {
		if !tx.Completed() || !period.Contains(tx.Date) {
			continue
		}
		if !tx.Type.Valid() {
			return Declaration{}, fmt.Errorf("vat: transaction %s has unknown type %q", tx.ID, string(tx.Type))
		}
		sign := model.Amount(1)
		switch tx.Type.Kind() {
		case model.KindWithdrawal:
			continue
		case model.KindRefund:
			sign = -1
		}
		if !tx.TaxRate.Valid() {
			return Declaration{}, fmt.Errorf("%w: transaction %s has rate index %d", ErrUnsupportedRate, tx.ID, int(tx.TaxRate))
		}
		b := &d.Buckets[tx.TaxRate]
		b.Base += sign * tx.Net
		b.Tax += sign * tx.Tax
		if tx.Type.Kind() == model.KindSale && tx.CommissionDeductible() {
			d.Deductible += tx.Commission.Tax
		}
		d.Transactions++
	}
	for _, b := range d.Buckets {
		d.TaxCollected += b.Tax
	}
	d.settle(d.TaxCollected - d.Deductible)
	return d, nil
}

func (d *Declaration) settle(position model.Amount) {
	if position >= 0 {
		d.NetDue, d.CreditCarriedForward = position, 0
		return
	}
	d.NetDue, d.CreditCarriedForward = 0, -position
}
