package model

import (
	"errors"
	"fmt"
	"time"
)

// TransactionType classifies a monetary event on the platform.
type TransactionType string

const (
	TypeSubscription TransactionType = "subscription"
	TypePayPerView   TransactionType = "pay_per_view"
	TypeTip          TransactionType = "tip"
	TypeMarketplace  TransactionType = "marketplace"
	TypeWithdrawal   TransactionType = "withdrawal"
	TypeRefund       TransactionType = "refund"
)

// TransactionTypes lists every transaction type.
var TransactionTypes = []TransactionType{
	TypeSubscription, TypePayPerView, TypeTip, TypeMarketplace, TypeWithdrawal, TypeRefund,
}

// ParseTransactionType validates a type string.
func ParseTransactionType(s string) (TransactionType, error) {
	for _, t := range TransactionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Kind groups transaction types by their accounting treatment.
type Kind int

const (
	KindSale Kind = iota
	KindRefund
	KindWithdrawal
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Kind returns the accounting treatment of the type. It panics on an
// unknown type; check Valid first for untrusted input.
func (t TransactionType) Kind() Kind {
	switch t {
	case TypeSubscription, TypePayPerView, TypeTip, TypeMarketplace:
		return KindSale
	case TypeRefund:
		return KindRefund
	case TypeWithdrawal:
		return KindWithdrawal
	default:
		panic(fmt.Sprintf("model: unknown transaction type %q", string(t)))
	}
}

// TransactionStatus is the payment lifecycle state.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusFailed    TransactionStatus = "failed"
)

// ParseTransactionStatus validates a status string.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(s) {
	case StatusCompleted, StatusPending, StatusFailed:
		return TransactionStatus(s), nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// LegalNature distinguishes consumers from businesses.
type LegalNature string

const (
	NatureIndividual LegalNature = "individual"
	NatureBusiness   LegalNature = "business"
)

// FiscalStatus is the VAT position of a payee.
type FiscalStatus string

const (
	FiscalVATRegistered FiscalStatus = "vat_registered"
	FiscalVATExempt     FiscalStatus = "vat_exempt"
)

// TaxRule is the resolved VAT treatment of a transaction.
type TaxRule string

const (
	RuleDomestic           TaxRule = "domestic standard"
	RuleReverseCharge      TaxRule = "reverse charge"
	RuleExport             TaxRule = "export"
	RuleServiceCountryRate TaxRule = "destination-country-of-service default"
)

// Payer is the customer side of a transaction.
type Payer struct {
	Country string // ISO 3166-1 alpha-2
	Nature  LegalNature
	TaxID   string // intra-community VAT number, optional
}

// Payee is the creator receiving the payment.
type Payee struct {
	Country string
	Status  FiscalStatus
	TaxID   string
}

// Commission is the platform's cut of a transaction.
type Commission struct {
	Net   Amount
	Tax   Amount
	Total Amount
}

// IsZero reports whether no commission figure is set.
func (c Commission) IsZero() bool { return c == Commission{} }

// Transaction is an atomic monetary event. Values are treated as immutable.
type Transaction struct {
	ID            string
	InvoiceNumber string // "2025-000123"
	FiscalYear    int
	Date          time.Time
	SettledOn     *time.Time // processor payout date, nil while receivable
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Type   TransactionType
	Status TransactionStatus

	Payer Payer
	Payee Payee

	Gross        Amount
	Net          Amount
	Tax          Amount
	TaxRate      TaxRate
	Commission   Commission
	ProcessorFee Amount
	PayeeNet     Amount

	ServiceCountry string
	TaxApplicable  bool
	TaxRule        TaxRule
	B2B            bool
	ReverseCharge  bool
}

// Completed reports whether the transaction produces postings.
func (t Transaction) Completed() bool {
	return t.Status == StatusCompleted
}

// SettledBy reports whether the processor paid out the transaction before end.
func (t Transaction) SettledBy(end time.Time) bool {
	return t.SettledOn != nil && t.SettledOn.Before(end)
}

// CommissionDeductible reports whether VAT on the commission can be recovered.
func (t Transaction) CommissionDeductible() bool {
	return t.Payee.Status == FiscalVATRegistered && t.Commission.Tax > 0
}

// ErrAmounts is wrapped by CheckAmounts failures.
var ErrAmounts = errors.New("inconsistent transaction amounts")

// CheckAmounts verifies gross = net + tax, payeeNet = gross − commission − fee
// and tax = round(net × rate / 100).
func (t Transaction) CheckAmounts() error {
	var errs []error
	if t.Gross != t.Net+t.Tax {
		errs = append(errs, fmt.Errorf("%w: gross %s != net %s + tax %s", ErrAmounts, t.Gross, t.Net, t.Tax))
	}
	if t.Type.Valid() && t.Type.Kind() == KindSale && t.PayeeNet != t.Gross-t.Commission.Total-t.ProcessorFee {
		errs = append(errs, fmt.Errorf("%w: payee net %s != gross %s - commission %s - fee %s",
			ErrAmounts, t.PayeeNet, t.Gross, t.Commission.Total, t.ProcessorFee))
	}
	if !t.TaxRate.Valid() {
		errs = append(errs, fmt.Errorf("%w: tax rate index %d outside the rate set", ErrAmounts, int(t.TaxRate)))
	} else if want := ComputeTax(t.Net, t.TaxRate.Percent()); t.Tax != want {
		errs = append(errs, fmt.Errorf("%w: tax %s != %s at %s%%", ErrAmounts, t.Tax, want, t.TaxRate))
	}
	if t.Commission.Total != t.Commission.Net+t.Commission.Tax {
		errs = append(errs, fmt.Errorf("%w: commission total %s != %s + %s",
			ErrAmounts, t.Commission.Total, t.Commission.Net, t.Commission.Tax))
	}
	return errors.Join(errs...)
}
