package statements

import (
	"time"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/depreciation"
	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/posting"
)

// BalanceSnapshot is the balance sheet at the end of a period, together
// with the result-of-period figures the income statement is derived from.
// Recomputed from transactions on every call, never persisted.
type BalanceSnapshot struct {
	Period model.Period

	FixedAssetsGross       model.Amount
	CumulativeDepreciation model.Amount
	FixedAssetsNet         model.Amount
	Receivables            model.Amount
	TaxReceivable          model.Amount
	OtherReceivables       model.Amount
	Cash                   model.Amount
	CurrentAssets          model.Amount
	TotalAssets            model.Amount

	ShareCapital      model.Amount
	RetainedEarnings  model.Amount
	OtherEquity       model.Amount
	NetResultOfPeriod model.Amount
	Equity            model.Amount

	TaxPayable                model.Amount
	PayablePayees             model.Amount
	OtherLiabilities          model.Amount
	Liabilities               model.Amount
	TotalLiabilitiesAndEquity model.Amount

	Revenue                    model.Amount
	CommissionExpense          model.Amount
	ProcessorFees              model.Amount
	DepreciationChargeOfPeriod model.Amount
	OtherCharges               model.Amount

	// Accounts holds the net debit balance of every account; class 6 and 7
	// hold the period only, earlier periods being closed into retained earnings.
	Accounts map[string]model.Amount
	Postings int
	Rejected []posting.Rejection
}

// Aggregator builds statements from transactions.
type Aggregator struct {
	codes     accounts.Codes
	generator *posting.Generator
}

// NewAggregator creates an Aggregator booking onto codes.
func NewAggregator(codes accounts.Codes) *Aggregator {
	return &Aggregator{codes: codes, generator: posting.NewGenerator(codes)}
}

// ComputeBalance aggregates every completed transaction dated before
// period.End and the fixed assets of schedule into a BalanceSnapshot.
// Transactions whose postings fail are listed in Rejected and left out.
func (a *Aggregator) ComputeBalance(txs []model.Transaction, schedule depreciation.Schedule, period model.Period) (BalanceSnapshot, error) {
	batch := a.generator.GenerateBatch(txs, period.End)
	assetPostings, err := schedule.Postings(period, a.codes)
	if err != nil {
		return BalanceSnapshot{}, err
	}

	ledger := a.trialBalance(period.Start, batch.Postings, assetPostings)
	b := a.classify(ledger)
	b.Period = period
	b.Postings = len(batch.Postings) + len(assetPostings)
	b.Rejected = batch.Rejected

	var cumulative model.Amount
	for _, p := range schedule.Plans(period) {
		cumulative += p.Cumulative()
	}
	charge := schedule.ChargeOfPeriod(period)
	if cumulative != b.CumulativeDepreciation || charge != b.DepreciationChargeOfPeriod {
		return BalanceSnapshot{}, &IncoherenceError{Mismatches: []Mismatch{
			{Check: "cumulative depreciation (ledger vs schedule)", Left: b.CumulativeDepreciation, Right: cumulative},
			{Check: "depreciation charge (ledger vs schedule)", Left: b.DepreciationChargeOfPeriod, Right: charge},
		}}
	}
	return b, nil
}

// trialBalance sums net debit balances per account. Result accounts of
// postings dated before start are closed into retained earnings.
func (a *Aggregator) trialBalance(start time.Time, sets ...[]model.Posting) map[string]model.Amount {
	ledger := make(map[string]model.Amount)
	for _, set := range sets {
		for _, p := range set {
			prior := p.Date.Before(start)
			for _, l := range p.Debits {
				ledger[a.target(l.Account, prior)] += l.Amount
			}
			for _, l := range p.Credits {
				ledger[a.target(l.Account, prior)] -= l.Amount
			}
		}
	}
	return ledger
}

func (a *Aggregator) target(code string, prior bool) string {
	if prior && isResultAccount(code) {
		return a.codes.RetainedEarnings
	}
	return code
}

func isResultAccount(code string) bool {
	c := model.Class(code)
	return c == '6' || c == '7'
}

func (a *Aggregator) classify(ledger map[string]model.Amount) BalanceSnapshot {
	b := BalanceSnapshot{Accounts: ledger}
	for code, bal := range ledger {
		switch model.Class(code) {
		case '1':
			switch code {
			case a.codes.ShareCapital:
				b.ShareCapital -= bal
			case a.codes.RetainedEarnings:
				b.RetainedEarnings -= bal
			default:
				b.OtherEquity -= bal
			}
		case '2':
			if len(code) > 1 && code[1] == '8' {
				b.CumulativeDepreciation -= bal
			} else {
				b.FixedAssetsGross += bal
			}
		case '6':
			switch code {
			case a.codes.CommissionExpense:
				b.CommissionExpense += bal
			case a.codes.ProcessorFees:
				b.ProcessorFees += bal
			case a.codes.DepreciationCharge:
				b.DepreciationChargeOfPeriod += bal
			default:
				b.OtherCharges += bal
			}
		case '7':
			b.Revenue -= bal
		default:
			a.classifyThirdParty(&b, code, bal)
		}
	}

	b.FixedAssetsNet = b.FixedAssetsGross - b.CumulativeDepreciation
	b.CurrentAssets = b.Receivables + b.TaxReceivable + b.OtherReceivables + b.Cash
	b.TotalAssets = b.FixedAssetsNet + b.CurrentAssets

	b.NetResultOfPeriod = b.Revenue - b.totalCharges()
	b.Equity = b.ShareCapital + b.RetainedEarnings + b.OtherEquity + b.NetResultOfPeriod
	b.Liabilities = b.TaxPayable + b.PayablePayees + b.OtherLiabilities
	b.TotalLiabilitiesAndEquity = b.Equity + b.Liabilities
	return b
}

// classifyThirdParty places a class 3-5 balance on the asset side when it
// is a debit balance and on the liability side otherwise.
func (a *Aggregator) classifyThirdParty(b *BalanceSnapshot, code string, bal model.Amount) {
	if bal >= 0 {
		switch {
		case code == a.codes.Receivable:
			b.Receivables += bal
		case code == a.codes.TaxDeductible:
			b.TaxReceivable += bal
		case model.Class(code) == '5':
			b.Cash += bal
		default:
			b.OtherReceivables += bal
		}
		return
	}
	switch code {
	case a.codes.TaxCollected:
		b.TaxPayable -= bal
	case a.codes.PayablePayees:
		b.PayablePayees -= bal
	default:
		b.OtherLiabilities -= bal
	}
}

func (b BalanceSnapshot) totalCharges() model.Amount {
	return b.CommissionExpense + b.ProcessorFees + b.DepreciationChargeOfPeriod + b.OtherCharges
}
