package statements

import (
	"sort"

	"github.com/cleared-dev/fiscal/internal/model"
)

// IncomeStatement is the result of a period. It is derived from a
// BalanceSnapshot only, so both statements share one set of figures.
type IncomeStatement struct {
	Period model.Period

	Revenue            model.Amount
	CommissionExpense  model.Amount
	ProcessorFees      model.Amount
	OtherCharges       model.Amount
	DepreciationCharge model.Amount
	TotalCharges       model.Amount
	OperatingResult    model.Amount // before depreciation
	NetResult          model.Amount

	Lines []IncomeLine
}

// IncomeLine is the period balance of one result account, revenue positive,
// charges negative.
type IncomeLine struct {
	Account string
	Amount  model.Amount
}

// ComputeIncomeStatement derives the income statement of b's period.
func ComputeIncomeStatement(b BalanceSnapshot) IncomeStatement {
	inc := IncomeStatement{
		Period:             b.Period,
		Revenue:            b.Revenue,
		CommissionExpense:  b.CommissionExpense,
		ProcessorFees:      b.ProcessorFees,
		OtherCharges:       b.OtherCharges,
		DepreciationCharge: b.DepreciationChargeOfPeriod,
	}
	inc.TotalCharges = inc.CommissionExpense + inc.ProcessorFees + inc.OtherCharges + inc.DepreciationCharge
	inc.OperatingResult = inc.Revenue - inc.CommissionExpense - inc.ProcessorFees - inc.OtherCharges
	inc.NetResult = inc.OperatingResult - inc.DepreciationCharge

	for code, bal := range b.Accounts {
		if isResultAccount(code) && bal != 0 {
			inc.Lines = append(inc.Lines, IncomeLine{Account: code, Amount: -bal})
		}
	}
	sort.Slice(inc.Lines, func(i, j int) bool {
		// Revenue (class 7) first, then charges.
		ci, cj := model.Class(inc.Lines[i].Account), model.Class(inc.Lines[j].Account)
		if ci != cj {
			return ci > cj
		}
		return inc.Lines[i].Account < inc.Lines[j].Account
	})
	return inc
}
