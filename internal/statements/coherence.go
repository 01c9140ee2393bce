package statements

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/fiscal/internal/model"
)

// Tolerance is the rounding allowance between statements: 0.01 currency
// unit. It applies to final integer totals only.
const Tolerance model.Amount = 1

// ErrFiscalIncoherence marks statements that disagree. Callers must not
// publish a filing built on them.
var ErrFiscalIncoherence = errors.New("fiscal incoherence")

// Mismatch is one failed cross-check with both figures.
type Mismatch struct {
	Check string
	Left  model.Amount
	Right model.Amount
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s != %s", m.Check, m.Left, m.Right)
}

// IncoherenceError lists every failed cross-check.
type IncoherenceError struct {
	Mismatches []Mismatch
}

func (e *IncoherenceError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%s: %s", ErrFiscalIncoherence, strings.Join(parts, "; "))
}

func (e *IncoherenceError) Unwrap() error { return ErrFiscalIncoherence }

// ValidateCoherence cross-checks a balance snapshot against an income
// statement. It returns an *IncoherenceError carrying the offending
// figures, never adjusting them.
func ValidateCoherence(b BalanceSnapshot, inc IncomeStatement) error {
	var mismatches []Mismatch

	if (b.TotalAssets - b.TotalLiabilitiesAndEquity).Abs() > Tolerance {
		mismatches = append(mismatches, Mismatch{
			Check: "total assets vs liabilities and equity",
			Left:  b.TotalAssets,
			Right: b.TotalLiabilitiesAndEquity,
		})
	}
	if (b.NetResultOfPeriod - inc.NetResult).Abs() > Tolerance {
		mismatches = append(mismatches, Mismatch{
			Check: "balance net result vs income net result",
			Left:  b.NetResultOfPeriod,
			Right: inc.NetResult,
		})
	}
	if inc.DepreciationCharge != b.DepreciationChargeOfPeriod {
		mismatches = append(mismatches, Mismatch{
			Check: "income depreciation charge vs balance depreciation charge",
			Left:  inc.DepreciationCharge,
			Right: b.DepreciationChargeOfPeriod,
		})
	}
	if inc.Revenue-inc.TotalCharges != inc.NetResult {
		mismatches = append(mismatches, Mismatch{
			Check: "income revenue minus charges vs net result",
			Left:  inc.Revenue - inc.TotalCharges,
			Right: inc.NetResult,
		})
	}

	if len(mismatches) > 0 {
		return &IncoherenceError{Mismatches: mismatches}
	}
	return nil
}
