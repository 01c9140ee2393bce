package vat

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/fiscal/internal/model"
)

// DefaultParallelism bounds the monthly fan-out when no option is given.
const DefaultParallelism = 4

type options struct {
	parallelism int
}

// Option configures AnnualDeclaration.
type Option func(*options)

// WithParallelism sets how many months are aggregated concurrently.
// Values below 1 mean one at a time.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.parallelism = n
	}
}

// AnnualDeclaration computes the twelve monthly declarations of year
// concurrently and rolls them up field by field. NetDue and
// CreditCarriedForward are the sums of the monthly figures. The rollup is
// checked against a direct aggregation of the whole year and fails with
// ErrRollupMismatch if they disagree.
func AnnualDeclaration(txs []model.Transaction, year int, opts ...Option) (Declaration, error) {
	o := options{parallelism: DefaultParallelism}
	for _, opt := range opts {
		opt(&o)
	}

	months := make([]Declaration, 12)
	var g errgroup.Group
	g.SetLimit(o.parallelism)
	for i := range months {
		g.Go(func() error {
			d, err := MonthlyDeclaration(txs, year, i+1)
			if err != nil {
				return fmt.Errorf("month %d: %w", i+1, err)
			}
			months[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Declaration{}, err
	}

	annual := rollup(year, months)
	direct, err := aggregate(txs, annual.Period)
	if err != nil {
		return Declaration{}, err
	}
	if err := checkRollup(annual, direct); err != nil {
		return Declaration{}, err
	}
	return annual, nil
}

func rollup(year int, months []Declaration) Declaration {
	annual := Declaration{
		Period: model.Period{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		Months: months,
	}
	for _, m := range months {
		for r := range m.Buckets {
			annual.Buckets[r].Base += m.Buckets[r].Base
			annual.Buckets[r].Tax += m.Buckets[r].Tax
		}
		annual.TaxCollected += m.TaxCollected
		annual.Deductible += m.Deductible
		annual.NetDue += m.NetDue
		annual.CreditCarriedForward += m.CreditCarriedForward
		annual.Transactions += m.Transactions
	}
	return annual
}

// checkRollup compares the summed months with a direct aggregation of the
// year. The direct position must equal the net of the monthly dues and
// credits.
func checkRollup(annual, direct Declaration) error {
	for _, r := range model.TaxRates {
		if annual.Buckets[r] != direct.Buckets[r] {
			return fmt.Errorf("%w: bucket %s%%: months %+v, year %+v", ErrRollupMismatch, r, annual.Buckets[r], direct.Buckets[r])
		}
	}
	fields := []struct {
		name           string
		months, direct model.Amount
	}{
		{"tax collected", annual.TaxCollected, direct.TaxCollected},
		{"deductible", annual.Deductible, direct.Deductible},
		{"position", annual.Position(), direct.TaxCollected - direct.Deductible},
		{"transactions", model.Amount(annual.Transactions), model.Amount(direct.Transactions)},
	}
	for _, f := range fields {
		if f.months != f.direct {
			return fmt.Errorf("%w: %s: months %d, year %d", ErrRollupMismatch, f.name, f.months, f.direct)
		}
	}
	return nil
}
