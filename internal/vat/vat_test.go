package vat

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fiscal/internal/config"
	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/synth"
	"github.com/cleared-dev/fiscal/internal/taxrule"
)

func synthetic(t *testing.T, seed int64) []model.Transaction {
	t.Helper()
	j, err := taxrule.NewJurisdiction("FR", config.EUStandardRates())
	require.NoError(t, err)
	g, err := synth.New(j, synth.Options{Year: 2025, PerMonth: 30, Seed: seed})
	require.NoError(t, err)
	return g.Transactions()
}

func TestMonthlyDeclaration_Uniform(t *testing.T) {
	d, err := MonthlyDeclaration(synth.Uniform(2025, 10), 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, model.Month(2025, 1), d.Period)
	assert.Equal(t, Bucket{Base: 83330, Tax: 16670}, d.Bucket(model.Rate20))
	assert.Equal(t, Bucket{}, d.Bucket(model.Rate5_5))
	assert.Equal(t, model.Amount(16670), d.TaxCollected)
	assert.Equal(t, model.Amount(2500), d.Deductible)
	assert.Equal(t, model.Amount(14170), d.NetDue)
	assert.Zero(t, d.CreditCarriedForward)
	assert.Equal(t, 10, d.Transactions)
}

func TestAnnualDeclaration_Uniform(t *testing.T) {
	d, err := AnnualDeclaration(synth.Uniform(2025, 10), 2025)
	require.NoError(t, err)

	assert.Equal(t, model.Amount(200040), d.Bucket(model.Rate20).Tax)
	assert.Equal(t, model.Amount(999960), d.Bucket(model.Rate20).Base)
	assert.Equal(t, model.Amount(30000), d.Deductible)
	assert.Equal(t, model.Amount(170040), d.NetDue)
	assert.Len(t, d.Months, 12)
	assert.Equal(t, 120, d.Transactions)
}

func sale(date time.Time, rate model.TaxRate, net model.Amount) model.Transaction {
	tax := model.ComputeTax(net, rate.Percent())
	return model.Transaction{
		ID:      "tx",
		Date:    date,
		Type:    model.TypeTip,
		Status:  model.StatusCompleted,
		Net:     net,
		Tax:     tax,
		Gross:   net + tax,
		TaxRate: rate,
	}
}

func TestMonthlyDeclaration_Scope(t *testing.T) {
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	refund := sale(jan, model.Rate20, 1000)
	refund.Type = model.TypeRefund
	pending := sale(jan, model.Rate20, 5000)
	pending.Status = model.StatusPending
	withdrawal := model.Transaction{ID: "w", Date: jan, Type: model.TypeWithdrawal, Status: model.StatusCompleted, Gross: 9000, Net: 9000}
	february := sale(jan.AddDate(0, 1, 0), model.Rate20, 7000)

	txs := []model.Transaction{
		sale(jan, model.Rate20, 4000),
		sale(jan, model.Rate5_5, 2000),
		refund, pending, withdrawal, february,
	}
	d, err := MonthlyDeclaration(txs, 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, Bucket{Base: 3000, Tax: 600}, d.Bucket(model.Rate20))
	assert.Equal(t, Bucket{Base: 2000, Tax: 110}, d.Bucket(model.Rate5_5))
	assert.Equal(t, model.Amount(710), d.TaxCollected)
	assert.Equal(t, 3, d.Transactions)
}

func TestMonthlyDeclaration_CreditCarriedForward(t *testing.T) {
	refund := sale(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), model.Rate20, 1000)
	refund.Type = model.TypeRefund

	d, err := MonthlyDeclaration([]model.Transaction{refund}, 2025, 3)
	require.NoError(t, err)
	assert.Zero(t, d.NetDue)
	assert.Equal(t, model.Amount(200), d.CreditCarriedForward)
	assert.Equal(t, model.Amount(-200), d.Position())
}

func TestMonthlyDeclaration_NonDeductibleCommission(t *testing.T) {
	tx := synth.Uniform(2025, 1)[0]
	tx.Payee.Status = model.FiscalVATExempt
	d, err := MonthlyDeclaration([]model.Transaction{tx}, 2025, 1)
	require.NoError(t, err)
	assert.Zero(t, d.Deductible)
}

func TestMonthlyDeclaration_InvalidMonth(t *testing.T) {
	_, err := MonthlyDeclaration(nil, 2025, 13)
	assert.Error(t, err)
}

func TestUnsupportedRate(t *testing.T) {
	tx := sale(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), model.Rate20, 1000)
	tx.TaxRate = model.TaxRate(9)

	_, err := MonthlyDeclaration([]model.Transaction{tx}, 2025, 6)
	assert.True(t, errors.Is(err, ErrUnsupportedRate))

	_, err = AnnualDeclaration([]model.Transaction{tx}, 2025)
	assert.True(t, errors.Is(err, ErrUnsupportedRate))
}

func TestUnknownType(t *testing.T) {
	tx := sale(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), model.Rate20, 1000)
	tx.Type = "chargeback"

	_, err := MonthlyDeclaration([]model.Transaction{tx}, 2025, 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chargeback")
}

func TestAnnualDeclaration_DueAndCredit(t *testing.T) {
	jan := sale(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), model.Rate20, 7085)
	refund := sale(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), model.Rate20, 50000)
	refund.Type = model.TypeRefund

	d, err := AnnualDeclaration([]model.Transaction{jan, refund}, 2025)
	require.NoError(t, err)

	assert.Equal(t, model.Amount(1417), d.NetDue)
	assert.Equal(t, model.Amount(10000), d.CreditCarriedForward)
	assert.Equal(t, model.Amount(-8583), d.Position())
	for _, m := range d.Months {
		assert.False(t, m.NetDue > 0 && m.CreditCarriedForward > 0, m.Period.String())
	}
}

func TestAnnualEqualsSumOfMonths(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		txs := synthetic(t, seed)
		annual, err := AnnualDeclaration(txs, 2025)
		require.NoError(t, err)

		var sum Declaration
		for m := 1; m <= 12; m++ {
			d, err := MonthlyDeclaration(txs, 2025, m)
			require.NoError(t, err)
			for r := range d.Buckets {
				sum.Buckets[r].Base += d.Buckets[r].Base
				sum.Buckets[r].Tax += d.Buckets[r].Tax
			}
			sum.TaxCollected += d.TaxCollected
			sum.Deductible += d.Deductible
			sum.NetDue += d.NetDue
			sum.CreditCarriedForward += d.CreditCarriedForward
			sum.Transactions += d.Transactions
			assert.Equal(t, d, annual.Months[m-1])
		}
		assert.Equal(t, sum.Buckets, annual.Buckets, "seed %d", seed)
		assert.Equal(t, sum.TaxCollected, annual.TaxCollected)
		assert.Equal(t, sum.Deductible, annual.Deductible)
		assert.Equal(t, sum.NetDue, annual.NetDue)
		assert.Equal(t, sum.CreditCarriedForward, annual.CreditCarriedForward)
		assert.Equal(t, sum.Transactions, annual.Transactions)
	}
}

func TestAnnualDeclaration_OrderAndParallelismIndependent(t *testing.T) {
	txs := synthetic(t, 42)
	want, err := AnnualDeclaration(txs, 2025, WithParallelism(1))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 2, 5, 12} {
		shuffled := append([]model.Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := AnnualDeclaration(shuffled, 2025, WithParallelism(n))
		require.NoError(t, err)
		assert.Equal(t, want, got, "parallelism %d", n)
	}
}

func TestCheckRollup(t *testing.T) {
	d, err := AnnualDeclaration(synth.Uniform(2025, 2), 2025)
	require.NoError(t, err)
	direct, err := aggregate(synth.Uniform(2025, 2), d.Period)
	require.NoError(t, err)
	require.NoError(t, checkRollup(d, direct))

	tampered := d
	tampered.Deductible++
	assert.True(t, errors.Is(checkRollup(tampered, direct), ErrRollupMismatch))

	tampered = d
	tampered.Buckets[model.Rate20].Tax--
	assert.True(t, errors.Is(checkRollup(tampered, direct), ErrRollupMismatch))
}
