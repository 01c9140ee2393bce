package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/config"
	"github.com/cleared-dev/fiscal/internal/depreciation"
	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/statements"
	"github.com/cleared-dev/fiscal/internal/synth"
	"github.com/cleared-dev/fiscal/internal/taxrule"
)

func laptops() depreciation.Schedule {
	return depreciation.Schedule{{
		ID:         "A1",
		Nature:     accounts.NatureHardware,
		Label:      "Laptops",
		AcquiredOn: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		GrossValue: 300000,
		Rate:       decimal.NewFromInt(20),
	}}
}

func newEngine(t *testing.T, cfg *config.Config) (*Engine, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	e, err := NewEngine(cfg, zerolog.New(&logs))
	require.NoError(t, err)
	return e, &logs
}

func TestGenerate_Uniform(t *testing.T) {
	e, logs := newEngine(t, config.Default("Fans SAS", "sas"))

	r, err := e.Generate(synth.Uniform(2025, 10), laptops(), 2025)
	require.NoError(t, err)

	assert.Equal(t, model.FiscalYear(2025, 1, 1), r.Period)
	assert.Equal(t, 120, r.Transactions)
	assert.Empty(t, r.Rejected)
	assert.Empty(t, r.TaxWarnings)
	assert.Equal(t, model.Amount(789960), r.Income.NetResult)
	assert.Equal(t, r.Balance.TotalAssets, r.Balance.TotalLiabilitiesAndEquity)
	assert.Equal(t, model.Amount(200040), r.VAT.Bucket(model.Rate20).Tax)
	assert.True(t, r.Ratios.ReturnOnEquity.Valid)

	assert.Contains(t, logs.String(), `"component":"report"`)
	assert.Contains(t, logs.String(), `"fiscal_year":2025`)
	assert.Contains(t, logs.String(), "report generated")
}

func TestGenerate_RandomSetsAreCoherent(t *testing.T) {
	e, _ := newEngine(t, config.Default("Fans SAS", "sas"))
	for seed := int64(1); seed <= 5; seed++ {
		g, err := synth.New(e.Jurisdiction(), synth.Options{Year: 2025, PerMonth: 40, Seed: seed})
		require.NoError(t, err)
		_, err = e.Generate(g.Transactions(), laptops(), 2025)
		require.NoError(t, err, "seed %d", seed)
	}
}

func TestGenerate_LogsRejections(t *testing.T) {
	e, logs := newEngine(t, config.Default("Fans SAS", "sas"))
	txs := synth.Uniform(2025, 1)
	txs[3].Net = 9000

	r, err := e.Generate(txs, nil, 2025)
	require.NoError(t, err)
	require.Len(t, r.Rejected, 1)
	assert.Contains(t, logs.String(), "transaction rejected")
	assert.Contains(t, logs.String(), txs[3].ID)
}

func TestGenerate_WarnsOnInvalidTaxInput(t *testing.T) {
	e, logs := newEngine(t, config.Default("Fans SAS", "sas"))
	txs := synth.Uniform(2025, 1)
	txs[0].Payer.Country = "F1"

	r, err := e.Generate(txs, nil, 2025)
	require.NoError(t, err)
	require.Len(t, r.TaxWarnings, 1)
	assert.True(t, errors.Is(r.TaxWarnings[0], taxrule.ErrInvalidTaxInput))
	assert.Contains(t, logs.String(), "tax rule annotation")
}

func TestGenerate_IncoherenceHaltsReport(t *testing.T) {
	cfg := config.Default("Fans SAS", "sas")
	cfg.Accounts.DepreciationCharge = "4686" // booked outside the result accounts
	e, logs := newEngine(t, cfg)

	r, err := e.Generate(synth.Uniform(2025, 1), laptops(), 2025)
	require.Error(t, err)
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, statements.ErrFiscalIncoherence))
	assert.Contains(t, logs.String(), "fiscal incoherence")
	assert.Contains(t, logs.String(), `"level":"error"`)
}

func TestFiscalPeriod_CustomYearStart(t *testing.T) {
	cfg := config.Default("Fans SAS", "sas")
	cfg.Fiscal.YearStart = "07-01"
	e, _ := newEngine(t, cfg)

	p := e.FiscalPeriod(2025)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), p.End)
}

func TestNewEngine_BadConfig(t *testing.T) {
	cfg := config.Default("Fans SAS", "sas")
	cfg.Fiscal.HomeCountry = "US"
	_, err := NewEngine(cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg = config.Default("Fans SAS", "sas")
	cfg.Fiscal.YearStart = "13-01"
	_, err = NewEngine(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestLedger(t *testing.T) {
	e, _ := newEngine(t, config.Default("Fans SAS", "sas"))
	postings, rejected, err := e.Ledger(synth.Uniform(2025, 1), laptops(), 2025)
	require.NoError(t, err)
	assert.Empty(t, rejected)

	// 12 sales, 12 commissions, 12 settlements, one depreciation; the
	// acquisition and the 2024 charge fall before the period.
	assert.Len(t, postings, 37)
	for _, p := range postings {
		assert.True(t, p.Balanced(), p.Piece)
		assert.Equal(t, 2025, p.Date.Year())
	}
}
