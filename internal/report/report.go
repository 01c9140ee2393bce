// Package report runs the fiscal pipeline for callers: tax rule annotation,
// postings, statements, coherence validation, ratios and VAT.
package report

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/config"
	"github.com/cleared-dev/fiscal/internal/depreciation"
	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/posting"
	"github.com/cleared-dev/fiscal/internal/ratios"
	"github.com/cleared-dev/fiscal/internal/statements"
	"github.com/cleared-dev/fiscal/internal/taxrule"
	"github.com/cleared-dev/fiscal/internal/vat"
)

// Report is the outcome of one generation. It is only returned when the
// statements are coherent.
type Report struct {
	Period  model.Period
	Balance statements.BalanceSnapshot
	Income  statements.IncomeStatement
	Ratios  ratios.Ratios
	VAT     vat.Declaration

	Transactions int
	Rejected     []posting.Rejection
	TaxWarnings  []error // invalid tax inputs and rate mismatches, kept but reported
}

// Engine holds the configuration shared by report generations. It is safe
// for concurrent use.
type Engine struct {
	codes        accounts.Codes
	jurisdiction *taxrule.Jurisdiction
	aggregator   *statements.Aggregator
	generator    *posting.Generator
	startMonth   int
	startDay     int
	parallelism  int
	log          zerolog.Logger
}

// NewEngine builds an Engine from cfg.
func NewEngine(cfg *config.Config, log zerolog.Logger) (*Engine, error) {
	j, err := taxrule.NewJurisdiction(cfg.Fiscal.HomeCountry, cfg.Jurisdiction.Members)
	if err != nil {
		return nil, fmt.Errorf("jurisdiction: %w", err)
	}
	month, day, err := model.ParseYearStart(cfg.Fiscal.YearStart)
	if err != nil {
		return nil, err
	}
	parallelism := cfg.Report.Parallelism
	if parallelism < 1 {
		parallelism = vat.DefaultParallelism
	}
	return &Engine{
		codes:        cfg.Accounts,
		jurisdiction: j,
		aggregator:   statements.NewAggregator(cfg.Accounts),
		generator:    posting.NewGenerator(cfg.Accounts),
		startMonth:   month,
		startDay:     day,
		parallelism:  parallelism,
		log:          log.With().Str("component", "report").Logger(),
	}, nil
}

// Jurisdiction returns the tax union the engine resolves rules against.
func (e *Engine) Jurisdiction() *taxrule.Jurisdiction { return e.jurisdiction }

// FiscalPeriod returns the fiscal year starting in year.
func (e *Engine) FiscalPeriod(year int) model.Period {
	return model.FiscalYear(year, e.startMonth, e.startDay)
}

// Annotate resolves the tax rule of every transaction. Transactions with
// invalid tax input or a rate disagreeing with the rule are kept as stored
// and reported in the returned warnings.
func (e *Engine) Annotate(txs []model.Transaction) ([]model.Transaction, []error) {
	out := make([]model.Transaction, len(txs))
	var warnings []error
	for i, tx := range txs {
		annotated, err := e.jurisdiction.Annotate(tx)
		out[i] = annotated
		if err != nil {
			warnings = append(warnings, fmt.Errorf("transaction %s: %w", tx.ID, err))
		}
	}
	return out, warnings
}

// Generate builds the report of the fiscal year starting in year. An
// incoherent set of statements is logged and returned as an error wrapping
// statements.ErrFiscalIncoherence; no report is produced for it.
func (e *Engine) Generate(txs []model.Transaction, schedule depreciation.Schedule, year int) (*Report, error) {
	period := e.FiscalPeriod(year)
	log := e.log.With().
		Int("fiscal_year", year).
		Time("period_start", period.Start).
		Time("period_end", period.End).
		Int("transactions", len(txs)).
		Logger()

	annotated, warnings := e.Annotate(txs)
	for _, w := range warnings {
		log.Warn().Err(w).Msg("tax rule annotation")
	}

	balance, err := e.aggregator.ComputeBalance(annotated, schedule, period)
	if err != nil {
		logIncoherence(log, err)
		return nil, fmt.Errorf("computing balance: %w", err)
	}
	for _, r := range balance.Rejected {
		log.Warn().Err(r.Err).
			Str("transaction", r.TransactionID).
			Str("invoice", r.InvoiceNumber).
			Msg("transaction rejected")
	}

	income := statements.ComputeIncomeStatement(balance)
	if err := statements.ValidateCoherence(balance, income); err != nil {
		logIncoherence(log, err)
		return nil, err
	}

	declaration, err := vat.AnnualDeclaration(annotated, period.Start.Year(), vat.WithParallelism(e.parallelism))
	if err != nil {
		log.Error().Err(err).Msg("vat declaration")
		return nil, fmt.Errorf("vat declaration: %w", err)
	}

	r := &Report{
		Period:       period,
		Balance:      balance,
		Income:       income,
		Ratios:       ratios.Compute(balance, income),
		VAT:          declaration,
		Transactions: len(txs),
		Rejected:     balance.Rejected,
		TaxWarnings:  warnings,
	}
	log.Info().
		Int("rejected", len(r.Rejected)).
		Int("postings", balance.Postings).
		Str("total_assets", balance.TotalAssets.String()).
		Str("net_result", income.NetResult.String()).
		Str("vat_due", declaration.NetDue.String()).
		Msg("report generated")
	return r, nil
}

func logIncoherence(log zerolog.Logger, err error) {
	var ie *statements.IncoherenceError
	if !errors.As(err, &ie) {
		log.Error().Err(err).Msg("report generation failed")
		return
	}
	for _, m := range ie.Mismatches {
		log.Error().
			Str("check", m.Check).
			Str("left", m.Left.String()).
			Str("right", m.Right.String()).
			Msg("fiscal incoherence")
	}
}

// Ledger returns the postings dated within the fiscal year starting in
// year: transaction postings, settlements and fixed-asset postings. It is
// what gets written to the journal.
func (e *Engine) Ledger(txs []model.Transaction, schedule depreciation.Schedule, year int) ([]model.Posting, []posting.Rejection, error) {
	period := e.FiscalPeriod(year)
	batch := e.generator.GenerateBatch(txs, period.End)
	assets, err := schedule.Postings(period, e.codes)
	if err != nil {
		return nil, nil, err
	}
	var postings []model.Posting
	for _, set := range [][]model.Posting{batch.Postings, assets} {
		for _, p := range set {
			if period.Contains(p.Date) {
				postings = append(postings, p)
			}
		}
	}
	for _, r := range batch.Rejected {
		e.log.Warn().Err(r.Err).Str("transaction", r.TransactionID).Msg("transaction rejected")
	}
	return postings, batch.Rejected, nil
}
