// Package depreciation computes straight-line depreciation plans for the
// fixed assets supplied by the asset registry.
package depreciation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/id"
	"github.com/cleared-dev/fiscal/internal/model"
)

// Asset is one fixed asset of the registry.
type Asset struct {
	ID         string
	Nature     string // key into accounts.Codes.FixedAssets
	Label      string
	AcquiredOn time.Time
	GrossValue model.Amount
	Rate       decimal.Decimal // annual straight-line rate, percent
	Dotation   model.Amount    // annual charge; 0 derives it from Rate
}

// Schedule is the depreciation schedule of the registry.
type Schedule []Asset

// AnnualDotation returns the full-year charge.
func (a Asset) AnnualDotation() model.Amount {
	if a.Dotation > 0 {
		return a.Dotation
	}
	return model.ComputeTax(a.GrossValue, a.Rate)
}

// Plan is the depreciation position of an asset for one period.
type Plan struct {
	Asset     Asset
	InService bool
	Charge    model.Amount // charge booked in the period
	Prior     model.Amount // cumulative depreciation before the period
	Years     []YearCharge
}

// YearCharge is the charge of one fiscal year.
type YearCharge struct {
	Period model.Period
	Charge model.Amount
}

// Cumulative is the depreciation at the end of the period.
func (p Plan) Cumulative() model.Amount { return p.Prior + p.Charge }

// BookValue is gross value net of cumulative depreciation.
func (p Plan) BookValue() model.Amount { return p.Asset.GrossValue - p.Cumulative() }

// PlanFor computes the plan of a over the fiscal years aligned on period,
// up to and including period. The first year is prorated by days in
// service; the total never exceeds the gross value.
func PlanFor(a Asset, period model.Period) Plan {
	plan := Plan{Asset: a}
	if !a.AcquiredOn.Before(period.End) || a.GrossValue <= 0 {
		return plan
	}
	plan.InService = true

	year := period
	for a.AcquiredOn.Before(year.Start) {
		year = model.Period{Start: year.Start.AddDate(-1, 0, 0), End: year.Start}
	}

	annual := a.AnnualDotation()
	var cumulative model.Amount
	for first := true; year.Start.Before(period.End); first = false {
		charge := annual
		if first {
			charge = prorate(annual, a.AcquiredOn, year)
		}
		if remaining := a.GrossValue - cumulative; charge > remaining {
			charge = remaining
		}
		if charge > 0 {
			plan.Years = append(plan.Years, YearCharge{Period: year, Charge: charge})
		}
		if year.Start.Equal(period.Start) {
			plan.Charge = charge
			plan.Prior = cumulative
		}
		cumulative += charge
		year = model.Period{Start: year.End, End: year.End.AddDate(1, 0, 0)}
	}
	return plan
}

const day = 24 * time.Hour

func prorate(annual model.Amount, from time.Time, year model.Period) model.Amount {
	total := int64(year.End.Sub(year.Start) / day)
	days := int64(year.End.Sub(from) / day)
	if days >= total {
		return annual
	}
	d := decimal.NewFromInt(int64(annual) * days).Div(decimal.NewFromInt(total)).Round(0)
	return model.Amount(d.IntPart())
}

// Plans computes PlanFor for every asset in service.
func (s Schedule) Plans(period model.Period) []Plan {
	plans := make([]Plan, 0, len(s))
	for _, a := range s {
		if p := PlanFor(a, period); p.InService {
			plans = append(plans, p)
		}
	}
	return plans
}

// ChargeOfPeriod sums the period charge of every asset.
func (s Schedule) ChargeOfPeriod(period model.Period) model.Amount {
	var total model.Amount
	for _, p := range s.Plans(period) {
		total += p.Charge
	}
	return total
}

// Postings returns the acquisition postings (funded by share capital) and
// the yearly depreciation postings of every asset in service, up to and
// including period.
func (s Schedule) Postings(period model.Period, codes accounts.Codes) ([]model.Posting, error) {
	var postings []model.Posting
	for i, a := range s {
		plan := PlanFor(a, period)
		if !plan.InService {
			continue
		}
		ac, ok := codes.FixedAssets[a.Nature]
		if !ok {
			return nil, fmt.Errorf("asset %s: no accounts for nature %q", a.ID, a.Nature)
		}
		seq := i + 1
		postings = append(postings, model.Posting{
			Journal:       model.JournalOpening,
			Piece:         id.PieceNumber(model.JournalOpening, id.FormatInvoiceNumber(a.AcquiredOn.Year(), seq)),
			Date:          a.AcquiredOn,
			TransactionID: a.ID,
			Debits:        []model.Line{{Account: ac.Asset, Label: a.Label, Amount: a.GrossValue}},
			Credits:       []model.Line{{Account: codes.ShareCapital, Label: "Contribution " + a.Label, Amount: a.GrossValue}},
		})
		for _, y := range plan.Years {
			if y.Charge == 0 {
				continue
			}
			label := fmt.Sprintf("Depreciation %s %d", a.Label, y.Period.Start.Year())
			postings = append(postings, model.Posting{
				Journal:       model.JournalMisc,
				Piece:         id.PieceNumber(model.JournalMisc, id.FormatInvoiceNumber(y.Period.Start.Year(), seq)),
				Date:          y.Period.End.AddDate(0, 0, -1),
				TransactionID: a.ID,
				Debits:        []model.Line{{Account: codes.DepreciationCharge, Label: label, Amount: y.Charge}},
				Credits:       []model.Line{{Account: ac.Depreciation, Label: label, Amount: y.Charge}},
			})
		}
	}
	return postings, nil
}
