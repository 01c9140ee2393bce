// Package synth generates deterministic synthetic platform transactions for
// tests and demos.
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/fiscal/internal/id"
	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/taxrule"
)

// Options configures a synthetic data set.
type Options struct {
	Year     int
	PerMonth int
	Seed     int64

	// CommissionPercent is the platform commission on gross (default 20).
	CommissionPercent int64
}

// Generator produces transactions from a seeded source; equal options give
// equal output.
type Generator struct {
	opts         Options
	jurisdiction *taxrule.Jurisdiction
	standard     model.TaxRate
	rng          *rand.Rand
	seq          int
}

// New creates a Generator selling from j's home country. The home standard
// rate must belong to the supported rate set.
func New(j *taxrule.Jurisdiction, opts Options) (*Generator, error) {
	if opts.Year == 0 {
		opts.Year = time.Now().Year()
	}
	if opts.PerMonth <= 0 {
		opts.PerMonth = 10
	}
	if opts.CommissionPercent == 0 {
		opts.CommissionPercent = 20
	}
	rate, _ := j.StandardRate(j.Home())
	standard, err := model.RateFromPercent(rate)
	if err != nil {
		return nil, fmt.Errorf("synth: home country %s: %w", j.Home(), err)
	}
	return &Generator{
		opts:         opts,
		jurisdiction: j,
		standard:     standard,
		rng:          rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Transactions returns PerMonth transactions for each month of Year.
func (g *Generator) Transactions() []model.Transaction {
	txs := make([]model.Transaction, 0, 12*g.opts.PerMonth)
	for m := 1; m <= 12; m++ {
		for i := 0; i < g.opts.PerMonth; i++ {
			txs = append(txs, g.next(m))
		}
	}
	return txs
}

func (g *Generator) next(month int) model.Transaction {
	g.seq++
	date := time.Date(g.opts.Year, time.Month(month), 1+g.rng.Intn(28),
		g.rng.Intn(24), g.rng.Intn(60), 0, 0, time.UTC)

	tx := model.Transaction{
		ID:             g.uuid(),
		InvoiceNumber:  id.FormatInvoiceNumber(g.opts.Year, g.seq),
		FiscalYear:     g.opts.Year,
		Date:           date,
		CreatedAt:      date,
		UpdatedAt:      date,
		Type:           g.pickType(),
		Status:         g.pickStatus(),
		Payer:          g.pickPayer(),
		Payee:          g.pickPayee(),
		ServiceCountry: g.jurisdiction.Home(),
	}

	switch tx.Type.Kind() {
	case model.KindWithdrawal:
		tx.Payer = model.Payer{Country: g.jurisdiction.Home(), Nature: model.NatureIndividual}
		tx.Gross = model.Amount(1000 + g.rng.Int63n(49000))
		tx.Net = tx.Gross
		tx.TaxRate = model.Rate0
		tx.PayeeNet = tx.Gross
	default:
		tx.TaxRate = g.rateFor(tx)
		tx.Net = model.Amount(500 + g.rng.Int63n(19500))
		tx.Tax = model.ComputeTax(tx.Net, tx.TaxRate.Percent())
		tx.Gross = tx.Net + tx.Tax
		if tx.Type.Kind() == model.KindSale {
			commNet := tx.Gross * model.Amount(g.opts.CommissionPercent) / 100
			commTax := model.ComputeTax(commNet, g.standard.Percent())
			tx.Commission = model.Commission{Net: commNet, Tax: commTax, Total: commNet + commTax}
			tx.ProcessorFee = tx.Gross*29/1000 + 25
			tx.PayeeNet = tx.Gross - tx.Commission.Total - tx.ProcessorFee
		}
		if tx.Status == model.StatusCompleted && g.rng.Intn(10) > 0 {
			settled := date.AddDate(0, 0, 2+g.rng.Intn(9))
			tx.SettledOn = &settled
			tx.UpdatedAt = settled
		}
	}

	annotated, err := g.jurisdiction.Annotate(tx)
	if err == nil {
		tx = annotated
	}
	return tx
}

// rateFor resolves the rule for tx and picks a rate the rule allows:
// zero when no VAT applies, otherwise mostly the standard rate with some
// reduced-rate sales.
func (g *Generator) rateFor(tx model.Transaction) model.TaxRate {
	res, _ := g.jurisdiction.ResolveTransaction(tx)
	if res.Rate.IsZero() {
		return model.Rate0
	}
	resolved, err := model.RateFromPercent(res.Rate)
	if err != nil {
		resolved = g.standard
	}
	if resolved != g.standard {
		return resolved
	}
	switch n := g.rng.Intn(10); {
	case n == 0:
		return model.Rate5_5
	case n == 1:
		return model.Rate10
	default:
		return g.standard
	}
}

func (g *Generator) pickType() model.TransactionType {
	switch n := g.rng.Intn(100); {
	case n < 40:
		return model.TypeSubscription
	case n < 60:
		return model.TypePayPerView
	case n < 75:
		return model.TypeTip
	case n < 85:
		return model.TypeMarketplace
	case n < 93:
		return model.TypeRefund
	default:
		return model.TypeWithdrawal
	}
}

func (g *Generator) pickStatus() model.TransactionStatus {
	switch n := g.rng.Intn(100); {
	case n < 90:
		return model.StatusCompleted
	case n < 96:
		return model.StatusPending
	default:
		return model.StatusFailed
	}
}

var exportCountries = []string{"US", "CH", "GB", "CA"}

func (g *Generator) pickPayer() model.Payer {
	home := g.jurisdiction.Home()
	switch n := g.rng.Intn(100); {
	case n < 60:
		return model.Payer{Country: home, Nature: model.NatureIndividual}
	case n < 70:
		return model.Payer{Country: home, Nature: model.NatureBusiness, TaxID: g.taxID(home)}
	case n < 80:
		return model.Payer{Country: g.otherMember(), Nature: model.NatureIndividual}
	case n < 88:
		country := g.otherMember()
		return model.Payer{Country: country, Nature: model.NatureBusiness, TaxID: g.taxID(country)}
	case n < 90:
		// Malformed number: must not reverse charge.
		return model.Payer{Country: g.otherMember(), Nature: model.NatureBusiness, TaxID: "XX123"}
	default:
		return model.Payer{Country: exportCountries[g.rng.Intn(len(exportCountries))], Nature: model.NatureIndividual}
	}
}

func (g *Generator) pickPayee() model.Payee {
	p := model.Payee{Country: g.jurisdiction.Home(), Status: model.FiscalVATExempt}
	if g.rng.Intn(3) == 0 {
		p.Status = model.FiscalVATRegistered
		p.TaxID = g.taxID(p.Country)
	}
	return p
}

func (g *Generator) otherMember() string {
	var others []string
	for _, c := range g.jurisdiction.Members() {
		if c != g.jurisdiction.Home() {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return g.jurisdiction.Home()
	}
	return others[g.rng.Intn(len(others))]
}

// taxID returns a well-formed VAT number for FR and DE, the two formats
// generated here, and an empty one elsewhere.
func (g *Generator) taxID(country string) string {
	switch country {
	case "FR":
		siren := 100000000 + g.rng.Intn(900000000)
		return fmt.Sprintf("FR%02d%09d", (12+3*(siren%97))%97, siren)
	case "DE":
		return fmt.Sprintf("DE%09d", 100000000+g.rng.Intn(900000000))
	default:
		return ""
	}
}

func (g *Generator) uuid() string {
	u, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return fmt.Sprintf("synth-%06d", g.seq)
	}
	return u.String()
}

// Uniform returns perMonth identical domestic subscriptions per month of
// year: gross 10000, net 8333, tax 1667 at 20 %, commission 1250 + 250,
// settled two days later.
func Uniform(year, perMonth int) []model.Transaction {
	txs := make([]model.Transaction, 0, 12*perMonth)
	seq := 0
	for m := 1; m <= 12; m++ {
		for i := 0; i < perMonth; i++ {
			seq++
			date := time.Date(year, time.Month(m), 1+i%28, 12, 0, 0, 0, time.UTC)
			settled := date.AddDate(0, 0, 2)
			txs = append(txs, model.Transaction{
				ID:             fmt.Sprintf("uniform-%06d", seq),
				InvoiceNumber:  id.FormatInvoiceNumber(year, seq),
				FiscalYear:     year,
				Date:           date,
				SettledOn:      &settled,
				CreatedAt:      date,
				UpdatedAt:      settled,
				Type:           model.TypeSubscription,
				Status:         model.StatusCompleted,
				Payer:          model.Payer{Country: "FR", Nature: model.NatureIndividual},
				Payee:          model.Payee{Country: "FR", Status: model.FiscalVATRegistered},
				Gross:          10000,
				Net:            8333,
				Tax:            1667,
				TaxRate:        model.Rate20,
				Commission:     model.Commission{Net: 1250, Tax: 250, Total: 1500},
				ProcessorFee:   0,
				PayeeNet:       8500,
				ServiceCountry: "FR",
				TaxApplicable:  true,
				TaxRule:        model.RuleDomestic,
			})
		}
	}
	return txs
}
