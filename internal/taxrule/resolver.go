package taxrule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fiscal/internal/model"
)

// ErrInvalidTaxInput marks a malformed country code or unknown service
// country. Resolve still returns a usable fallback alongside it.
var ErrInvalidTaxInput = errors.New("invalid tax input")

// ErrRateMismatch is returned by Annotate when the stored rate disagrees
// with the resolved one.
var ErrRateMismatch = errors.New("tax rate does not match resolved rule")

// InputError describes one rejected resolver input.
type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrInvalidTaxInput, e.Field, e.Value)
}

func (e *InputError) Unwrap() error { return ErrInvalidTaxInput }

// Query is the input of a tax rule resolution.
type Query struct {
	ServiceCountry  string
	CustomerCountry string
	Business        bool
	ValidTaxID      bool
}

// Resolution is the applicable rate and rule.
type Resolution struct {
	Rate          decimal.Decimal // percent
	Rule          model.TaxRule
	ReverseCharge bool
}

// Jurisdiction is the fixed membership set of the tax union with each
// member's standard rate.
type Jurisdiction struct {
	home    string
	members map[string]decimal.Decimal
}

// NewJurisdiction builds a Jurisdiction from member → standard-rate strings.
// home must be a member; it is the fallback service country.
func NewJurisdiction(home string, rates map[string]string) (*Jurisdiction, error) {
	members := make(map[string]decimal.Decimal, len(rates))
	for country, rate := range rates {
		code, ok := normalizeCountry(country)
		if !ok {
			return nil, fmt.Errorf("invalid member country code %q", country)
		}
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("parsing standard rate of %s: %w", code, err)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("negative standard rate for %s", code)
		}
		members[code] = d
	}
	homeCode, ok := normalizeCountry(home)
	if !ok {
		return nil, fmt.Errorf("invalid home country code %q", home)
	}
	if _, ok := members[homeCode]; !ok {
		return nil, fmt.Errorf("home country %s is not a member", homeCode)
	}
	return &Jurisdiction{home: homeCode, members: members}, nil
}

// Home returns the home country.
func (j *Jurisdiction) Home() string { return j.home }

// IsMember reports whether country belongs to the tax union.
func (j *Jurisdiction) IsMember(country string) bool {
	code, ok := normalizeCountry(country)
	if !ok {
		return false
	}
	_, member := j.members[code]
	return member
}

// StandardRate returns the standard rate of a member state.
func (j *Jurisdiction) StandardRate(country string) (decimal.Decimal, bool) {
	code, ok := normalizeCountry(country)
	if !ok {
		return decimal.Zero, false
	}
	r, ok := j.members[code]
	return r, ok
}

// Members returns the member country codes, sorted.
func (j *Jurisdiction) Members() []string {
	codes := make([]string, 0, len(j.members))
	for c := range j.members {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// ResolveTaxRule is Resolve with positional arguments.
func (j *Jurisdiction) ResolveTaxRule(serviceCountry, customerCountry string, business, validTaxID bool) (Resolution, error) {
	return j.Resolve(Query{
		ServiceCountry:  serviceCountry,
		CustomerCountry: customerCountry,
		Business:        business,
		ValidTaxID:      validTaxID,
	})
}

// Resolve applies, in order: domestic, reverse charge, export, then the
// service country's standard rate. Reverse charge and export are only
// reachable from well-formed inputs. On ErrInvalidTaxInput the returned
// Resolution charges the service (or home) country's standard rate.
func (j *Jurisdiction) Resolve(q Query) (Resolution, error) {
	service, ok := normalizeCountry(q.ServiceCountry)
	if !ok || !j.IsMember(service) {
		return j.fallback(j.home), &InputError{Field: "service country", Value: q.ServiceCountry}
	}
	customer, ok := normalizeCountry(q.CustomerCountry)
	if !ok {
		return j.fallback(service), &InputError{Field: "customer country", Value: q.CustomerCountry}
	}

	standard := j.members[service]
	_, customerMember := j.members[customer]

	switch {
	case service == customer:
		return Resolution{Rate: standard, Rule: model.RuleDomestic}, nil
	case customerMember && q.Business && q.ValidTaxID:
		return Resolution{Rate: decimal.Zero, Rule: model.RuleReverseCharge, ReverseCharge: true}, nil
	case !customerMember:
		return Resolution{Rate: decimal.Zero, Rule: model.RuleExport}, nil
	default:
		return Resolution{Rate: standard, Rule: model.RuleServiceCountryRate}, nil
	}
}

func (j *Jurisdiction) fallback(service string) Resolution {
	return Resolution{Rate: j.members[service], Rule: model.RuleServiceCountryRate}
}

// ResolveTransaction resolves the rule of tx, validating the payer's VAT
// number instead of trusting a flag. An empty service country means home.
func (j *Jurisdiction) ResolveTransaction(tx model.Transaction) (Resolution, error) {
	service := tx.ServiceCountry
	if service == "" {
		service = j.home
	}
	business := tx.Payer.Nature == model.NatureBusiness
	return j.Resolve(Query{
		ServiceCountry:  service,
		CustomerCountry: tx.Payer.Country,
		Business:        business,
		ValidTaxID:      business && ValidTaxID(tx.Payer.Country, tx.Payer.TaxID),
	})
}

// Annotate returns a copy of tx carrying the resolved rule, B2B and
// reverse-charge flags. The copy is returned even when err is non-nil.
// A stored reduced rate below the resolved standard rate is accepted.
// Withdrawals are outside the VAT scope and only get their B2B flag.
func (j *Jurisdiction) Annotate(tx model.Transaction) (model.Transaction, error) {
	if tx.Type == model.TypeWithdrawal {
		tx.TaxRule, tx.ReverseCharge, tx.TaxApplicable = "", false, false
		tx.B2B = tx.Payer.Nature == model.NatureBusiness
		return tx, nil
	}
	res, err := j.ResolveTransaction(tx)
	tx.TaxRule = res.Rule
	tx.ReverseCharge = res.ReverseCharge
	tx.B2B = tx.Payer.Nature == model.NatureBusiness
	tx.TaxApplicable = res.Rate.IsPositive()
	if err != nil {
		return tx, err
	}
	if !tx.TaxRate.Valid() {
		return tx, fmt.Errorf("%w: transaction %s carries rate index %d, rule %q gives %s%%",
			ErrRateMismatch, tx.ID, int(tx.TaxRate), res.Rule, res.Rate)
	}
	stored := tx.TaxRate.Percent()
	if stored.IsZero() != res.Rate.IsZero() || stored.GreaterThan(res.Rate) {
		return tx, fmt.Errorf("%w: transaction %s carries %s%%, rule %q gives %s%%",
			ErrRateMismatch, tx.ID, tx.TaxRate, res.Rule, res.Rate)
	}
	return tx, nil
}

func normalizeCountry(c string) (string, bool) {
	if len(c) != 2 {
		return "", false
	}
	b := []byte(c)
	for i, ch := range b {
		switch {
		case ch >= 'A' && ch <= 'Z':
		case ch >= 'a' && ch <= 'z':
			b[i] = ch - 'a' + 'A'
		default:
			return "", false
		}
	}
	return string(b), true
}
