package taxrule

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fiscal/internal/config"
	"github.com/cleared-dev/fiscal/internal/model"
)

func newEU(t *testing.T) *Jurisdiction {
	t.Helper()
	j, err := NewJurisdiction("FR", config.EUStandardRates())
	require.NoError(t, err)
	return j
}

func TestResolve_DomesticStandard(t *testing.T) {
	j := newEU(t)
	res, err := j.ResolveTaxRule("FR", "FR", false, false)
	require.NoError(t, err)
	assert.True(t, res.Rate.Equal(decimal.NewFromInt(20)), "rate %s", res.Rate)
	assert.Equal(t, model.RuleDomestic, res.Rule)
	assert.Equal(t, "domestic standard", string(res.Rule))
	assert.False(t, res.ReverseCharge)
}

func TestResolve_ReverseChargeRequiresValidTaxID(t *testing.T) {
	j := newEU(t)

	res, err := j.ResolveTaxRule("FR", "DE", true, false)
	require.NoError(t, err)
	assert.NotEqual(t, model.RuleReverseCharge, res.Rule)
	assert.Equal(t, model.RuleServiceCountryRate, res.Rule)
	assert.True(t, res.Rate.Equal(decimal.NewFromInt(20)))
	assert.False(t, res.ReverseCharge)

	res, err = j.ResolveTaxRule("FR", "DE", true, true)
	require.NoError(t, err)
	assert.Equal(t, model.RuleReverseCharge, res.Rule)
	assert.True(t, res.Rate.IsZero())
	assert.True(t, res.ReverseCharge)
}

func TestResolve_Rules(t *testing.T) {
	j := newEU(t)
	tests := []struct {
		name     string
		q        Query
		wantRule model.TaxRule
		wantRate string
	}{
		{"domestic business", Query{"FR", "FR", true, true}, model.RuleDomestic, "20"},
		{"eu consumer", Query{"FR", "IT", false, false}, model.RuleServiceCountryRate, "20"},
		{"eu consumer claiming tax id", Query{"FR", "IT", false, true}, model.RuleServiceCountryRate, "20"},
		{"export consumer", Query{"FR", "US", false, false}, model.RuleExport, "0"},
		{"export business", Query{"FR", "CH", true, true}, model.RuleExport, "0"},
		{"lowercase codes", Query{"fr", "de", true, true}, model.RuleReverseCharge, "0"},
		{"german service", Query{"DE", "DE", false, false}, model.RuleDomestic, "19"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := j.Resolve(tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRule, res.Rule)
			assert.True(t, res.Rate.Equal(decimal.RequireFromString(tt.wantRate)), "rate %s", res.Rate)
		})
	}
}

func TestResolve_InvalidInputFallsBackToStandardRate(t *testing.T) {
	j := newEU(t)
	tests := []struct {
		name  string
		q     Query
		field string
	}{
		{"malformed customer", Query{"FR", "D3", true, true}, "customer country"},
		{"empty customer", Query{"FR", "", true, true}, "customer country"},
		{"long customer", Query{"FR", "DEU", true, true}, "customer country"},
		{"malformed service", Query{"F", "DE", true, true}, "service country"},
		{"non-member service", Query{"US", "US", false, false}, "service country"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := j.Resolve(tt.q)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTaxInput))

			var inErr *InputError
			require.ErrorAs(t, err, &inErr)
			assert.Equal(t, tt.field, inErr.Field)

			assert.Equal(t, model.RuleServiceCountryRate, res.Rule)
			assert.False(t, res.ReverseCharge)
			assert.True(t, res.Rate.Equal(decimal.NewFromInt(20)))
		})
	}
}

func TestResolveTransaction_MalformedTaxIDNeverReverseCharges(t *testing.T) {
	j := newEU(t)
	tx := model.Transaction{
		ID:             "tx",
		ServiceCountry: "FR",
		Payer:          model.Payer{Country: "DE", Nature: model.NatureBusiness, TaxID: "DE12345"},
	}
	res, err := j.ResolveTransaction(tx)
	require.NoError(t, err)
	assert.Equal(t, model.RuleServiceCountryRate, res.Rule)

	tx.Payer.TaxID = "DE 123 456 789"
	res, err = j.ResolveTransaction(tx)
	require.NoError(t, err)
	assert.Equal(t, model.RuleReverseCharge, res.Rule)

	// A valid French number does not make a German customer reverse-charged.
	tx.Payer.TaxID = "FR40303265045"
	res, err = j.ResolveTransaction(tx)
	require.NoError(t, err)
	assert.Equal(t, model.RuleServiceCountryRate, res.Rule)
}

func TestAnnotate(t *testing.T) {
	j := newEU(t)
	tx := model.Transaction{
		ID:      "tx",
		Type:    model.TypeSubscription,
		TaxRate: model.Rate20,
		Payer:   model.Payer{Country: "FR", Nature: model.NatureIndividual},
	}
	got, err := j.Annotate(tx)
	require.NoError(t, err)
	assert.Equal(t, model.RuleDomestic, got.TaxRule)
	assert.True(t, got.TaxApplicable)
	assert.False(t, got.B2B)

	tx.TaxRate = model.Rate5_5
	_, err = j.Annotate(tx)
	assert.NoError(t, err, "reduced domestic rate is accepted")

	tx.Payer = model.Payer{Country: "US", Nature: model.NatureIndividual}
	tx.TaxRate = model.Rate20
	got, err = j.Annotate(tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateMismatch))
	assert.Equal(t, model.RuleExport, got.TaxRule)
	assert.False(t, got.TaxApplicable)
}

func TestAnnotate_WithdrawalOutsideVAT(t *testing.T) {
	j := newEU(t)
	tx := model.Transaction{
		ID:    "w",
		Type:  model.TypeWithdrawal,
		Payer: model.Payer{Country: "FR", Nature: model.NatureIndividual},
	}
	got, err := j.Annotate(tx)
	require.NoError(t, err)
	assert.Empty(t, got.TaxRule)
	assert.False(t, got.TaxApplicable)
}

func TestAnnotate_OutOfRangeRate(t *testing.T) {
	j := newEU(t)
	tx := model.Transaction{
		ID:      "tx",
		Type:    model.TypeTip,
		TaxRate: model.TaxRate(9),
		Payer:   model.Payer{Country: "FR", Nature: model.NatureIndividual},
	}
	var err error
	require.NotPanics(t, func() { _, err = j.Annotate(tx) })
	assert.True(t, errors.Is(err, ErrRateMismatch))
}

func TestNewJurisdiction_Errors(t *testing.T) {
	_, err := NewJurisdiction("US", map[string]string{"FR": "20"})
	assert.Error(t, err)

	_, err = NewJurisdiction("FR", map[string]string{"FR": "twenty"})
	assert.Error(t, err)

	_, err = NewJurisdiction("FR", map[string]string{"FRA": "20"})
	assert.Error(t, err)
}

func TestMembers(t *testing.T) {
	j := newEU(t)
	members := j.Members()
	assert.Len(t, members, 27)
	assert.Equal(t, "AT", members[0])
	assert.True(t, j.IsMember("de"))
	assert.False(t, j.IsMember("GB"))
}
