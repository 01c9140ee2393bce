package accounts

import "github.com/cleared-dev/fiscal/internal/model"

// Codes maps accounting roles to chart-of-accounts codes.
type Codes struct {
	Receivable         string                `yaml:"receivable"`
	Cash               string                `yaml:"cash"`
	Revenue            string                `yaml:"revenue"`
	TaxCollected       string                `yaml:"tax_collected"`
	TaxDeductible      string                `yaml:"tax_deductible"`
	CommissionExpense  string                `yaml:"commission_expense"`
	PayablePayees      string                `yaml:"payable_payees"`
	ProcessorFees      string                `yaml:"processor_fees"`
	DepreciationCharge string                `yaml:"depreciation_charge"`
	ShareCapital       string                `yaml:"share_capital"`
	RetainedEarnings   string                `yaml:"retained_earnings"`
	NetResult          string                `yaml:"net_result"`
	FixedAssets        map[string]AssetCodes `yaml:"fixed_assets"`
}

// AssetCodes holds the gross-value and cumulative-depreciation accounts of
// one fixed-asset nature.
type AssetCodes struct {
	Asset        string `yaml:"asset"`
	Depreciation string `yaml:"depreciation"`
}

// Asset natures of the default chart.
const (
	NatureSoftware  = "software"
	NatureHardware  = "hardware"
	NatureFurniture = "furniture"
)

// DefaultCodes returns the role codes matching DefaultChart.
func DefaultCodes() Codes {
	return Codes{
		Receivable:         "411",
		Cash:               "512",
		Revenue:            "706",
		TaxCollected:       "44571",
		TaxDeductible:      "44566",
		CommissionExpense:  "622",
		PayablePayees:      "467",
		ProcessorFees:      "627",
		DepreciationCharge: "6811",
		ShareCapital:       "101",
		RetainedEarnings:   "110",
		NetResult:          "120",
		FixedAssets: map[string]AssetCodes{
			NatureSoftware:  {Asset: "205", Depreciation: "2805"},
			NatureHardware:  {Asset: "2183", Depreciation: "28183"},
			NatureFurniture: {Asset: "2184", Depreciation: "28184"},
		},
	}
}

// All returns every code referenced by c.
func (c Codes) All() []string {
	codes := []string{
		c.Receivable, c.Cash, c.Revenue, c.TaxCollected, c.TaxDeductible,
		c.CommissionExpense, c.PayablePayees, c.ProcessorFees, c.DepreciationCharge,
		c.ShareCapital, c.RetainedEarnings, c.NetResult,
	}
	for _, a := range c.FixedAssets {
		codes = append(codes, a.Asset, a.Depreciation)
	}
	return codes
}

// DefaultChart returns the default chart of accounts for an entity type.
// Every entity type currently shares the platform chart.
func DefaultChart(entityType string) []model.Account {
	return platformChart()
}

func platformChart() []model.Account {
	return []model.Account{
		{Code: "101", Name: "Share capital", Type: model.AccountTypeEquity},
		{Code: "110", Name: "Retained earnings", Type: model.AccountTypeEquity, Description: "Result of prior periods"},
		{Code: "120", Name: "Net result of the period", Type: model.AccountTypeEquity},
		{Code: "205", Name: "Software", Type: model.AccountTypeAsset},
		{Code: "2183", Name: "IT equipment", Type: model.AccountTypeAsset},
		{Code: "2184", Name: "Furniture", Type: model.AccountTypeAsset},
		{Code: "2805", Name: "Software depreciation", Type: model.AccountTypeAsset, ParentCode: "205"},
		{Code: "28183", Name: "IT equipment depreciation", Type: model.AccountTypeAsset, ParentCode: "2183"},
		{Code: "28184", Name: "Furniture depreciation", Type: model.AccountTypeAsset, ParentCode: "2184"},
		{Code: "411", Name: "Customers", Type: model.AccountTypeAsset, Description: "Captured payments not yet paid out by the processor"},
		{Code: "44566", Name: "Deductible VAT", Type: model.AccountTypeAsset, Description: "VAT on commissions"},
		{Code: "44571", Name: "VAT collected", Type: model.AccountTypeLiability},
		{Code: "467", Name: "Creators", Type: model.AccountTypeLiability, Description: "Amounts owed to creators"},
		{Code: "512", Name: "Bank", Type: model.AccountTypeAsset},
		{Code: "622", Name: "Commissions", Type: model.AccountTypeExpense},
		{Code: "627", Name: "Payment processor fees", Type: model.AccountTypeExpense},
		{Code: "6811", Name: "Depreciation charge", Type: model.AccountTypeExpense},
		{Code: "706", Name: "Services revenue", Type: model.AccountTypeRevenue},
	}
}
