package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Account represents a row in chart-of-accounts.csv. Codes follow the
// French plan comptable général: the first digit is the account class.
type Account struct {
	Code        string
	Name        string
	Type        AccountType
	ParentCode  string // "" = top-level
	Description string
}

// Class returns the account class digit ('1'..'7'), or 0 for an empty code.
func Class(code string) byte {
	if code == "" {
		return 0
	}
	return code[0]
}
