package model

import "time"

// Journal codes.
const (
	JournalSales    = "VE"
	JournalPurchase = "HA"
	JournalBank     = "BQ"
	JournalMisc     = "OD"
	JournalOpening  = "AN"
)

// Line is one side of a double-entry posting.
type Line struct {
	Account string
	Label   string
	Amount  Amount // always positive
}

// Posting is a balanced double-entry record tied to one transaction,
// commission, settlement or fixed-asset event.
type Posting struct {
	Journal       string
	Piece         string // "VE-2025-000123"
	Date          time.Time
	TransactionID string
	Debits        []Line
	Credits       []Line
}

// TotalDebit sums the debit lines.
func (p Posting) TotalDebit() Amount {
	return sumLines(p.Debits)
}

// TotalCredit sums the credit lines.
func (p Posting) TotalCredit() Amount {
	return sumLines(p.Credits)
}

// Balanced reports whether debits equal credits exactly.
func (p Posting) Balanced() bool {
	return p.TotalDebit() == p.TotalCredit()
}

func sumLines(lines []Line) Amount {
	var total Amount
	for _, l := range lines {
		total += l.Amount
	}
	return total
}
