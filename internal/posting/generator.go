package posting

import (
	"fmt"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/id"
	"github.com/cleared-dev/fiscal/internal/model"
)

// Generator turns completed transactions into double-entry postings.
type Generator struct {
	codes accounts.Codes
}

// NewGenerator creates a Generator booking onto the given account codes.
func NewGenerator(codes accounts.Codes) *Generator {
	return &Generator{codes: codes}
}

// Generate returns the postings of a completed transaction: the sale and,
// when a commission applies, the commission posting; a reversal for a
// refund; a payout for a withdrawal. A transaction whose amounts are all
// zero yields none; any other that cannot balance is an *ImbalanceError.
func (g *Generator) Generate(tx model.Transaction) ([]model.Posting, error) {
	if !tx.Completed() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotCompleted, tx.ID, tx.Status)
	}
	if !tx.Type.Valid() {
		return nil, fmt.Errorf("%w: %s has unknown type %q", ErrInvalidTransaction, tx.ID, string(tx.Type))
	}
	if !tx.TaxRate.Valid() {
		return nil, fmt.Errorf("%w: %s has unsupported tax rate %d", ErrInvalidTransaction, tx.ID, int(tx.TaxRate))
	}
	if tx.Gross == 0 && tx.Net == 0 && tx.Tax == 0 && tx.Commission.IsZero() {
		return nil, nil
	}

	var postings []model.Posting
	switch tx.Type.Kind() {
	case model.KindSale:
		sale, err := checked(g.sale(tx))
		if err != nil {
			return nil, err
		}
		postings = append(postings, sale)
		if !tx.Commission.IsZero() {
			commission, err := checked(g.commission(tx))
			if err != nil {
				return nil, err
			}
			postings = append(postings, commission)
		}
	case model.KindRefund:
		refund, err := checked(g.refund(tx))
		if err != nil {
			return nil, err
		}
		postings = append(postings, refund)
	case model.KindWithdrawal:
		payout, err := checked(g.withdrawal(tx))
		if err != nil {
			return nil, err
		}
		postings = append(postings, payout)
	}
	return postings, nil
}

// Settlement returns the bank posting recording the processor payout of a
// settled sale or refund. ok is false when nothing is to be settled.
func (g *Generator) Settlement(tx model.Transaction) (p model.Posting, ok bool, err error) {
	if !tx.Completed() || tx.SettledOn == nil || tx.Gross == 0 || !tx.Type.Valid() {
		return model.Posting{}, false, nil
	}
	p = model.Posting{
		Journal:       model.JournalBank,
		Piece:         id.PieceNumber(model.JournalBank, tx.InvoiceNumber),
		Date:          *tx.SettledOn,
		TransactionID: tx.ID,
	}
	switch tx.Type.Kind() {
	case model.KindSale:
		p.Debits = lines(
			model.Line{Account: g.codes.Cash, Label: "Processor payout", Amount: tx.Gross - tx.ProcessorFee},
			model.Line{Account: g.codes.ProcessorFees, Label: "Processor fee", Amount: tx.ProcessorFee},
		)
		p.Credits = lines(model.Line{Account: g.codes.Receivable, Label: "Customer settlement", Amount: tx.Gross})
	case model.KindRefund:
		p.Debits = lines(model.Line{Account: g.codes.Receivable, Label: "Refund settlement", Amount: tx.Gross})
		p.Credits = lines(model.Line{Account: g.codes.Cash, Label: "Refund paid", Amount: tx.Gross})
	case model.KindWithdrawal:
		return model.Posting{}, false, nil
	}
	p, err = checked(p)
	if err != nil {
		return model.Posting{}, false, err
	}
	return p, true, nil
}

func (g *Generator) sale(tx model.Transaction) model.Posting {
	label := saleLabel(tx)
	return model.Posting{
		Journal:       model.JournalSales,
		Piece:         id.PieceNumber(model.JournalSales, tx.InvoiceNumber),
		Date:          tx.Date,
		TransactionID: tx.ID,
		Debits:        []model.Line{{Account: g.codes.Receivable, Label: label, Amount: tx.Gross}},
		Credits: lines(
			model.Line{Account: g.codes.Revenue, Label: label, Amount: tx.Net},
			model.Line{Account: g.codes.TaxCollected, Label: "VAT " + tx.TaxRate.String() + "%", Amount: tx.Tax},
		),
	}
}

func (g *Generator) commission(tx model.Transaction) model.Posting {
	c := tx.Commission
	p := model.Posting{
		Journal:       model.JournalPurchase,
		Piece:         id.PieceNumber(model.JournalPurchase, tx.InvoiceNumber),
		Date:          tx.Date,
		TransactionID: tx.ID,
		Credits:       []model.Line{{Account: g.codes.PayablePayees, Label: "Commission " + tx.InvoiceNumber, Amount: c.Total}},
	}
	if tx.CommissionDeductible() {
		p.Debits = lines(
			model.Line{Account: g.codes.CommissionExpense, Label: "Commission", Amount: c.Net},
			model.Line{Account: g.codes.TaxDeductible, Label: "Deductible VAT", Amount: c.Tax},
		)
	} else {
		p.Debits = []model.Line{{Account: g.codes.CommissionExpense, Label: "Commission incl. VAT", Amount: c.Net + c.Tax}}
	}
	return p
}

func (g *Generator) refund(tx model.Transaction) model.Posting {
	label := "Refund " + tx.InvoiceNumber
	return model.Posting{
		Journal:       model.JournalSales,
		Piece:         id.PieceNumber(model.JournalSales, tx.InvoiceNumber),
		Date:          tx.Date,
		TransactionID: tx.ID,
		Debits: lines(
			model.Line{Account: g.codes.Revenue, Label: label, Amount: tx.Net},
			model.Line{Account: g.codes.TaxCollected, Label: "VAT reversal", Amount: tx.Tax},
		),
		Credits: []model.Line{{Account: g.codes.Receivable, Label: label, Amount: tx.Gross}},
	}
}

func (g *Generator) withdrawal(tx model.Transaction) model.Posting {
	return model.Posting{
		Journal:       model.JournalBank,
		Piece:         id.PieceNumber(model.JournalBank, tx.InvoiceNumber),
		Date:          tx.Date,
		TransactionID: tx.ID,
		Debits:        []model.Line{{Account: g.codes.PayablePayees, Label: "Creator withdrawal", Amount: tx.Gross}},
		Credits:       []model.Line{{Account: g.codes.Cash, Label: "Creator withdrawal", Amount: tx.Gross}},
	}
}

func saleLabel(tx model.Transaction) string {
	return fmt.Sprintf("%s %s", tx.Type, tx.InvoiceNumber)
}

// lines drops zero-amount lines; negative ones are kept so checked rejects them.
func lines(in ...model.Line) []model.Line {
	out := make([]model.Line, 0, len(in))
	for _, l := range in {
		if l.Amount != 0 {
			out = append(out, l)
		}
	}
	return out
}

// checked enforces debit == credit and positive lines.
func checked(p model.Posting) (model.Posting, error) {
	for _, l := range append(append([]model.Line{}, p.Debits...), p.Credits...) {
		if l.Amount <= 0 {
			return model.Posting{}, &ImbalanceError{
				Piece:  p.Piece,
				Debit:  p.TotalDebit(),
				Credit: p.TotalCredit(),
				Reason: fmt.Sprintf("line on %s has non-positive amount %s", l.Account, l.Amount),
			}
		}
	}
	if len(p.Debits) == 0 || len(p.Credits) == 0 {
		return model.Posting{}, &ImbalanceError{
			Piece:  p.Piece,
			Debit:  p.TotalDebit(),
			Credit: p.TotalCredit(),
			Reason: "posting has an empty side",
		}
	}
	if !p.Balanced() {
		return model.Posting{}, &ImbalanceError{Piece: p.Piece, Debit: p.TotalDebit(), Credit: p.TotalCredit()}
	}
	return p, nil
}
