package posting

import (
	"time"

	"github.com/cleared-dev/fiscal/internal/model"
)

// Batch is the outcome of generating postings for a transaction set.
type Batch struct {
	Postings  []model.Posting
	Rejected  []Rejection
	Processed int // transactions that produced their postings
}

// GenerateBatch generates the postings of every completed transaction dated
// before end, plus its settlement when paid out before end. A transaction
// whose postings fail is skipped as a whole and reported in Rejected.
func (g *Generator) GenerateBatch(txs []model.Transaction, end time.Time) Batch {
	var b Batch
	for _, tx := range txs {
		if !tx.Completed() || !tx.Date.Before(end) {
			continue
		}
		postings, err := g.Generate(tx)
		if err != nil {
			b.Rejected = append(b.Rejected, reject(tx, err))
			continue
		}
		if tx.SettledBy(end) {
			settlement, ok, err := g.Settlement(tx)
			if err != nil {
				b.Rejected = append(b.Rejected, reject(tx, err))
				continue
			}
			if ok {
				postings = append(postings, settlement)
			}
		}
		b.Postings = append(b.Postings, postings...)
		b.Processed++
	}
	return b
}

func reject(tx model.Transaction, err error) Rejection {
	return Rejection{TransactionID: tx.ID, InvoiceNumber: tx.InvoiceNumber, Err: err}
}
