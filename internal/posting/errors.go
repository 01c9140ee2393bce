package posting

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/fiscal/internal/model"
)

// ErrPostingImbalance marks a posting whose debits and credits differ or
// that carries a non-positive line. It is fatal to one transaction only.
var ErrPostingImbalance = errors.New("posting imbalance")

// ErrNotCompleted is returned when postings are requested for a pending or
// failed transaction.
var ErrNotCompleted = errors.New("transaction not completed")

// ErrInvalidTransaction is returned for a transaction whose type or tax
// rate is outside the known sets.
var ErrInvalidTransaction = errors.New("invalid transaction")

// ImbalanceError carries the figures of a rejected posting.
type ImbalanceError struct {
	Piece  string
	Debit  model.Amount
	Credit model.Amount
	Reason string
}

func (e *ImbalanceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s in %s: %s", ErrPostingImbalance, e.Piece, e.Reason)
	}
	return fmt.Sprintf("%s in %s: debits %s != credits %s", ErrPostingImbalance, e.Piece, e.Debit, e.Credit)
}

func (e *ImbalanceError) Unwrap() error { return ErrPostingImbalance }

// Rejection records a transaction skipped during batch generation.
type Rejection struct {
	TransactionID string
	InvoiceNumber string
	Err           error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("transaction %s (%s): %v", r.TransactionID, r.InvoiceNumber, r.Err)
}
