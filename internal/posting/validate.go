package posting

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/fiscal/internal/id"
	"github.com/cleared-dev/fiscal/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Piece       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Piece, e.Description)
}

// AccountChecker tests whether an account code exists in the chart of accounts.
type AccountChecker interface {
	Exists(code string) bool
}

// Validate enforces 5 invariants on a posting.
func Validate(p model.Posting, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	// Invariant 1: sum(debits) == sum(credits), exactly.
	if !p.Balanced() {
		errs = append(errs, ValidationError{
			Invariant:   1,
			Piece:       p.Piece,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", p.TotalDebit(), p.TotalCredit()),
		})
	}

	// Invariant 2: both sides present.
	if len(p.Debits) == 0 || len(p.Credits) == 0 {
		errs = append(errs, ValidationError{
			Invariant:   2,
			Piece:       p.Piece,
			Description: "posting must have at least one debit and one credit line",
		})
	}

	for _, l := range append(append([]model.Line{}, p.Debits...), p.Credits...) {
		// Invariant 3: positive amounts.
		if l.Amount <= 0 {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Piece:       p.Piece,
				Description: fmt.Sprintf("line on %s has non-positive amount %s", l.Account, l.Amount),
			})
		}

		// Invariant 4: valid account references.
		if !accounts.Exists(l.Account) {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Piece:       p.Piece,
				Description: fmt.Sprintf("unknown account %s", l.Account),
			})
		}
	}

	// Invariant 5: piece number is {journal}-{invoice number}.
	invoice, found := strings.CutPrefix(p.Piece, p.Journal+"-")
	if !found {
		errs = append(errs, ValidationError{
			Invariant:   5,
			Piece:       p.Piece,
			Description: fmt.Sprintf("piece does not start with journal %s", p.Journal),
		})
	} else if _, _, err := id.ParseInvoiceNumber(invoice); err != nil {
		errs = append(errs, ValidationError{
			Invariant:   5,
			Piece:       p.Piece,
			Description: err.Error(),
		})
	}

	return errs
}

// ValidateAll validates every posting and flags duplicate piece numbers.
func ValidateAll(postings []model.Posting, accounts AccountChecker) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(postings))
	for _, p := range postings {
		errs = append(errs, Validate(p, accounts)...)
		if seen[p.Piece] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				Piece:       p.Piece,
				Description: "duplicate piece number",
			})
		}
		seen[p.Piece] = true
	}
	return errs
}
