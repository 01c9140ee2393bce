package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/fiscal/internal/id"
	"github.com/cleared-dev/fiscal/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "line_id,journal,date,transaction_id,account_code,label,debit,credit"

const (
	numFields  = 8
	dateFormat = "2006-01-02"
	colLineID  = 0
	colJournal = 1
	colDate    = 2
	colTxID    = 3
	colAccount = 4
	colLabel   = 5
	colDebit   = 6
	colCredit  = 7
)

// Row is one posting line as stored in journal.csv. Exactly one of Debit
// and Credit is set.
type Row struct {
	LineID        string
	Journal       string
	Date          time.Time
	TransactionID string
	Account       string
	Label         string
	Debit         model.Amount
	Credit        model.Amount
}

// Flatten returns the rows of p, debits first, with line IDs {piece}a, {piece}b...
func Flatten(p model.Posting) []Row {
	rows := make([]Row, 0, len(p.Debits)+len(p.Credits))
	add := func(l model.Line, debit bool) {
		r := Row{
			LineID:        id.FormatLineID(p.Piece, len(rows)),
			Journal:       p.Journal,
			Date:          p.Date,
			TransactionID: p.TransactionID,
			Account:       l.Account,
			Label:         l.Label,
		}
		if debit {
			r.Debit = l.Amount
		} else {
			r.Credit = l.Amount
		}
		rows = append(rows, r)
	}
	for _, l := range p.Debits {
		add(l, true)
	}
	for _, l := range p.Credits {
		add(l, false)
	}
	return rows
}

// Assemble groups rows back into postings by piece, in order of first
// appearance.
func Assemble(rows []Row) []model.Posting {
	var postings []model.Posting
	index := make(map[string]int)
	for _, r := range rows {
		piece := id.PieceOf(r.LineID)
		i, ok := index[piece]
		if !ok {
			i = len(postings)
			index[piece] = i
			postings = append(postings, model.Posting{
				Journal:       r.Journal,
				Piece:         piece,
				Date:          r.Date,
				TransactionID: r.TransactionID,
			})
		}
		p := &postings[i]
		if r.Debit != 0 {
			p.Debits = append(p.Debits, model.Line{Account: r.Account, Label: r.Label, Amount: r.Debit})
		} else {
			p.Credits = append(p.Credits, model.Line{Account: r.Account, Label: r.Label, Amount: r.Credit})
		}
	}
	return postings
}

// ReadRows reads all rows from a journal.csv reader.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows writes rows to a journal.csv writer (including header).
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendRows appends rows to an existing journal.csv writer (no header).
func AppendRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(r Row) []string {
	rec := make([]string, numFields)
	rec[colLineID] = r.LineID
	rec[colJournal] = r.Journal
	rec[colDate] = r.Date.Format(dateFormat)
	rec[colTxID] = r.TransactionID
	rec[colAccount] = r.Account
	rec[colLabel] = r.Label
	if r.Debit != 0 {
		rec[colDebit] = r.Debit.String()
	}
	if r.Credit != 0 {
		rec[colCredit] = r.Credit.String()
	}
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	var debit, credit model.Amount
	if record[colDebit] != "" {
		if debit, err = model.ParseAmount(record[colDebit]); err != nil {
			return Row{}, fmt.Errorf("debit: %w", err)
		}
	}
	if record[colCredit] != "" {
		if credit, err = model.ParseAmount(record[colCredit]); err != nil {
			return Row{}, fmt.Errorf("credit: %w", err)
		}
	}
	if (debit == 0) == (credit == 0) {
		return Row{}, fmt.Errorf("line %s: exactly one of debit and credit must be set", record[colLineID])
	}

	return Row{
		LineID:        record[colLineID],
		Journal:       record[colJournal],
		Date:          date,
		TransactionID: record[colTxID],
		Account:       record[colAccount],
		Label:         record[colLabel],
		Debit:         debit,
		Credit:        credit,
	}, nil
}
