// Package runlog records each report generation in a CSV log.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/fiscal/internal/model"
)

// Outcome is the result of a run.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeIncoherent Outcome = "incoherent"
	OutcomeError      Outcome = "error"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	Command      string
	FiscalYear   int
	Transactions int
	Rejected     int
	Outcome      Outcome
	NetResult    model.Amount
	VATDue       model.Amount
	Details      string
}

// Header is the CSV header for report-log.csv.
const Header = "timestamp,command,fiscal_year,transactions,rejected,outcome,net_result,vat_due,details"

const (
	numFields       = 9
	logDir          = "logs"
	logFile         = "logs/report-log.csv"
	colTimestamp    = 0
	colCommand      = 1
	colFiscalYear   = 2
	colTransactions = 3
	colRejected     = 4
	colOutcome      = 5
	colNetResult    = 6
	colVATDue       = 7
	colDetails      = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colFiscalYear] = strconv.Itoa(e.FiscalYear)
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colOutcome] = string(e.Outcome)
	row[colNetResult] = e.NetResult.String()
	row[colVATDue] = e.VATDue.String()
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	e := Entry{
		Timestamp: ts,
		Command:   record[colCommand],
		Outcome:   Outcome(record[colOutcome]),
		Details:   record[colDetails],
	}
	for _, f := range []struct {
		col int
		dst *int
	}{
		{colFiscalYear, &e.FiscalYear},
		{colTransactions, &e.Transactions},
		{colRejected, &e.Rejected},
	} {
		if *f.dst, err = strconv.Atoi(record[f.col]); err != nil {
			return Entry{}, fmt.Errorf("parsing %q: %w", record[f.col], err)
		}
	}
	if e.NetResult, err = model.ParseAmount(record[colNetResult]); err != nil {
		return Entry{}, err
	}
	if e.VATDue, err = model.ParseAmount(record[colVATDue]); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Append writes entries to <repoRoot>/logs/report-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/report-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
