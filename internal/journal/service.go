package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/posting"
)

// Store persists generated postings under <repoRoot>/journal/YYYY/MM/journal.csv,
// partitioned by posting date.
type Store struct {
	repoRoot string
	accounts posting.AccountChecker
}

// NewStore creates a journal Store.
func NewStore(repoRoot string, accounts posting.AccountChecker) *Store {
	return &Store{repoRoot: repoRoot, accounts: accounts}
}

// AppendResult counts what Append did.
type AppendResult struct {
	Written int // postings appended
	Skipped int // postings whose piece was already in the journal
}

// Append validates postings and appends those not yet in their month's
// journal. Nothing is written if any posting is invalid.
func (s *Store) Append(postings []model.Posting) (AppendResult, error) {
	if verrs := posting.ValidateAll(postings, s.accounts); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return AppendResult{}, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	byMonth := make(map[string][]model.Posting)
	for _, p := range postings {
		key := p.Date.Format("2006-01")
		byMonth[key] = append(byMonth[key], p)
	}
	months := make([]string, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	sort.Strings(months)

	var res AppendResult
	for _, k := range months {
		group := byMonth[k]
		year, month := group[0].Date.Year(), int(group[0].Date.Month())

		existing, err := s.ReadMonth(year, month)
		if err != nil {
			return res, err
		}
		seen := make(map[string]bool, len(existing))
		for _, p := range existing {
			seen[p.Piece] = true
		}

		var rows []Row
		for _, p := range group {
			if seen[p.Piece] {
				res.Skipped++
				continue
			}
			seen[p.Piece] = true
			rows = append(rows, Flatten(p)...)
			res.Written++
		}
		if len(rows) == 0 {
			continue
		}
		if err := s.appendMonth(year, month, rows); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Store) appendMonth(year, month int, rows []Row) error {
	journalPath := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(journalPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendRows(f, rows); err != nil {
		return fmt.Errorf("appending rows: %w", err)
	}
	return nil
}

// ReadMonth reads the postings of a given year/month.
func (s *Store) ReadMonth(year, month int) ([]model.Posting, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return Assemble(rows), nil
}

// ReadPeriod reads the postings of every month overlapping period.
func (s *Store) ReadPeriod(period model.Period) ([]model.Posting, error) {
	var postings []model.Posting
	for m := time.Date(period.Start.Year(), period.Start.Month(), 1, 0, 0, 0, 0, time.UTC); m.Before(period.End); m = m.AddDate(0, 1, 0) {
		month, err := s.ReadMonth(m.Year(), int(m.Month()))
		if err != nil {
			return nil, err
		}
		for _, p := range month {
			if period.Contains(p.Date) {
				postings = append(postings, p)
			}
		}
	}
	return postings, nil
}

func (s *Store) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, "journal", fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
