package model

import (
	"fmt"
	"time"
)

// Period is a half-open interval [Start, End). Aggregators receive it
// explicitly instead of reading the wall clock.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Month returns the calendar month period in UTC.
func Month(year, month int) Period {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// FiscalYear returns the fiscal year starting in the given calendar year
// on startMonth/startDay.
func FiscalYear(year, startMonth, startDay int) Period {
	start := time.Date(year, time.Month(startMonth), startDay, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(1, 0, 0)}
}

// ParseYearStart parses a "MM-DD" fiscal year start.
func ParseYearStart(s string) (month, day int, err error) {
	if _, err := fmt.Sscanf(s, "%02d-%02d", &month, &day); err != nil {
		return 0, 0, fmt.Errorf("parsing fiscal year start %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 28 {
		return 0, 0, fmt.Errorf("fiscal year start %q out of range (day must be 1..28)", s)
	}
	return month, day, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}
