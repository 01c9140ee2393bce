package depreciation

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fiscal/internal/model"
)

// Header is the CSV header of an asset registry export.
var Header = []string{"asset_id", "nature", "label", "acquired_on", "gross_value", "rate", "dotation"}

const (
	numFields   = 7
	dateFormat  = "2006-01-02"
	colID       = 0
	colNature   = 1
	colLabel    = 2
	colAcquired = 3
	colGross    = 4
	colRate     = 5
	colDotation = 6
)

// ReadSchedule reads an asset registry CSV.
func ReadSchedule(r io.Reader) (Schedule, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading asset CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var s Schedule
	for i, rec := range records[1:] {
		a, err := unmarshalAsset(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		s = append(s, a)
	}
	return s, nil
}

// WriteSchedule writes an asset registry CSV, header included.
func WriteSchedule(w io.Writer, s Schedule) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range s {
		row := make([]string, numFields)
		row[colID] = a.ID
		row[colNature] = a.Nature
		row[colLabel] = a.Label
		row[colAcquired] = a.AcquiredOn.Format(dateFormat)
		row[colGross] = a.GrossValue.String()
		row[colRate] = a.Rate.String()
		if a.Dotation != 0 {
			row[colDotation] = a.Dotation.String()
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func unmarshalAsset(rec []string) (Asset, error) {
	acquired, err := time.Parse(dateFormat, rec[colAcquired])
	if err != nil {
		return Asset{}, fmt.Errorf("parsing acquired_on %q: %w", rec[colAcquired], err)
	}
	gross, err := model.ParseAmount(rec[colGross])
	if err != nil {
		return Asset{}, fmt.Errorf("parsing gross_value: %w", err)
	}
	rate, err := decimal.NewFromString(rec[colRate])
	if err != nil {
		return Asset{}, fmt.Errorf("parsing rate %q: %w", rec[colRate], err)
	}
	var dotation model.Amount
	if rec[colDotation] != "" {
		dotation, err = model.ParseAmount(rec[colDotation])
		if err != nil {
			return Asset{}, fmt.Errorf("parsing dotation: %w", err)
		}
	}
	if rate.IsZero() && dotation == 0 {
		return Asset{}, fmt.Errorf("asset %s has neither rate nor dotation", rec[colID])
	}
	return Asset{
		ID:         rec[colID],
		Nature:     rec[colNature],
		Label:      rec[colLabel],
		AcquiredOn: acquired,
		GrossValue: gross,
		Rate:       rate,
		Dotation:   dotation,
	}, nil
}
