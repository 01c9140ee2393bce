package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/fiscal/internal/model"
)

// PlatformParser parses the platform's transaction export. Columns are
// matched by header name, so their order is free; amounts are in currency
// units with at most two decimals.
type PlatformParser struct{}

// Columns is the header written by WriteTransactions.
var Columns = []string{
	"id", "invoice_number", "fiscal_year", "date", "settled_on",
	"created_at", "updated_at", "type", "status",
	"payer_country", "payer_nature", "payer_tax_id",
	"payee_country", "payee_status", "payee_tax_id",
	"gross", "net", "tax", "tax_rate",
	"commission_net", "commission_tax", "commission_total",
	"processor_fee", "payee_net", "service_country",
}

var requiredColumns = []string{"id", "invoice_number", "date", "type", "status", "gross", "net", "tax", "tax_rate"}

// Format returns the parser name.
func (p *PlatformParser) Format() string { return "platform" }

// Parse reads a platform CSV and returns its transactions.
func (p *PlatformParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading platform CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("platform CSV: missing column %q", c)
		}
	}

	var txs []model.Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading platform CSV: %w", err)
		}
		tx, err := parseRow(row{cols: cols, rec: rec})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

type row struct {
	cols map[string]int
	rec  []string
}

func (r row) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) amount(col string, dst *model.Amount) error {
	s := r.get(col)
	if s == "" {
		return nil
	}
	a, err := model.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("%s: %w", col, err)
	}
	*dst = a
	return nil
}

func (r row) time(col string, dst *time.Time) error {
	s := r.get(col)
	if s == "" {
		return nil
	}
	t, err := parseTime(s)
	if err != nil {
		return fmt.Errorf("%s: %w", col, err)
	}
	*dst = t
	return nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}

func parseRow(r row) (model.Transaction, error) {
	tx := model.Transaction{
		ID:            r.get("id"),
		InvoiceNumber: r.get("invoice_number"),
		Payer: model.Payer{
			Country: strings.ToUpper(r.get("payer_country")),
			Nature:  model.LegalNature(r.get("payer_nature")),
			TaxID:   r.get("payer_tax_id"),
		},
		Payee: model.Payee{
			Country: strings.ToUpper(r.get("payee_country")),
			Status:  model.FiscalStatus(r.get("payee_status")),
			TaxID:   r.get("payee_tax_id"),
		},
		ServiceCountry: strings.ToUpper(r.get("service_country")),
	}
	if tx.Payer.Nature == "" {
		tx.Payer.Nature = model.NatureIndividual
	}
	if tx.Payee.Status == "" {
		tx.Payee.Status = model.FiscalVATExempt
	}

	var err error
	if tx.Type, err = model.ParseTransactionType(r.get("type")); err != nil {
		return tx, err
	}
	if tx.Status, err = model.ParseTransactionStatus(r.get("status")); err != nil {
		return tx, err
	}
	if tx.TaxRate, err = model.ParseTaxRate(r.get("tax_rate")); err != nil {
		return tx, err
	}

	if err := r.time("date", &tx.Date); err != nil {
		return tx, err
	}
	if tx.Date.IsZero() {
		return tx, fmt.Errorf("date is required")
	}
	if s := r.get("settled_on"); s != "" {
		settled, err := parseTime(s)
		if err != nil {
			return tx, fmt.Errorf("settled_on: %w", err)
		}
		tx.SettledOn = &settled
	}
	for col, dst := range map[string]*time.Time{"created_at": &tx.CreatedAt, "updated_at": &tx.UpdatedAt} {
		if err := r.time(col, dst); err != nil {
			return tx, err
		}
	}

	tx.FiscalYear = tx.Date.Year()
	if s := r.get("fiscal_year"); s != "" {
		if tx.FiscalYear, err = strconv.Atoi(s); err != nil {
			return tx, fmt.Errorf("fiscal_year: %w", err)
		}
	}

	for col, dst := range map[string]*model.Amount{
		"gross":            &tx.Gross,
		"net":              &tx.Net,
		"tax":              &tx.Tax,
		"commission_net":   &tx.Commission.Net,
		"commission_tax":   &tx.Commission.Tax,
		"commission_total": &tx.Commission.Total,
		"processor_fee":    &tx.ProcessorFee,
		"payee_net":        &tx.PayeeNet,
	} {
		if err := r.amount(col, dst); err != nil {
			return tx, err
		}
	}
	return tx, nil
}

// WriteTransactions writes txs in the platform format.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, tx := range txs {
		if err := cw.Write(marshalRow(tx)); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func marshalRow(tx model.Transaction) []string {
	settled := ""
	if tx.SettledOn != nil {
		settled = formatTime(*tx.SettledOn)
	}
	return []string{
		tx.ID, tx.InvoiceNumber, strconv.Itoa(tx.FiscalYear), formatTime(tx.Date), settled,
		formatTime(tx.CreatedAt), formatTime(tx.UpdatedAt), string(tx.Type), string(tx.Status),
		tx.Payer.Country, string(tx.Payer.Nature), tx.Payer.TaxID,
		tx.Payee.Country, string(tx.Payee.Status), tx.Payee.TaxID,
		tx.Gross.String(), tx.Net.String(), tx.Tax.String(), tx.TaxRate.String(),
		tx.Commission.Net.String(), tx.Commission.Tax.String(), tx.Commission.Total.String(),
		tx.ProcessorFee.String(), tx.PayeeNet.String(), tx.ServiceCountry,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
