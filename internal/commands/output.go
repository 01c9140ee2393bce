package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/journal"
	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/ratios"
	"github.com/cleared-dev/fiscal/internal/report"
	"github.com/cleared-dev/fiscal/internal/vat"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
}

func printReport(w io.Writer, r *report.Report, chart *accounts.Service) error {
	b, inc := r.Balance, r.Income
	fmt.Fprintf(w, "Fiscal year %s\n\n", r.Period)

	tw := newTable(w)
	fmt.Fprintln(tw, "BALANCE SHEET\t\t")
	rows := []struct {
		label  string
		amount model.Amount
	}{
		{"Fixed assets (gross)", b.FixedAssetsGross},
		{"Cumulative depreciation", -b.CumulativeDepreciation},
		{"Receivables", b.Receivables},
		{"Deductible VAT", b.TaxReceivable},
		{"Other receivables", b.OtherReceivables},
		{"Cash", b.Cash},
		{"Total assets", b.TotalAssets},
		{"Share capital", b.ShareCapital},
		{"Retained earnings", b.RetainedEarnings},
		{"Other equity", b.OtherEquity},
		{"Net result", b.NetResultOfPeriod},
		{"VAT payable", b.TaxPayable},
		{"Payable to creators", b.PayablePayees},
		{"Other liabilities", b.OtherLiabilities},
		{"Total liabilities and equity", b.TotalLiabilitiesAndEquity},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", row.label, row.amount)
	}

	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "INCOME STATEMENT\t\t")
	for _, l := range inc.Lines {
		fmt.Fprintf(tw, "%s %s\t%s\t\n", l.Account, chart.Name(l.Account), l.Amount)
	}
	fmt.Fprintf(tw, "Operating result\t%s\t\n", inc.OperatingResult)
	fmt.Fprintf(tw, "Depreciation\t%s\t\n", -inc.DepreciationCharge)
	fmt.Fprintf(tw, "Net result\t%s\t\n", inc.NetResult)

	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "RATIOS\t\t")
	rr := r.Ratios
	for _, row := range []struct {
		label string
		value string
	}{
		{"Current ratio", ratios.Format(rr.CurrentRatio)},
		{"Quick ratio", ratios.Format(rr.QuickRatio)},
		{"Equity ratio", ratios.Format(rr.EquityRatio)},
		{"Debt repayment (years)", ratios.Format(rr.DebtRepaymentYears)},
		{"Return on equity", ratios.Format(rr.ReturnOnEquity)},
		{"Return on assets", ratios.Format(rr.ReturnOnAssets)},
		{"Net margin", ratios.Format(rr.NetMargin)},
	} {
		fmt.Fprintf(tw, "%s\t%s\t\n", row.label, row.value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if err := printDeclaration(w, r.VAT); err != nil {
		return err
	}
	if len(r.Rejected) > 0 {
		fmt.Fprintf(w, "\n%d transactions rejected:\n", len(r.Rejected))
		for _, rej := range r.Rejected {
			fmt.Fprintf(w, "  %s\n", rej.Error())
		}
	}
	return nil
}

func printDeclaration(w io.Writer, d vat.Declaration) error {
	fmt.Fprintf(w, "VAT %s\n", d.Period)
	tw := newTable(w)
	fmt.Fprintln(tw, "Rate\tBase\tTax\t")
	for _, r := range model.TaxRates {
		b := d.Bucket(r)
		fmt.Fprintf(tw, "%s%%\t%s\t%s\t\n", r, b.Base, b.Tax)
	}
	fmt.Fprintf(tw, "Collected\t\t%s\t\n", d.TaxCollected)
	fmt.Fprintf(tw, "Deductible\t\t%s\t\n", d.Deductible)
	fmt.Fprintf(tw, "Net due\t\t%s\t\n", d.NetDue)
	fmt.Fprintf(tw, "Credit carried forward\t\t%s\t\n", d.CreditCarriedForward)
	return tw.Flush()
}

func printJournal(w io.Writer, postings []model.Posting, chart *accounts.Service) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Line\tDate\tAccount\tLabel\tDebit\tCredit\t")
	var debit, credit model.Amount
	for _, p := range postings {
		for _, r := range journal.Flatten(p) {
			fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\t\n",
				r.LineID, r.Date.Format(time.DateOnly), r.Account, chart.Name(r.Account), r.Label,
				blankZero(r.Debit), blankZero(r.Credit))
			debit += r.Debit
			credit += r.Credit
		}
	}
	fmt.Fprintf(tw, "Total\t\t\t\t%s\t%s\t\n", debit, credit)
	return tw.Flush()
}

func blankZero(a model.Amount) string {
	if a == 0 {
		return ""
	}
	return a.String()
}
