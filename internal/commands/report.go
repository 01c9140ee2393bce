package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fiscal/internal/runlog"
	"github.com/cleared-dev/fiscal/internal/statements"
)

func newReportCommand(opts *globalOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the statements, ratios and VAT of a fiscal year",
		Long: "Compute the balance sheet, income statement, ratios and annual VAT\n" +
			"declaration of a fiscal year. Fails when the statements are incoherent.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts)
			if err != nil {
				return err
			}
			txs, err := p.transactions(opts.format)
			if err != nil {
				return err
			}

			entry := runlog.Entry{
				Timestamp:    time.Now().UTC().Truncate(time.Second),
				Command:      "report",
				FiscalYear:   year,
				Transactions: len(txs),
			}
			r, genErr := p.engine.Generate(txs, p.schedule, year)
			switch {
			case genErr == nil:
				entry.Outcome = runlog.OutcomeOK
				entry.Rejected = len(r.Rejected)
				entry.NetResult = r.Income.NetResult
				entry.VATDue = r.VAT.NetDue
			case errors.Is(genErr, statements.ErrFiscalIncoherence):
				entry.Outcome = runlog.OutcomeIncoherent
				entry.Details = genErr.Error()
			default:
				entry.Outcome = runlog.OutcomeError
				entry.Details = genErr.Error()
			}
			if err := runlog.Append(p.root, []runlog.Entry{entry}); err != nil {
				p.log.Warn().Err(err).Msg("writing run log")
			}

			if genErr != nil {
				return fmt.Errorf("no report for %d: %w", year, genErr)
			}
			return printReport(cmd.OutOrStdout(), r, p.chart)
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "fiscal year (start year)")
	return cmd
}
