package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fiscal/internal/vat"
)

func newVATCommand(opts *globalOptions) *cobra.Command {
	var year, month int
	var months bool

	cmd := &cobra.Command{
		Use:   "vat",
		Short: "Compute a monthly or annual VAT declaration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts)
			if err != nil {
				return err
			}
			txs, err := p.transactions(opts.format)
			if err != nil {
				return err
			}
			txs = p.annotate(txs)
			out := cmd.OutOrStdout()

			if month != 0 {
				d, err := vat.MonthlyDeclaration(txs, year, month)
				if err != nil {
					return err
				}
				return printDeclaration(out, d)
			}

			d, err := vat.AnnualDeclaration(txs, year, vat.WithParallelism(p.cfg.Report.Parallelism))
			if err != nil {
				return err
			}
			if months {
				for _, m := range d.Months {
					if err := printDeclaration(out, m); err != nil {
						return err
					}
					fmt.Fprintln(out)
				}
			}
			return printDeclaration(out, d)
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year")
	cmd.Flags().IntVar(&month, "month", 0, "month (1-12); the whole year when omitted")
	cmd.Flags().BoolVar(&months, "months", false, "also print the twelve monthly declarations")
	return cmd
}
