package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fiscal/internal/importer"
	"github.com/cleared-dev/fiscal/internal/synth"
)

func newSynthCommand(opts *globalOptions) *cobra.Command {
	var so synth.Options
	var outPath string

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a deterministic synthetic transaction CSV into import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts)
			if err != nil {
				return err
			}
			g, err := synth.New(p.engine.Jurisdiction(), so)
			if err != nil {
				return err
			}
			txs := g.Transactions()

			if outPath == "" {
				outPath = filepath.Join(p.root, "import", fmt.Sprintf("synthetic-%d.csv", so.Year))
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()
			if err := importer.WriteTransactions(f, txs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s\n", len(txs), outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&so.Year, "year", time.Now().Year(), "year of the transactions")
	cmd.Flags().IntVar(&so.PerMonth, "per-month", 10, "transactions per month")
	cmd.Flags().Int64Var(&so.Seed, "seed", 1, "random seed")
	cmd.Flags().Int64Var(&so.CommissionPercent, "commission", 20, "platform commission percent")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default import/synthetic-<year>.csv)")
	return cmd
}
