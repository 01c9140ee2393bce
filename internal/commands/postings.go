package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fiscal/internal/gitops"
	"github.com/cleared-dev/fiscal/internal/journal"
)

func newPostingsCommand(opts *globalOptions) *cobra.Command {
	var year int
	var show bool

	cmd := &cobra.Command{
		Use:   "postings",
		Short: "Generate the postings of a fiscal year into the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts)
			if err != nil {
				return err
			}
			store := journal.NewStore(p.root, p.chart)
			if show {
				postings, err := store.ReadPeriod(p.engine.FiscalPeriod(year))
				if err != nil {
					return err
				}
				return printJournal(cmd.OutOrStdout(), postings, p.chart)
			}

			txs, err := p.transactions(opts.format)
			if err != nil {
				return err
			}

			postings, rejected, err := p.engine.Ledger(txs, p.schedule, year)
			if err != nil {
				return err
			}
			res, err := store.Append(postings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d postings written, %d already in the journal\n", res.Written, res.Skipped)
			for _, r := range rejected {
				fmt.Fprintf(out, "rejected: %s\n", r.Error())
			}

			if res.Written == 0 || !gitops.IsRepo(p.root) {
				return nil
			}
			author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
			msg := fmt.Sprintf("postings: fiscal year %d (%d postings)", year, res.Written)
			hash, err := gitops.Commit(p.root, msg, author, "journal")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "committed %s\n", hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "fiscal year (start year)")
	cmd.Flags().BoolVar(&show, "show", false, "print the journal of the fiscal year instead of generating it")
	return cmd
}
