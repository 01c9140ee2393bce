package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fiscal/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "fiscal",
		Short:   "Fiscal coherence engine for platform transactions",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.repo, "repo", ".", "project directory")
	pf.StringVar(&opts.format, "import-format", "platform", "transaction CSV format")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (overrides fiscal.yaml)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: console or json (overrides fiscal.yaml)")

	rootCmd.AddCommand(
		newInitCommand(),
		newPostingsCommand(opts),
		newReportCommand(opts),
		newVATCommand(opts),
		newTaxRuleCommand(),
		newSynthCommand(opts),
	)

	return rootCmd
}
