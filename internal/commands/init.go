package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/config"
	"github.com/cleared-dev/fiscal/internal/depreciation"
	"github.com/cleared-dev/fiscal/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fiscal project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, name, entityType, git); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fiscal project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "sas", "entity type")
	cmd.Flags().BoolVar(&git, "git", false, "keep the project in a git repository")

	return cmd
}

func runInit(dir, name, entityType string, git bool) error {
	// Create directory structure.
	dirs := []string{
		"accounts",
		"assets",
		"journal",
		"logs",
		"exports",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write fiscal.yaml.
	cfg := config.Default(name, entityType)
	if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart(entityType))
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write an empty depreciation schedule.
	var schedule strings.Builder
	if err := depreciation.WriteSchedule(&schedule, nil); err != nil {
		return fmt.Errorf("writing depreciation schedule: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, scheduleFile), []byte(schedule.String()), 0o644); err != nil {
		return fmt.Errorf("writing depreciation schedule: %w", err)
	}

	// Write .gitignore.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("exports/\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !git {
		return nil
	}
	if err := gitops.Init(dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	if _, err := gitops.Commit(dir, "init: "+name, author); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}
