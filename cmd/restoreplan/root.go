package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/restoreplan/internal/config"
)

// NewRootCmd creates the root command for restoreplan.
// Running the root command itself builds a restore plan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restoreplan [report]",
		Short: "Plan the restoration of pages that backlinks still point at",
		Long: `restoreplan reads a backlink export (CSV or TSV, UTF-8 or UTF-16), keeps
the rows whose target returns HTTP 404, and classifies every broken target
by its path pattern. The result is a JSON restore plan that tells a content
process which pages to rebuild, which to redirect and which need a human.

The report argument defaults to ` + config.DefaultInputPath + `.
The plan is written to ` + config.DefaultOutputPath + ` unless --output is given.

Examples:
  # Plan from the default export
  restoreplan

  # Plan from a specific export and also write a Markdown summary
  restoreplan -m reports/404-restore-plan.md exports/ahrefs-broken.csv

  # Classify a URL without an export
  restoreplan classify https://example.com/compare/vanta-vs-drata

  # Compare the latest two runs
  restoreplan compare`,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPlanCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Write the JSON restore plan to this path (creates directories if needed)")
	cmd.Flags().StringP("markdown", "m", "",
		"Also write a Markdown summary of the plan to this path")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .restoreplan in current or home directory)")
	cmd.Flags().IntP("top", "n", config.DefaultTopTargets,
		"Number of entries in the plan's topTargets list")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().String("history-dir", "",
		"Directory of the history database (default: XDG data directory)")

	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
