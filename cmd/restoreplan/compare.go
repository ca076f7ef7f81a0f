package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/restoreplan/internal/config"
	"github.com/nao1215/restoreplan/internal/history"
	"github.com/nao1215/restoreplan/internal/report"
)

// defaultListLimit is the number of runs shown by compare --list.
const defaultListLimit = 20

// errNoHistory is returned when the history database holds no matching run.
var errNoHistory = errors.New("no run history found")

// NewCompareCmd creates the compare command.
// This command compares planner runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [report]",
		Short: "Compare the latest restore plan with an earlier run",
		Long: `Compare displays differences between the latest planner run and an earlier one.

Every successful planner run is recorded in the history database. Compare shows:
- New broken targets that appeared since the earlier run
- Targets that no longer appear (restored, redirected or dropped from the export)
- Link count changes per target and per family

When a report path is given, only runs of that export are considered.

Examples:
  # Compare the latest two runs
  restoreplan compare

  # Compare the latest two runs of one export
  restoreplan compare exports/ahrefs-broken.csv

  # List run history
  restoreplan compare --list

  # Compare the latest run with a specific run by ID
  restoreplan compare --with-run-id 5

  # Output the comparison in JSON format
  restoreplan compare --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List run history")
	cmd.Flags().IntP("limit", "n", defaultListLimit,
		"Maximum number of runs listed by --list")
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().String("history-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	var inputPath string
	if len(args) > 0 {
		inputPath = args[0]
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	historyDir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}
	if historyDir == "" {
		historyDir = config.XDGDataDir()
	}

	store, err := history.Open(historyDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if listHistory {
		return listRuns(ctx, out, store, inputPath, limit)
	}

	comparison, err := compareRuns(ctx, store, inputPath, withRunID)
	if err != nil {
		return err
	}

	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(comparison)
		return err
	}
	outputComparisonText(out, comparison)
	return nil
}

// listRuns prints the stored runs, newest first.
func listRuns(ctx context.Context, out io.Writer, store *history.Store, inputPath string, limit int) error {
	runs, err := store.ListRuns(ctx, inputPath, limit)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the history database.")
		fmt.Fprintln(out, "\nRun 'restoreplan [report]' to build a restore plan.")
		return nil
	}

	fmt.Fprintf(out, "Run history (%d runs):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-7s  %-7s  %s\n", "ID", "Date", "Links", "Targets", "Input")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, meta := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-7d  %-7d  %s\n",
			meta.ID,
			meta.Timestamp.Local().Format("2006-01-02 15:04:05"),
			meta.TotalLinks,
			meta.UniqueTargets,
			meta.InputPath,
		)
	}

	fmt.Fprintln(out, "\nUse 'restoreplan compare' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'restoreplan compare --with-run-id <id>' to compare with a specific run.")

	return nil
}

// compareRuns loads the latest run and the run it is compared with.
// Without withRunID the previous run of the same scope is used.
func compareRuns(ctx context.Context, store *history.Store, inputPath string, withRunID int64) (*history.Comparison, error) {
	runs, err := store.LatestRuns(ctx, inputPath, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	if len(runs) == 0 {
		if inputPath != "" {
			return nil, fmt.Errorf("%w for %s", errNoHistory, inputPath)
		}
		return nil, errNoHistory
	}

	current := runs[0]

	var previous *history.Run
	if withRunID > 0 {
		previous, err = store.GetRun(ctx, withRunID)
		if err != nil {
			return nil, fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previous == nil {
			return nil, fmt.Errorf("run with ID %d not found", withRunID)
		}
		if previous.ID == current.ID {
			return nil, fmt.Errorf("run %d is the latest run; choose an earlier run to compare with", withRunID)
		}
	} else {
		if len(runs) < 2 {
			return nil, fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
		}
		previous = runs[1]
	}

	return history.Compare(previous, current), nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *history.Comparison) {
	fmt.Fprintln(out, "Restore Plan Comparison")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious run: #%-4d %s  %s\n", result.Previous.ID,
		result.Previous.Timestamp.Local().Format("2006-01-02 15:04:05"), result.Previous.InputPath)
	fmt.Fprintf(out, "Current run:  #%-4d %s  %s\n", result.Current.ID,
		result.Current.Timestamp.Local().Format("2006-01-02 15:04:05"), result.Current.InputPath)
	if result.SameInput {
		fmt.Fprintln(out, "Input: unchanged (identical export)")
	}

	fmt.Fprintln(out, "\nLinks by family:")
	fmt.Fprintf(out, "  %-24s  %-8s  %-8s  %-8s\n", "Family", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 56))
	for _, d := range result.FamilyDeltas {
		fmt.Fprintf(out, "  %-24s  %-8d  %-8d  %-8s\n", d.Family, d.Previous, d.Current, formatDelta(d.Delta))
	}
	fmt.Fprintln(out, "  "+strings.Repeat("-", 56))
	fmt.Fprintf(out, "  %-24s  %-8d  %-8d  %-8s\n", "Total",
		result.Previous.TotalLinks, result.Current.TotalLinks, formatDelta(result.LinkDelta))

	if len(result.NewTargets) > 0 {
		fmt.Fprintf(out, "\nNew targets (%d):\n", len(result.NewTargets))
		for _, e := range result.NewTargets {
			fmt.Fprintf(out, "  [+] %s (%s, %d links)\n", e.URL, e.Family, e.LinkCount)
		}
	}

	if len(result.ResolvedTargets) > 0 {
		fmt.Fprintf(out, "\nResolved targets (%d):\n", len(result.ResolvedTargets))
		for _, e := range result.ResolvedTargets {
			fmt.Fprintf(out, "  [-] %s (%s, %d links)\n", e.URL, e.Family, e.LinkCount)
		}
	}

	if len(result.ChangedTargets) > 0 {
		fmt.Fprintf(out, "\nChanged targets (%d):\n", len(result.ChangedTargets))
		for _, c := range result.ChangedTargets {
			fmt.Fprintf(out, "  [~] %s: %d -> %d (%s)\n", c.URL, c.Previous, c.Current, formatDelta(c.Delta))
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d targets\n", result.UnchangedCount)
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
