package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/restoreplan/internal/model"
)

// MarkdownWriter outputs restore plans as a Markdown summary.
// It is meant for pasting into tickets and pull requests, so it carries the
// totals, the distribution tables and the lists that need a human decision,
// not the full restore set.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// MarkdownFactory returns a WriterFactory for MarkdownWriter.
func MarkdownFactory() WriterFactory {
	return func(output io.Writer) Writer {
		return NewMarkdownWriter(output)
	}
}

// Write outputs the plan in Markdown format.
func (w *MarkdownWriter) Write(plan *model.RestoreReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, plan)
	w.writeFamilies(md, plan)
	w.writeActions(md, plan)
	w.writeTopTargets(md, plan)
	w.writeRedirects(md, plan)
	w.writeManualReview(md, plan)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the totals table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, plan *model.RestoreReport) {
	md.H1("404 Restore Plan")
	md.PlainText("")

	frameworks := "-"
	if len(plan.FrameworksPresent) > 0 {
		frameworks = strings.Join(plan.FrameworksPresent, ", ")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input File", "`" + plan.InputFile + "`"},
			{"Generated At", plan.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Total 404 Links", strconv.Itoa(plan.Totals.Total404Links)},
			{"Unique 404 Targets", strconv.Itoa(plan.Totals.Unique404Targets)},
			{"Frameworks Present", frameworks},
		},
	})
	md.PlainText("")

	if plan.Totals.Unique404Targets == 0 {
		md.Tip("No broken targets found in the export. Nothing to restore.")
		md.PlainText("")
	}
}

// writeFamilies writes the links-per-family table and pie chart.
func (w *MarkdownWriter) writeFamilies(md *markdown.Markdown, plan *model.RestoreReport) {
	md.H2("Links by Family")
	md.PlainText("")

	if len(plan.CountsByFamily) == 0 {
		md.PlainText("No families to report.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Family", "Links", "Share"},
		Rows:   countRows(plan.CountsByFamily, plan.Totals.Total404Links),
	})
	md.PlainText("")

	w.writePieChart(md, plan)
}

// writePieChart writes a mermaid pie chart of links per family.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, plan *model.RestoreReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("404 Links by Family"),
		piechart.WithShowData(true),
	)

	for _, c := range plan.CountsByFamily {
		if c.Links > 0 {
			chart.LabelAndIntValue(c.Tag, uint64(c.Links)) //nolint:gosec // Counts are never negative
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeActions writes the links-per-action table.
func (w *MarkdownWriter) writeActions(md *markdown.Markdown, plan *model.RestoreReport) {
	md.H2("Links by Action")
	md.PlainText("")

	if len(plan.CountsByAction) == 0 {
		md.PlainText("No actions to report.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Action", "Links", "Share"},
		Rows:   countRows(plan.CountsByAction, plan.Totals.Total404Links),
	})
	md.PlainText("")
}

// writeTopTargets writes the head of the restore set.
func (w *MarkdownWriter) writeTopTargets(md *markdown.Markdown, plan *model.RestoreReport) {
	md.H2("Top Targets")
	md.PlainText("")

	if len(plan.TopTargets) == 0 {
		md.PlainText("No targets.")
		md.PlainText("")
		return
	}

	// TopTargets is the head of RestoreSet, so the entries line up by index.
	rows := make([][]string, 0, len(plan.TopTargets))
	for i, entry := range plan.RestoreSet[:len(plan.TopTargets)] {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			"`" + truncateString(entry.Pathname, 60) + "`",
			strconv.Itoa(entry.LinkCount),
			entry.Family.String(),
			entry.Action.String(),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Path", "Links", "Family", "Action"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRedirects writes the legacy paths and their approved redirect targets.
func (w *MarkdownWriter) writeRedirects(md *markdown.Markdown, plan *model.RestoreReport) {
	entries := plan.EntriesWithAction(model.ActionRedirectStructuralDirectoryTarget)
	if len(entries) == 0 {
		return
	}

	md.H2("Legacy Redirects")
	md.PlainText("")

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			"`" + entry.Pathname + "`",
			"`" + entry.ApprovedRedirectTarget + "`",
			strconv.Itoa(entry.LinkCount),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"From", "To", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeManualReview lists the targets no rule recognized.
func (w *MarkdownWriter) writeManualReview(md *markdown.Markdown, plan *model.RestoreReport) {
	md.H2("Manual Review")
	md.PlainText("")

	entries := plan.EntriesWithAction(model.ActionManualReview)
	if len(entries) == 0 {
		md.Tip("Every target matched a restoration rule.")
		md.PlainText("")
		return
	}

	md.Warningf(
		"%d target(s) carrying %d link(s) matched no rule and need a manual decision.",
		len(entries), plan.CountsByAction.Get(model.ActionManualReview.String()),
	)
	md.PlainText("")

	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		items = append(items, fmt.Sprintf("`%s` (%d)", entry.URL, entry.LinkCount))
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Plan generated by [restoreplan](https://github.com/nao1215/restoreplan)*")
}

// countRows renders tag counts as table rows with their share of total.
func countRows(counts model.TagCounts, total int) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Tag, strconv.Itoa(c.Links), share(c.Links, total)})
	}
	return rows
}

// share formats part as a percentage of total.
func share(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
