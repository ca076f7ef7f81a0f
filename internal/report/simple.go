package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/restoreplan/internal/model"
)

// SimpleWriter outputs the short console summary printed after a run.
//
// Styling goes through a lipgloss renderer bound to the output, so colors
// appear on a terminal and the text stays plain when piped or captured.
type SimpleWriter struct {
	baseWriter

	// outputPaths are the files the plan was written to, listed last.
	outputPaths []string

	// verbose adds the per-family and per-action breakdown.
	verbose bool

	title lipgloss.Style
	label lipgloss.Style
	stat  lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithOutputPath adds a written file to the summary.
func WithOutputPath(path string) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if path != "" {
			w.outputPaths = append(w.outputPaths, path)
		}
	}
}

// WithVerbose enables the per-family and per-action breakdown.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	r := lipgloss.NewRenderer(output)
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		label:      r.NewStyle().Foreground(lipgloss.Color("86")),
		stat:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
		warn:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		muted:      r.NewStyle().Faint(true),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the console summary of plan.
func (w *SimpleWriter) Write(plan *model.RestoreReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(w.title.Render("404 restore plan"))
	sb.WriteString("\n")

	w.writeLine(&sb, "Total 404 links", w.stat.Render(fmt.Sprintf("%d", plan.Totals.Total404Links)))
	w.writeLine(&sb, "Unique 404 targets", w.stat.Render(fmt.Sprintf("%d", plan.Totals.Unique404Targets)))

	frameworks := w.muted.Render("none")
	if len(plan.FrameworksPresent) > 0 {
		frameworks = strings.Join(plan.FrameworksPresent, ", ")
	}
	w.writeLine(&sb, "Frameworks", frameworks)

	if manual := plan.EntriesWithAction(model.ActionManualReview); len(manual) > 0 {
		w.writeLine(&sb, "Manual review", w.warn.Render(fmt.Sprintf("%d target(s)", len(manual))))
	}

	if w.verbose {
		w.writeCounts(&sb, "By family", plan.CountsByFamily)
		w.writeCounts(&sb, "By action", plan.CountsByAction)
	}

	for _, path := range w.outputPaths {
		w.writeLine(&sb, "Written to", path)
	}

	return io.WriteString(w.output, sb.String())
}

// writeLine writes one aligned "label: value" line.
func (w *SimpleWriter) writeLine(sb *strings.Builder, label, value string) {
	sb.WriteString("  ")
	sb.WriteString(w.label.Render(fmt.Sprintf("%-19s", label+":")))
	sb.WriteString(" ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

// writeCounts writes a tag count breakdown under a heading.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, heading string, counts model.TagCounts) {
	sb.WriteString("  ")
	sb.WriteString(w.label.Render(heading + ":"))
	sb.WriteString("\n")
	for _, c := range counts {
		fmt.Fprintf(sb, "    %-40s %d\n", c.Tag, c.Links)
	}
}
