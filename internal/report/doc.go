// Package report provides restore plan output.
//
// This package contains writers for different output formats:
//   - JSONWriter: the restore plan artifact, for tooling and review
//   - MarkdownWriter: a shareable summary with tables and a family pie chart
//   - SimpleWriter: the short console summary printed after a run
//
// Report data structures live in the model package; writers only render them.
// WriteFile renders a plan into a file, creating parent directories as needed.
package report
