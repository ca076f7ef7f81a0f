package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/restoreplan/internal/model"
)

// Writer defines the interface for restore plan output.
type Writer interface {
	// Write renders the plan to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(plan *model.RestoreReport) (int, error)
}

// WriterFactory builds a Writer around an output destination.
type WriterFactory func(output io.Writer) Writer

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// WriteFile renders plan with the writer built by factory and stores the
// result at path. Parent directories are created if they don't exist.
// Nothing is written to disk when rendering fails.
func WriteFile(path string, plan *model.RestoreReport, factory WriterFactory) error {
	var buf bytes.Buffer
	if _, err := factory(&buf).Write(plan); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil { //nolint:gosec // The plan is meant to be shared
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
