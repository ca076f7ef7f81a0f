package pipeline

import (
	"github.com/nao1215/restoreplan/internal/aggregate"
	"github.com/nao1215/restoreplan/internal/input"
	"github.com/nao1215/restoreplan/internal/model"
)

// Run is the state of one planner run as it moves through the steps.
type Run struct {
	// InputPath is the backlink export to process. Set by the caller.
	InputPath string

	// Raw is the undecoded input buffer.
	Raw []byte

	// Digest is the hex SHA3-256 digest of Raw, used to spot repeated runs.
	Digest string

	// Encoding is the detected encoding of Raw.
	Encoding input.Encoding

	// Text is the decoded input.
	Text string

	// Table is the parsed header and data rows.
	Table input.Table

	// Aggregate holds the per-destination link counts.
	Aggregate aggregate.Result

	// Entries are the classified destinations in first-seen order.
	Entries []model.ClassifiedEntry

	// Report is the finished restore report.
	Report *model.RestoreReport

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string
}

// NewRun creates a Run for the export at inputPath.
func NewRun(inputPath string) *Run {
	return &Run{InputPath: inputPath}
}
