package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/restoreplan/internal/aggregate"
	"github.com/nao1215/restoreplan/internal/classify"
	"github.com/nao1215/restoreplan/internal/input"
	"github.com/nao1215/restoreplan/internal/model"
)

// ErrStepOrder is returned when a step runs before the data it needs exists.
var ErrStepOrder = errors.New("pipeline step executed out of order")

// ReadStep loads the whole export into memory and digests it.
type ReadStep struct {
	logger *slog.Logger
}

// NewReadStep creates a new read step.
func NewReadStep(logger *slog.Logger) *ReadStep {
	return &ReadStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do reads run.InputPath.
func (s *ReadStep) Do(_ context.Context, run *Run) error {
	data, err := os.ReadFile(run.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input %s: %w", run.InputPath, err)
	}

	run.Raw = data
	run.Digest = Digest(data)

	s.logger.Debug("input read",
		"path", run.InputPath,
		"bytes", len(data),
		"digest", shortDigest(run.Digest),
	)
	return nil
}

// Digest returns the hex SHA3-256 digest of data.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// shortDigest abbreviates a hex digest for log output.
func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

// DecodeStep turns the raw buffer into text.
type DecodeStep struct {
	logger *slog.Logger
}

// NewDecodeStep creates a new decode step.
func NewDecodeStep(logger *slog.Logger) *DecodeStep {
	return &DecodeStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do decodes run.Raw according to its byte-order mark.
func (s *DecodeStep) Do(_ context.Context, run *Run) error {
	run.Encoding = input.DetectEncoding(run.Raw)
	run.Text = input.Decode(run.Raw)

	s.logger.Debug("input decoded", "encoding", run.Encoding.String())
	return nil
}

// ParseStep splits the decoded text into a header and rows.
type ParseStep struct {
	logger *slog.Logger
}

// NewParseStep creates a new parse step.
func NewParseStep(logger *slog.Logger) *ParseStep {
	return &ParseStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do parses run.Text.
func (s *ParseStep) Do(_ context.Context, run *Run) error {
	run.Table = input.Parse(run.Text)

	delimiter := "comma"
	if run.Table.Delimiter == input.Tab {
		delimiter = "tab"
	}
	s.logger.Debug("input parsed",
		"delimiter", delimiter,
		"columns", len(run.Table.Header),
		"rows", len(run.Table.Rows),
	)
	return nil
}

// AggregateStep counts qualifying 404 rows per destination.
type AggregateStep struct {
	logger *slog.Logger
}

// NewAggregateStep creates a new aggregate step.
func NewAggregateStep(logger *slog.Logger) *AggregateStep {
	return &AggregateStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do aggregates run.Table. A missing required column aborts the run.
func (s *AggregateStep) Do(_ context.Context, run *Run) error {
	result, err := aggregate.Aggregate(run.Table, aggregate.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to aggregate %s: %w", run.InputPath, err)
	}
	run.Aggregate = result
	return nil
}

// ClassifyStep classifies every aggregated destination.
type ClassifyStep struct {
	classifier *classify.Classifier
	logger     *slog.Logger
}

// NewClassifyStep creates a new classify step using classifier.
func NewClassifyStep(classifier *classify.Classifier, logger *slog.Logger) *ClassifyStep {
	return &ClassifyStep{classifier: classifier, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do classifies run.Aggregate.Targets into run.Entries.
func (s *ClassifyStep) Do(_ context.Context, run *Run) error {
	if s.classifier == nil {
		return fmt.Errorf("%w: classify step has no classifier", ErrStepOrder)
	}
	run.Entries = s.classifier.ClassifyTargets(run.Aggregate.Targets)

	s.logger.Debug("targets classified", "entries", len(run.Entries))
	return nil
}

// BuildReportStep builds the restore report from the classified entries.
type BuildReportStep struct {
	topTargets int
	now        func() time.Time
	logger     *slog.Logger
}

// BuildReportStepOption configures a BuildReportStep.
type BuildReportStepOption func(*BuildReportStep)

// WithTopTargets sets the size of the report's topTargets list.
func WithTopTargets(n int) BuildReportStepOption {
	return func(s *BuildReportStep) {
		s.topTargets = n
	}
}

// WithClock sets the time source for the report timestamp.
func WithClock(now func() time.Time) BuildReportStepOption {
	return func(s *BuildReportStep) {
		s.now = now
	}
}

// WithBuildLogger sets a custom logger for the build step.
func WithBuildLogger(logger *slog.Logger) BuildReportStepOption {
	return func(s *BuildReportStep) {
		s.logger = logger
	}
}

// NewBuildReportStep creates a new report building step.
func NewBuildReportStep(opts ...BuildReportStepOption) *BuildReportStep {
	s := &BuildReportStep{
		topTargets: model.DefaultTopTargets,
		now:        time.Now,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *BuildReportStep) Name() string {
	return "build_report"
}

// Do builds run.Report.
func (s *BuildReportStep) Do(_ context.Context, run *Run) error {
	run.Report = model.NewRestoreReport(run.Entries, run.InputPath, s.now().UTC(), s.topTargets)

	s.logger.Debug("report built",
		"total404Links", run.Report.Totals.Total404Links,
		"unique404Targets", run.Report.Totals.Unique404Targets,
		"frameworks", run.Report.FrameworksPresent,
	)
	return nil
}

// DefaultPipelineConfig holds settings for the default pipeline.
type DefaultPipelineConfig struct {
	// TopTargets is the size of the report's topTargets list.
	TopTargets int

	// Now is the report clock. Nil means time.Now.
	Now func() time.Time
}

// DefaultPipelineOption configures DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithDefaultTopTargets sets the topTargets size for the default pipeline.
func WithDefaultTopTargets(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.TopTargets = n
	}
}

// WithDefaultClock sets the report clock for the default pipeline.
func WithDefaultClock(now func() time.Time) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Now = now
	}
}

// DefaultPipeline creates a pipeline with the planner steps in order:
// read, decode, parse, aggregate, classify, build_report.
func DefaultPipeline(classifier *classify.Classifier, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		TopTargets: model.DefaultTopTargets,
		Now:        time.Now,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	p.AddSteps(
		NewReadStep(p.logger),
		NewDecodeStep(p.logger),
		NewParseStep(p.logger),
		NewAggregateStep(p.logger),
		NewClassifyStep(classifier, p.logger),
		NewBuildReportStep(
			WithTopTargets(cfg.TopTargets),
			WithClock(cfg.Now),
			WithBuildLogger(p.logger),
		),
	)

	return p
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
