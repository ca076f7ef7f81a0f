package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can branch
// with errors.Is() while still printing a readable message.
var (
	// ErrNoInput is returned when the input path is empty.
	ErrNoInput = errors.New("no input specified: provide a backlink export path")

	// ErrEmptyOutputPath is returned when the plan output path is empty.
	ErrEmptyOutputPath = errors.New("invalid output path: must not be empty")

	// ErrInvalidTopTargets is returned when the top-target limit is not positive.
	ErrInvalidTopTargets = errors.New("invalid top targets: must be positive")

	// ErrConflictingOutputPaths is returned when --markdown and --output name the same file.
	ErrConflictingOutputPaths = errors.New("conflicting output paths: --markdown and --output must differ")

	// ErrEmptyHistoryDir is returned when history is enabled without a directory.
	ErrEmptyHistoryDir = errors.New("invalid history directory: must not be empty when history is enabled")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
