package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/restoreplan/internal/classify"
	"github.com/nao1215/restoreplan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "restoreplan"

	// DefaultInputPath is the backlink export read when no report argument is given.
	DefaultInputPath = "backlinks-404.csv"

	// DefaultOutputPath is where the JSON restore plan is written.
	// Missing parent directories are created.
	DefaultOutputPath = "reports/404-restore-plan.json"

	// DefaultTopTargets is the number of entries kept in the report's topTargets list.
	DefaultTopTargets = model.DefaultTopTargets
)

// Config holds all configuration options for one planner run.
// It is populated from defaults, the optional config file and CLI flags,
// in that order, and passed down explicitly rather than held globally.
type Config struct {
	// InputPath is the backlink export to read (CSV or TSV, UTF-8 or UTF-16).
	InputPath string

	// OutputPath is the JSON restore plan destination.
	OutputPath string

	// MarkdownPath is an optional destination for a Markdown summary of the plan.
	// Empty means no Markdown summary is written.
	MarkdownPath string

	// TopTargets caps the topTargets list in the report.
	TopTargets int

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .restoreplan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds the settings loaded from the configuration file, if any.
	File *File

	// HistoryDir is the directory of the SQLite run history database.
	// Defaults to the XDG data directory (~/.local/share/restoreplan on Linux).
	HistoryDir string

	// SaveHistory records each successful run in the history database.
	SaveHistory bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		InputPath:   DefaultInputPath,
		OutputPath:  DefaultOutputPath,
		TopTargets:  DefaultTopTargets,
		HistoryDir:  XDGDataDir(),
		SaveHistory: true,
	}
}

// XDGDataDir returns the XDG data directory for restoreplan.
// On Linux: ~/.local/share/restoreplan
// On macOS: ~/Library/Application Support/restoreplan
// On Windows: %LOCALAPPDATA%\restoreplan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for restoreplan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the values set in f over the current configuration.
// Values not set in the file keep their current value; rules are resolved
// later by Rules.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.File = f
	if f.Output != "" {
		c.OutputPath = f.Output
	}
	if f.Markdown != "" {
		c.MarkdownPath = f.Markdown
	}
	if f.TopTargets != 0 {
		c.TopTargets = f.TopTargets
	}
}

// Rules returns the classifier rules for this run: the embedded defaults
// merged with the rules section of the configuration file.
func (c *Config) Rules() (classify.Rules, error) {
	rules, err := DefaultRules()
	if err != nil {
		return classify.Rules{}, err
	}
	if c.File != nil {
		rules = c.File.Rules.Merge(rules)
	}
	return rules, nil
}

// Validate checks if the configuration is valid.
// It returns the first problem found, so the run fails before any input is read.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrNoInput
	}
	if c.OutputPath == "" {
		return ErrEmptyOutputPath
	}
	if c.TopTargets <= 0 {
		return ErrInvalidTopTargets
	}
	if c.MarkdownPath != "" && filepath.Clean(c.MarkdownPath) == filepath.Clean(c.OutputPath) {
		return ErrConflictingOutputPaths
	}
	if c.SaveHistory && c.HistoryDir == "" {
		return ErrEmptyHistoryDir
	}

	rules, err := c.Rules()
	if err != nil {
		return err
	}
	return rules.Validate()
}
