package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/restoreplan/internal/classify"
	"github.com/nao1215/restoreplan/internal/config"
	"github.com/nao1215/restoreplan/internal/history"
	seclog "github.com/nao1215/restoreplan/internal/log"
	"github.com/nao1215/restoreplan/internal/pipeline"
	"github.com/nao1215/restoreplan/internal/report"
)

// runPlanCmd executes the root command.
func runPlanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := seclog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPlan(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// cobra command flags. Flags given on the command line win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.InputPath = args[0]
	}

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	file, err := loadConfigFile(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyFile(file)

	flags := cmd.Flags()
	if flags.Changed("output") {
		if cfg.OutputPath, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("markdown") {
		if cfg.MarkdownPath, err = flags.GetString("markdown"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("top") {
		if cfg.TopTargets, err = flags.GetInt("top"); err != nil {
			return nil, err
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	if flags.Changed("history-dir") {
		if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadConfigFile finds and loads the configuration file.
// If the user explicitly specified a path, a missing file is an error.
// Otherwise a missing file means no file settings.
func loadConfigFile(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return nil, nil
	}

	f, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return f, nil
}

// newClassifier builds the classifier for the rules active in cfg.
func newClassifier(cfg *config.Config) (*classify.Classifier, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier rules: %w", err)
	}
	classifier, err := classify.New(rules)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return classifier, nil
}

// runPlan builds the restore plan, writes it and prints the console summary.
// Nothing is written when reading or parsing the export fails.
func runPlan(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	p := pipeline.DefaultPipeline(classifier,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithDefaultTopTargets(cfg.TopTargets),
	)

	logger.Info("starting planner",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"steps", p.StepNames(),
	)

	run := pipeline.NewRun(cfg.InputPath)
	if err := p.Execute(ctx, run); err != nil {
		return err
	}

	if err := report.WriteFile(cfg.OutputPath, run.Report, report.JSONFactory(report.WithPrettyPrint())); err != nil {
		return err
	}
	if cfg.MarkdownPath != "" {
		if err := report.WriteFile(cfg.MarkdownPath, run.Report, report.MarkdownFactory()); err != nil {
			return err
		}
	}

	summary := report.NewSimpleWriter(out,
		report.WithOutputPath(cfg.OutputPath),
		report.WithOutputPath(cfg.MarkdownPath),
		report.WithVerbose(cfg.Verbose),
	)
	if _, err := summary.Write(run.Report); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	if cfg.SaveHistory {
		if err := saveRun(ctx, cfg.HistoryDir, run, logger); err != nil {
			logger.Error("failed to save run history", "error", err)
		}
	}

	return nil
}

// saveRun records a finished run in the history database.
func saveRun(ctx context.Context, dir string, run *pipeline.Run, logger *slog.Logger) error {
	store, err := history.Open(dir, history.DefaultOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	previous, err := store.LatestRuns(ctx, run.Report.InputFile, 1)
	if err != nil {
		return err
	}
	if len(previous) == 1 && previous[0].InputDigest == run.Digest {
		logger.Info("input unchanged since previous run",
			"input", run.Report.InputFile,
			"previousRun", previous[0].ID,
		)
	}

	id, err := store.SaveRun(ctx, history.NewRun(run.Report, run.Digest))
	if err != nil {
		return err
	}

	logger.Debug("run saved to history", "id", id, "db", store.Path())
	return nil
}
