package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/restoreplan/internal/config"
	"github.com/nao1215/restoreplan/internal/model"
	"github.com/nao1215/restoreplan/internal/report"
)

// classifiedURL is one line of classify output.
type classifiedURL struct {
	URL string `json:"url"`
	model.Classification
}

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <url>...",
		Short: "Classify URLs with the active rules",
		Long: `Classify prints the family, action and extracted identifiers that the
planner would assign to each URL. It reads the same configuration file as the
planner, so it is a quick way to check custom rules before running an export.

Examples:
  restoreplan classify https://example.com/compare/vanta-vs-drata
  restoreplan classify /pricing/drata /soc-2/for/startups
  restoreplan classify --json /compliance/directory/san-francisco`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassifyCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .restoreplan in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output classifications in JSON format")

	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	file, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	cfg := config.NewConfig()
	cfg.ApplyFile(file)

	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	results := make([]classifiedURL, 0, len(args))
	for _, raw := range args {
		results = append(results, classifiedURL{URL: raw, Classification: classifier.Classify(raw)})
	}

	if jsonOutput {
		_, err := report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint()).WriteValue(results)
		return err
	}
	return outputClassificationText(cmd.OutOrStdout(), results)
}

// outputClassificationText prints one block per URL, omitting empty identifiers.
func outputClassificationText(w io.Writer, results []classifiedURL) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.URL)
		fields := [][2]string{
			{"pathname", r.Pathname},
			{"family", r.Family.String()},
			{"action", r.Action.String()},
			{"framework", r.Framework},
			{"primarySlug", r.PrimarySlug},
			{"secondarySlug", r.SecondarySlug},
			{"redirectTo", r.ApprovedRedirectTarget},
		}
		for _, f := range fields {
			if f[1] == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %-14s %s\n", f[0]+":", f[1]); err != nil {
				return err
			}
		}
	}
	return nil
}
