package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/restoreplan/internal/model"
)

// createTestPlan creates a plan with sample data for testing.
func createTestPlan() *model.RestoreReport {
	entries := []model.ClassifiedEntry{
		{
			URL: "https://risclens.com/pricing/drata", LinkCount: 4,
			Classification: model.Classification{
				Pathname: "/pricing/drata", Family: model.FamilyPricingPage,
				Action: model.ActionRestoreViaPricingPageOrToolFallback, PrimarySlug: "drata",
			},
		},
		{
			URL: "https://risclens.com/totally-unknown/path", LinkCount: 2,
			Classification: model.Classification{
				Pathname: "/totally-unknown/path", Family: model.FamilyOther, Action: model.ActionManualReview,
			},
		},
		{
			URL: "https://risclens.com/compliance/directory/san-francisco", LinkCount: 1,
			Classification: model.Classification{
				Pathname: "/compliance/directory/san-francisco", Family: model.FamilyDirectoryLegacy,
				Action:                 model.ActionRedirectStructuralDirectoryTarget,
				ApprovedRedirectTarget: "/auditor-directory/san-francisco",
			},
		},
		{
			URL: "https://risclens.com/soc-2-readiness/vendor-management", LinkCount: 3,
			Classification: model.Classification{
				Pathname: "/soc-2-readiness/vendor-management", Family: model.FamilyReadinessHub,
				Action: model.ActionRestoreViaReadinessHubRoute, Framework: "soc-2", PrimarySlug: "vendor-management",
			},
		},
	}
	generatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.NewRestoreReport(entries, "backlinks-404.csv", generatedAt, model.DefaultTopTargets)
}

// TestJSONWriter tests the JSON plan writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes compact JSON with trailing newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.HasSuffix(output, "}\n") {
			t.Errorf("expected trailing newline, got %q", output[len(output)-5:])
		}
		if strings.Count(output, "\n") != 1 {
			t.Error("expected compact output on a single line")
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"generatedAt\"") {
			t.Error("expected two-space indentation")
		}
	})

	t.Run("output carries the plan fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		for _, key := range []string{"generatedAt", "inputFile", "totals", "frameworksPresent", "countsByFamily", "countsByAction", "topTargets", "restoreSet"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("expected key %q in output", key)
			}
		}

		totals, ok := decoded["totals"].(map[string]any)
		if !ok {
			t.Fatal("expected totals to be an object")
		}
		if totals["total404Links"] != float64(10) {
			t.Errorf("expected total404Links 10, got %v", totals["total404Links"])
		}
		if totals["unique404Targets"] != float64(4) {
			t.Errorf("expected unique404Targets 4, got %v", totals["unique404Targets"])
		}
	})

	t.Run("counts by family are ordered by links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `"countsByFamily":{"pricing_page":4,"readiness_hub":3,"other":2,"directory_legacy":1}`
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in output, got %s", want, buf.String())
		}
	})

	t.Run("WriteValue writes arbitrary values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteValue(map[string]int{"a": 1}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "{\"a\":1}\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown summary writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	render := func(t *testing.T, plan *model.RestoreReport) string {
		t.Helper()
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(plan); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return buf.String()
	}

	t.Run("writes header and totals", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestPlan())
		for _, want := range []string{"# 404 Restore Plan", "backlinks-404.csv", "Total 404 Links", "soc-2"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("writes family table and pie chart", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestPlan())
		if !strings.Contains(output, "## Links by Family") {
			t.Error("expected family section")
		}
		if !strings.Contains(output, "```mermaid") {
			t.Error("expected mermaid pie chart")
		}
		if !strings.Contains(output, "40.0%") {
			t.Error("expected pricing share of 40.0%")
		}
	})

	t.Run("writes legacy redirects", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestPlan())
		if !strings.Contains(output, "## Legacy Redirects") {
			t.Error("expected legacy redirect section")
		}
		if !strings.Contains(output, "/auditor-directory/san-francisco") {
			t.Error("expected redirect target")
		}
	})

	t.Run("lists manual review targets", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestPlan())
		if !strings.Contains(output, "https://risclens.com/totally-unknown/path") {
			t.Error("expected manual review URL")
		}
		if !strings.Contains(output, "[!WARNING]") {
			t.Error("expected warning alert for manual review")
		}
	})

	t.Run("empty plan renders without chart", func(t *testing.T) {
		t.Parallel()

		output := render(t, model.NewRestoreReport(nil, "empty.csv", time.Now(), 0))
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no pie chart for an empty plan")
		}
		if !strings.Contains(output, "Nothing to restore") {
			t.Error("expected nothing-to-restore tip")
		}
		if strings.Contains(output, "## Legacy Redirects") {
			t.Error("expected no legacy redirect section")
		}
	})
}

// TestSimpleWriter tests the console summary writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes totals and frameworks", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"404 restore plan", "Total 404 links:", "10", "Unique 404 targets:", "Frameworks:", "soc-2", "Manual review:", "1 target(s)"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("plain text when not a terminal", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "\x1b[") {
			t.Error("expected no ANSI escape sequences")
		}
	})

	t.Run("lists output paths", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithOutputPath("reports/plan.json"), WithOutputPath(""), WithOutputPath("reports/plan.md"))
		if _, err := w.Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if strings.Count(output, "Written to:") != 2 {
			t.Errorf("expected two output lines, got:\n%s", output)
		}
		if !strings.Contains(output, "reports/plan.md") {
			t.Error("expected markdown path")
		}
	})

	t.Run("verbose adds breakdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestPlan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "By family:") || !strings.Contains(output, "restore_via_pricing_page_or_tool_fallback") {
			t.Errorf("expected breakdown, got:\n%s", output)
		}
	})

	t.Run("empty plan reports no frameworks", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(model.NewRestoreReport(nil, "x.csv", time.Now(), 0)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "none") {
			t.Error("expected 'none' for frameworks")
		}
		if strings.Contains(buf.String(), "Manual review:") {
			t.Error("expected no manual review line")
		}
	})
}

// TestWriteFile tests writing a plan to disk.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "reports", "nested", "plan.json")
		if err := WriteFile(path, createTestPlan(), JSONFactory(WithPrettyPrint())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path) //nolint:gosec // Test file path
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if !json.Valid(data) {
			t.Error("expected valid JSON on disk")
		}
	})

	t.Run("overwrites an existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "plan.md")
		if err := os.WriteFile(path, []byte(strings.Repeat("stale ", 10000)), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		if err := WriteFile(path, createTestPlan(), MarkdownFactory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path) //nolint:gosec // Test file path
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if strings.Contains(string(data), "stale") {
			t.Error("expected stale content to be replaced")
		}
	})

	t.Run("fails when the parent is a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "reports")
		if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}
		if err := WriteFile(filepath.Join(blocker, "plan.json"), createTestPlan(), JSONFactory()); err == nil {
			t.Error("expected error when the output directory cannot be created")
		}
	})
}
