package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/restoreplan/internal/history"
	"github.com/nao1215/restoreplan/internal/model"
)

// laterExport drops the compare page, adds a link to pricing/drata and a new
// pricing/vanta target compared with sampleExport.
const laterExport = "Referring page URL,Target URL,Target HTTP status code\n" +
	"https://blog.example.com/a,https://risclens.com/soc-2-readiness/vendor-management,404\n" +
	"https://blog.example.com/c,https://risclens.com/compliance/directory/san-francisco,\n" +
	"https://blog.example.com/d,https://risclens.com/pricing/drata,404\n" +
	"https://news.example.org/e,https://risclens.com/pricing/drata,404\n" +
	"https://news.example.org/x,https://risclens.com/pricing/drata,404\n" +
	"https://blog.example.com/f,https://risclens.com/totally-unknown/path,404\n" +
	"https://blog.example.com/g,https://risclens.com/pricing/vanta,404\n"

// seedHistory runs the planner once per export against the same input path
// and returns the input path and history directory.
func seedHistory(t *testing.T, exports ...string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	historyDir := filepath.Join(dir, "history")
	output := filepath.Join(dir, "plan.json")
	cfgPath := emptyConfig(t, dir)

	var input string
	for _, export := range exports {
		input = writeFile(t, dir, "export.csv", export)
		if _, _, err := executeRoot(t, input, "-o", output, "-c", cfgPath, "--history-dir", historyDir); err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}
	return input, historyDir
}

func TestCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("compares the latest two runs as JSON", func(t *testing.T) {
		t.Parallel()

		input, historyDir := seedHistory(t, sampleExport, laterExport)

		stdout, _, err := executeRoot(t, "compare", "--json", "--history-dir", historyDir, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got history.Comparison
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("failed to decode output: %v\n%s", err, stdout)
		}

		if got.SameInput {
			t.Error("expected different inputs")
		}
		if got.LinkDelta != 1 {
			t.Errorf("expected link delta 1, got %d", got.LinkDelta)
		}
		if got.UnchangedCount != 3 {
			t.Errorf("expected 3 unchanged targets, got %d", got.UnchangedCount)
		}

		wantNew := []history.Entry{{
			URL:       "https://risclens.com/pricing/vanta",
			LinkCount: 1,
			Family:    model.FamilyPricingPage,
			Action:    model.ActionRestoreViaPricingPageOrToolFallback,
		}}
		if diff := cmp.Diff(wantNew, got.NewTargets); diff != "" {
			t.Errorf("new targets mismatch (-want +got):\n%s", diff)
		}

		wantResolved := []history.Entry{{
			URL:       "https://risclens.com/compare/vanta-vs-drata",
			LinkCount: 1,
			Family:    model.FamilyComparePage,
			Action:    model.ActionRestoreViaCompareSynthFallback,
		}}
		if diff := cmp.Diff(wantResolved, got.ResolvedTargets); diff != "" {
			t.Errorf("resolved targets mismatch (-want +got):\n%s", diff)
		}

		wantChanged := []history.TargetChange{{
			URL:      "https://risclens.com/pricing/drata",
			Family:   model.FamilyPricingPage,
			Previous: 2,
			Current:  3,
			Delta:    1,
		}}
		if diff := cmp.Diff(wantChanged, got.ChangedTargets); diff != "" {
			t.Errorf("changed targets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("prints a text comparison", func(t *testing.T) {
		t.Parallel()

		_, historyDir := seedHistory(t, sampleExport, laterExport)

		stdout, _, err := executeRoot(t, "compare", "--history-dir", historyDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"Restore Plan Comparison",
			"[+] https://risclens.com/pricing/vanta",
			"[-] https://risclens.com/compare/vanta-vs-drata",
			"[~] https://risclens.com/pricing/drata: 2 -> 3 (+1)",
			"Unchanged: 3 targets",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("reports identical inputs", func(t *testing.T) {
		t.Parallel()

		_, historyDir := seedHistory(t, sampleExport, sampleExport)

		stdout, _, err := executeRoot(t, "compare", "--history-dir", historyDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Input: unchanged") {
			t.Errorf("expected unchanged input notice, got:\n%s", stdout)
		}
	})

	t.Run("compares with a specific run", func(t *testing.T) {
		t.Parallel()

		_, historyDir := seedHistory(t, sampleExport, laterExport, laterExport)

		stdout, _, err := executeRoot(t, "compare", "--json", "--with-run-id", "1", "--history-dir", historyDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got history.Comparison
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if got.Previous.ID != 1 || got.Current.ID != 3 {
			t.Errorf("expected runs 1 and 3, got %d and %d", got.Previous.ID, got.Current.ID)
		}
		if len(got.NewTargets) != 1 {
			t.Errorf("expected 1 new target, got %d", len(got.NewTargets))
		}
	})

	t.Run("lists run history", func(t *testing.T) {
		t.Parallel()

		input, historyDir := seedHistory(t, sampleExport, laterExport)

		stdout, _, err := executeRoot(t, "compare", "--list", "--history-dir", historyDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Run history (2 runs)") {
			t.Errorf("expected two runs, got:\n%s", stdout)
		}
		if !strings.Contains(stdout, input) {
			t.Errorf("expected input path in listing, got:\n%s", stdout)
		}
	})

	t.Run("lists nothing for an empty history", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, "compare", "--list", "--history-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No runs found") {
			t.Errorf("expected empty notice, got:\n%s", stdout)
		}
	})
}

func TestCompareCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "compare", "--history-dir", t.TempDir())
		if !errors.Is(err, errNoHistory) {
			t.Fatalf("expected errNoHistory, got %v", err)
		}
	})

	t.Run("unknown input path", func(t *testing.T) {
		t.Parallel()

		_, historyDir := seedHistory(t, sampleExport, laterExport)

		_, _, err := executeRoot(t, "compare", "--history-dir", historyDir, "other.csv")
		if !errors.Is(err, errNoHistory) {
			t.Fatalf("expected errNoHistory, got %v", err)
		}
	})

	t.Run("single run", func(t *testing.T) {
		t.Parallel()

		_, historyDir := seedHistory(t, sampleExport)

		_, _, err := executeRoot(t, "compare", "--history-dir", historyDir)
		if err == nil || !strings.Contains(err.Error(), "at least 2 runs") {
			t.Fatalf("expected at least 2 runs error, got %v", err)
		}
	})

	t.Run("unknown run ID", func(t *testing.T) {
		t.Parallel()

		_, historyDir := seedHistory(t, sampleExport, laterExport)

		_, _, err := executeRoot(t, "compare", "--with-run-id", "99", "--history-dir", historyDir)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("run ID of the latest run", func(t *testing.T) {
		t.Parallel()

		_, historyDir := seedHistory(t, sampleExport, laterExport)

		_, _, err := executeRoot(t, "compare", "--with-run-id", "2", "--history-dir", historyDir)
		if err == nil || !strings.Contains(err.Error(), "latest run") {
			t.Fatalf("expected latest run error, got %v", err)
		}
	})
}
