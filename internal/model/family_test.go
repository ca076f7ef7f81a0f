package model

import (
	"encoding/json"
	"testing"
)

// TestFamilyString tests that every family has a distinct wire tag.
func TestFamilyString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		family   Family
		expected string
	}{
		{FamilyOther, "other"},
		{FamilyReadinessHub, "readiness_hub"},
		{FamilyDirectoryLegacy, "directory_legacy"},
		{FamilyRolePage, "role_page"},
		{FamilyPricingPage, "pricing_page"},
		{FamilyAlternativesPage, "alternatives_page"},
		{FamilyComparePage, "compare_page"},
		{FamilyMatrixFrameworkIndustry, "matrix_framework_industry"},
		{FamilyFrameworkSlug, "framework_slug"},
		{FamilyComplianceFrameworkSlug, "compliance_framework_slug"},
		{Family(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := tc.family.String(); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestFamiliesIsClosed verifies the family set has exactly ten distinct, parseable members.
func TestFamiliesIsClosed(t *testing.T) {
	t.Parallel()

	families := Families()
	if len(families) != 10 {
		t.Fatalf("expected 10 families, got %d", len(families))
	}

	seen := make(map[string]bool)
	for _, f := range families {
		tag := f.String()
		if tag == "unknown" {
			t.Errorf("family %d has no tag", int(f))
		}
		if seen[tag] {
			t.Errorf("duplicate family tag %q", tag)
		}
		seen[tag] = true

		parsed, err := ParseFamily(tag)
		if err != nil {
			t.Errorf("ParseFamily(%q) returned error: %v", tag, err)
		}
		if parsed != f {
			t.Errorf("ParseFamily(%q) = %v, expected %v", tag, parsed, f)
		}
	}
}

// TestActionsIsClosed verifies the action set has exactly nine distinct, parseable members.
func TestActionsIsClosed(t *testing.T) {
	t.Parallel()

	actions := Actions()
	if len(actions) != 9 {
		t.Fatalf("expected 9 actions, got %d", len(actions))
	}

	seen := make(map[string]bool)
	for _, a := range actions {
		tag := a.String()
		if tag == "unknown" {
			t.Errorf("action %d has no tag", int(a))
		}
		if seen[tag] {
			t.Errorf("duplicate action tag %q", tag)
		}
		seen[tag] = true

		parsed, err := ParseAction(tag)
		if err != nil || parsed != a {
			t.Errorf("ParseAction(%q) = %v, %v", tag, parsed, err)
		}
	}
}

// TestActionKinds tests that every action is exactly one of redirect, restore or manual review.
func TestActionKinds(t *testing.T) {
	t.Parallel()

	for _, a := range Actions() {
		kinds := 0
		if a.IsRedirect() {
			kinds++
		}
		if a.IsRestore() {
			kinds++
		}
		if a == ActionManualReview {
			kinds++
		}
		if kinds != 1 {
			t.Errorf("action %s belongs to %d kinds, expected exactly 1", a, kinds)
		}
	}
}

// TestParseUnknownTags tests that unknown tags are rejected.
func TestParseUnknownTags(t *testing.T) {
	t.Parallel()

	if _, err := ParseFamily("landing_page"); err == nil {
		t.Error("expected error for unknown family tag")
	}
	if _, err := ParseAction("delete_everything"); err == nil {
		t.Error("expected error for unknown action tag")
	}
}

// TestFamilyActionJSON tests that tags serialize as strings inside JSON documents.
func TestFamilyActionJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals as tag strings", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(Classification{
			Pathname: "/pricing/drata",
			Family:   FamilyPricingPage,
			Action:   ActionRestoreViaPricingPageOrToolFallback,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := `{"pathname":"/pricing/drata","family":"pricing_page","action":"restore_via_pricing_page_or_tool_fallback"}`
		if string(data) != expected {
			t.Errorf("got %s, expected %s", data, expected)
		}
	})

	t.Run("invalid value fails to marshal", func(t *testing.T) {
		t.Parallel()

		if _, err := json.Marshal(Classification{Family: Family(42)}); err == nil {
			t.Error("expected error for invalid family")
		}
	})

	t.Run("unmarshals tag strings", func(t *testing.T) {
		t.Parallel()

		var c Classification
		err := json.Unmarshal([]byte(`{"family":"compare_page","action":"restore_via_compare_synth_fallback"}`), &c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Family != FamilyComparePage || c.Action != ActionRestoreViaCompareSynthFallback {
			t.Errorf("got %v/%v", c.Family, c.Action)
		}
	})
}
