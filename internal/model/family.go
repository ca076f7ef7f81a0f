package model

import "fmt"

// Family is the structural category a destination path falls into.
type Family int

const (
	// FamilyOther is the fallback when no path pattern matched.
	FamilyOther Family = iota

	// FamilyReadinessHub covers the readiness hub root and its direct children.
	FamilyReadinessHub

	// FamilyDirectoryLegacy covers retired directory paths that have an approved redirect.
	FamilyDirectoryLegacy

	// FamilyRolePage covers per-role landing pages such as /soc-2/for/<role>.
	FamilyRolePage

	// FamilyPricingPage covers /pricing/<slug> pages.
	FamilyPricingPage

	// FamilyAlternativesPage covers /compare/<slug>-alternatives pages.
	FamilyAlternativesPage

	// FamilyComparePage covers /compare/<a>-vs-<b> pages.
	FamilyComparePage

	// FamilyMatrixFrameworkIndustry covers framework x industry matrix pages.
	FamilyMatrixFrameworkIndustry

	// FamilyFrameworkSlug covers /<framework>/<slug> pages.
	FamilyFrameworkSlug

	// FamilyComplianceFrameworkSlug covers /compliance/<framework>/<slug> pages.
	FamilyComplianceFrameworkSlug
)

// Families lists every Family in declaration order.
func Families() []Family {
	return []Family{
		FamilyOther,
		FamilyReadinessHub,
		FamilyDirectoryLegacy,
		FamilyRolePage,
		FamilyPricingPage,
		FamilyAlternativesPage,
		FamilyComparePage,
		FamilyMatrixFrameworkIndustry,
		FamilyFrameworkSlug,
		FamilyComplianceFrameworkSlug,
	}
}

// String returns the wire tag of the family.
func (f Family) String() string {
	switch f {
	case FamilyOther:
		return "other"
	case FamilyReadinessHub:
		return "readiness_hub"
	case FamilyDirectoryLegacy:
		return "directory_legacy"
	case FamilyRolePage:
		return "role_page"
	case FamilyPricingPage:
		return "pricing_page"
	case FamilyAlternativesPage:
		return "alternatives_page"
	case FamilyComparePage:
		return "compare_page"
	case FamilyMatrixFrameworkIndustry:
		return "matrix_framework_industry"
	case FamilyFrameworkSlug:
		return "framework_slug"
	case FamilyComplianceFrameworkSlug:
		return "compliance_framework_slug"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	s := f.String()
	if s == "unknown" {
		return nil, fmt.Errorf("invalid family value %d", int(f))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	parsed, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFamily converts a wire tag back into a Family.
func ParseFamily(tag string) (Family, error) {
	for _, f := range Families() {
		if f.String() == tag {
			return f, nil
		}
	}
	return FamilyOther, fmt.Errorf("unknown family tag %q", tag)
}

// Action is the recommended remediation for a destination.
type Action int

const (
	// ActionManualReview queues the destination for a human.
	ActionManualReview Action = iota

	// ActionRestoreViaReadinessHubRoute restores the page through the readiness hub route.
	ActionRestoreViaReadinessHubRoute

	// ActionRedirectStructuralDirectoryTarget configures a redirect to the approved directory target.
	ActionRedirectStructuralDirectoryTarget

	// ActionRestoreViaRolePageUpsert upserts the role page record.
	ActionRestoreViaRolePageUpsert

	// ActionRestoreViaPricingPageOrToolFallback restores the pricing page or falls back to the pricing tool.
	ActionRestoreViaPricingPageOrToolFallback

	// ActionRestoreViaAlternativesUpsert upserts the alternatives page record.
	ActionRestoreViaAlternativesUpsert

	// ActionRestoreViaCompareSynthFallback synthesizes the comparison page.
	ActionRestoreViaCompareSynthFallback

	// ActionRestoreViaMatrixNormalization normalizes the matrix page slugs and restores it.
	ActionRestoreViaMatrixNormalization

	// ActionRestoreViaFrameworkFallback restores the page through the framework fallback template.
	ActionRestoreViaFrameworkFallback
)

// Actions lists every Action in declaration order.
func Actions() []Action {
	return []Action{
		ActionManualReview,
		ActionRestoreViaReadinessHubRoute,
		ActionRedirectStructuralDirectoryTarget,
		ActionRestoreViaRolePageUpsert,
		ActionRestoreViaPricingPageOrToolFallback,
		ActionRestoreViaAlternativesUpsert,
		ActionRestoreViaCompareSynthFallback,
		ActionRestoreViaMatrixNormalization,
		ActionRestoreViaFrameworkFallback,
	}
}

// String returns the wire tag of the action.
func (a Action) String() string {
	switch a {
	case ActionManualReview:
		return "manual_review"
	case ActionRestoreViaReadinessHubRoute:
		return "restore_via_readiness_hub_route"
	case ActionRedirectStructuralDirectoryTarget:
		return "redirect_structural_directory_target"
	case ActionRestoreViaRolePageUpsert:
		return "restore_via_role_page_upsert"
	case ActionRestoreViaPricingPageOrToolFallback:
		return "restore_via_pricing_page_or_tool_fallback"
	case ActionRestoreViaAlternativesUpsert:
		return "restore_via_alternatives_upsert"
	case ActionRestoreViaCompareSynthFallback:
		return "restore_via_compare_synth_fallback"
	case ActionRestoreViaMatrixNormalization:
		return "restore_via_matrix_normalization"
	case ActionRestoreViaFrameworkFallback:
		return "restore_via_framework_fallback"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	s := a.String()
	if s == "unknown" {
		return nil, fmt.Errorf("invalid action value %d", int(a))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction converts a wire tag back into an Action.
func ParseAction(tag string) (Action, error) {
	for _, a := range Actions() {
		if a.String() == tag {
			return a, nil
		}
	}
	return ActionManualReview, fmt.Errorf("unknown action tag %q", tag)
}

// IsRedirect reports whether the action is handled by configuring a redirect.
func (a Action) IsRedirect() bool {
	return a == ActionRedirectStructuralDirectoryTarget
}

// IsRestore reports whether the action is handled by upserting a content record.
func (a Action) IsRestore() bool {
	switch a {
	case ActionRestoreViaReadinessHubRoute,
		ActionRestoreViaRolePageUpsert,
		ActionRestoreViaPricingPageOrToolFallback,
		ActionRestoreViaAlternativesUpsert,
		ActionRestoreViaCompareSynthFallback,
		ActionRestoreViaMatrixNormalization,
		ActionRestoreViaFrameworkFallback:
		return true
	case ActionManualReview, ActionRedirectStructuralDirectoryTarget:
		return false
	default:
		return false
	}
}
