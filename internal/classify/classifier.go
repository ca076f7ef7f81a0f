package classify

import (
	"net/url"
	"strings"

	"github.com/nao1215/restoreplan/internal/model"
)

const (
	alternativesSuffix = "-alternatives"
	versusSeparator    = "-vs-"
)

// Classifier applies the ordered path rules to destination URLs.
// It is immutable after New and safe for concurrent use.
type Classifier struct {
	hubRoot       string
	hubFramework  string
	roleFramework string
	frameworks    map[string]struct{}
	legacy        map[string]string
}

// New validates rules and builds a Classifier from them.
func New(rules Rules) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	c := &Classifier{
		hubRoot:       Pathname(rules.ReadinessHubRoot),
		hubFramework:  rules.ReadinessHubFramework,
		roleFramework: rules.RoleFramework,
		frameworks:    make(map[string]struct{}, len(rules.Frameworks)),
		legacy:        make(map[string]string, len(rules.LegacyRedirects)),
	}
	for _, fw := range rules.Frameworks {
		c.frameworks[fw] = struct{}{}
	}
	for from, to := range rules.LegacyRedirects {
		c.legacy[Pathname(from)] = strings.TrimSpace(to)
	}
	return c, nil
}

// Pathname normalizes a destination to a path. Absolute URLs contribute
// their escaped path; anything else is treated as a path itself. The result
// always has a leading slash and never a trailing one, except for "/".
func Pathname(raw string) string {
	raw = strings.TrimSpace(raw)

	p := raw
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.EscapedPath()
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// Classify returns the classification of rawURL. The first matching rule
// wins; later rules are not attempted.
func (c *Classifier) Classify(rawURL string) model.Classification {
	p := Pathname(rawURL)
	result := model.Classification{
		Pathname: p,
		Family:   model.FamilyOther,
		Action:   model.ActionManualReview,
	}

	if p == c.hubRoot {
		result.Family = model.FamilyReadinessHub
		result.Action = model.ActionRestoreViaReadinessHubRoute
		return result
	}

	if slug, ok := strings.CutPrefix(p, c.hubRoot+"/"); ok && isSegment(slug) {
		result.Family = model.FamilyReadinessHub
		result.Action = model.ActionRestoreViaReadinessHubRoute
		result.Framework = c.hubFramework
		result.PrimarySlug = slug
		return result
	}

	if target, ok := c.legacy[p]; ok {
		result.Family = model.FamilyDirectoryLegacy
		result.Action = model.ActionRedirectStructuralDirectoryTarget
		result.ApprovedRedirectTarget = target
		return result
	}

	segs := segments(p)

	if len(segs) == 3 && segs[0] == c.roleFramework && segs[1] == "for" {
		result.Family = model.FamilyRolePage
		result.Action = model.ActionRestoreViaRolePageUpsert
		result.Framework = c.roleFramework
		result.PrimarySlug = segs[2]
		return result
	}

	if len(segs) == 2 && segs[0] == "pricing" {
		result.Family = model.FamilyPricingPage
		result.Action = model.ActionRestoreViaPricingPageOrToolFallback
		result.PrimarySlug = segs[1]
		return result
	}

	if len(segs) == 2 && segs[0] == "compare" {
		slug := segs[1]
		if base, ok := strings.CutSuffix(slug, alternativesSuffix); ok && base != "" {
			result.Family = model.FamilyAlternativesPage
			result.Action = model.ActionRestoreViaAlternativesUpsert
			result.PrimarySlug = base
			return result
		}
		if left, right, ok := strings.Cut(slug, versusSeparator); ok && left != "" && right != "" {
			result.Family = model.FamilyComparePage
			result.Action = model.ActionRestoreViaCompareSynthFallback
			result.PrimarySlug = left
			result.SecondarySlug = right
			return result
		}
		// Neither shape: fall through to the remaining rules.
	}

	if len(segs) == 3 && c.isFramework(segs[0]) {
		result.Family = model.FamilyMatrixFrameworkIndustry
		result.Action = model.ActionRestoreViaMatrixNormalization
		result.Framework = segs[0]
		result.PrimarySlug = segs[1]
		result.SecondarySlug = segs[2]
		return result
	}

	if len(segs) == 4 && c.isFramework(segs[0]) && segs[1] == "for" {
		result.Family = model.FamilyMatrixFrameworkIndustry
		result.Action = model.ActionRestoreViaMatrixNormalization
		result.Framework = segs[0]
		result.PrimarySlug = segs[2]
		result.SecondarySlug = segs[3]
		return result
	}

	if len(segs) == 2 && c.isFramework(segs[0]) {
		result.Family = model.FamilyFrameworkSlug
		result.Action = model.ActionRestoreViaFrameworkFallback
		result.Framework = segs[0]
		result.PrimarySlug = segs[1]
		return result
	}

	if len(segs) == 3 && segs[0] == "compliance" && c.isFramework(segs[1]) {
		result.Family = model.FamilyComplianceFrameworkSlug
		result.Action = model.ActionRestoreViaFrameworkFallback
		result.Framework = segs[1]
		result.PrimarySlug = segs[2]
		return result
	}

	return result
}

// ClassifyTargets classifies every aggregated target, preserving order.
func (c *Classifier) ClassifyTargets(targets []model.LinkTarget) []model.ClassifiedEntry {
	entries := make([]model.ClassifiedEntry, 0, len(targets))
	for _, target := range targets {
		entries = append(entries, model.NewClassifiedEntry(target, c.Classify(target.URL)))
	}
	return entries
}

func (c *Classifier) isFramework(token string) bool {
	_, ok := c.frameworks[token]
	return ok
}

// segments splits a normalized path into its segments. It returns nil when
// any segment is empty, so doubled slashes never match a structural rule.
func segments(p string) []string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for _, part := range parts {
		if part == "" {
			return nil
		}
	}
	return parts
}
