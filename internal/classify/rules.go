package classify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRules is returned when classifier rules are malformed.
var ErrInvalidRules = errors.New("invalid classifier rules")

// Rules is the data the classifier matches paths against.
type Rules struct {
	// ReadinessHubRoot is the exact path of the readiness hub, e.g. "/soc-2-readiness".
	ReadinessHubRoot string

	// ReadinessHubFramework is the framework reported for readiness hub children.
	ReadinessHubFramework string

	// RoleFramework is the framework whose /<framework>/for/<role> pages are role pages.
	RoleFramework string

	// Frameworks is the closed list of known framework identifiers.
	Frameworks []string

	// LegacyRedirects maps retired directory paths to their approved redirect target.
	LegacyRedirects map[string]string
}

// Validate checks that the rules can drive the classifier.
func (r Rules) Validate() error {
	root := strings.TrimSpace(r.ReadinessHubRoot)
	if !strings.HasPrefix(root, "/") || strings.Trim(root, "/") == "" {
		return fmt.Errorf("%w: readiness hub root %q must be a non-root absolute path", ErrInvalidRules, r.ReadinessHubRoot)
	}
	if !isSegment(r.ReadinessHubFramework) {
		return fmt.Errorf("%w: readiness hub framework %q must be a single path segment", ErrInvalidRules, r.ReadinessHubFramework)
	}
	if !isSegment(r.RoleFramework) {
		return fmt.Errorf("%w: role framework %q must be a single path segment", ErrInvalidRules, r.RoleFramework)
	}
	if len(r.Frameworks) == 0 {
		return fmt.Errorf("%w: at least one known framework is required", ErrInvalidRules)
	}
	for _, fw := range r.Frameworks {
		if !isSegment(fw) {
			return fmt.Errorf("%w: framework %q must be a single path segment", ErrInvalidRules, fw)
		}
	}
	for from, to := range r.LegacyRedirects {
		if !strings.HasPrefix(from, "/") {
			return fmt.Errorf("%w: legacy path %q must start with /", ErrInvalidRules, from)
		}
		if strings.TrimSpace(to) == "" {
			return fmt.Errorf("%w: legacy path %q has an empty redirect target", ErrInvalidRules, from)
		}
	}
	return nil
}

func isSegment(s string) bool {
	return s != "" && strings.TrimSpace(s) == s && !strings.Contains(s, "/")
}
