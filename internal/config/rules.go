package config

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/restoreplan/internal/classify"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// RulesConfig is the rules section of a configuration file.
// Every field is optional; unset fields keep the default.
type RulesConfig struct {
	// ReadinessHubRoot is the path of the readiness hub, e.g. "/soc-2-readiness".
	ReadinessHubRoot string `yaml:"readinessHubRoot,omitempty"`

	// ReadinessHubFramework is the framework reported for readiness hub children.
	ReadinessHubFramework string `yaml:"readinessHubFramework,omitempty"`

	// RoleFramework is the framework whose /<framework>/for/<role> pages are role pages.
	RoleFramework string `yaml:"roleFramework,omitempty"`

	// Frameworks replaces the known framework list.
	Frameworks []string `yaml:"frameworks,omitempty"`

	// ExtraFrameworks is appended to the known framework list.
	ExtraFrameworks []string `yaml:"extraFrameworks,omitempty"`

	// LegacyRedirects replaces the legacy directory redirect table.
	LegacyRedirects map[string]string `yaml:"legacyRedirects,omitempty"`

	// ExtraLegacyRedirects is added to the legacy directory redirect table,
	// overriding entries with the same path.
	ExtraLegacyRedirects map[string]string `yaml:"extraLegacyRedirects,omitempty"`
}

// File represents the structure of the .restoreplan configuration file.
type File struct {
	// Output overrides the JSON plan output path.
	Output string `yaml:"output,omitempty"`

	// Markdown sets a Markdown summary output path.
	Markdown string `yaml:"markdown,omitempty"`

	// TopTargets overrides the top-target limit.
	TopTargets int `yaml:"topTargets,omitempty"`

	// Rules adjusts the classifier rules.
	Rules RulesConfig `yaml:"rules,omitempty"`
}

// DefaultRules parses the embedded default classifier rules.
func DefaultRules() (classify.Rules, error) {
	var rc RulesConfig
	if err := yaml.Unmarshal(defaultRulesYAML, &rc); err != nil {
		return classify.Rules{}, fmt.Errorf("failed to parse default rules: %w", err)
	}
	return rc.Merge(classify.Rules{}), nil
}

// Merge returns base with the values set in rc applied on top.
// base is not modified.
func (rc RulesConfig) Merge(base classify.Rules) classify.Rules {
	result := classify.Rules{
		ReadinessHubRoot:      base.ReadinessHubRoot,
		ReadinessHubFramework: base.ReadinessHubFramework,
		RoleFramework:         base.RoleFramework,
		Frameworks:            slices.Clone(base.Frameworks),
		LegacyRedirects:       maps.Clone(base.LegacyRedirects),
	}

	if rc.ReadinessHubRoot != "" {
		result.ReadinessHubRoot = rc.ReadinessHubRoot
	}
	if rc.ReadinessHubFramework != "" {
		result.ReadinessHubFramework = rc.ReadinessHubFramework
	}
	if rc.RoleFramework != "" {
		result.RoleFramework = rc.RoleFramework
	}

	if len(rc.Frameworks) > 0 {
		result.Frameworks = slices.Clone(rc.Frameworks)
	}
	for _, fw := range rc.ExtraFrameworks {
		if !slices.Contains(result.Frameworks, fw) {
			result.Frameworks = append(result.Frameworks, fw)
		}
	}

	if len(rc.LegacyRedirects) > 0 {
		result.LegacyRedirects = maps.Clone(rc.LegacyRedirects)
	}
	if len(rc.ExtraLegacyRedirects) > 0 && result.LegacyRedirects == nil {
		result.LegacyRedirects = make(map[string]string, len(rc.ExtraLegacyRedirects))
	}
	maps.Copy(result.LegacyRedirects, rc.ExtraLegacyRedirects)

	return result
}
