// Package config provides configuration structures and utilities for restoreplan.
// It defines where the planner reads the backlink export and writes the plan,
// how many top targets the report carries, where run history is stored, and
// the classifier rules (known frameworks and legacy redirects) loaded from an
// embedded default data file and an optional .restoreplan YAML file.
package config
