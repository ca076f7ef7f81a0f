package model

// LinkTarget is a broken destination URL and the number of qualifying
// referring rows that pointed at it.
type LinkTarget struct {
	// URL is the destination exactly as found in the input.
	URL string

	// LinkCount is the number of referring rows that survived 404 filtering. Always >= 1.
	LinkCount int

	// ReferringDomains is the number of distinct registrable domains linking to URL.
	// Zero when the export has no referring-page column.
	ReferringDomains int
}

// Classification is the structural verdict for one destination path.
// Family and Action are pure functions of Pathname.
type Classification struct {
	// Pathname is the normalized path: leading slash, no trailing slash unless exactly "/".
	Pathname string `json:"pathname"`

	// Family is the structural category of the path.
	Family Family `json:"family"`

	// Action is the recommended remediation.
	Action Action `json:"action"`

	// Framework is the framework identifier extracted from the path, if any.
	Framework string `json:"framework,omitempty"`

	// PrimarySlug is the first content slug extracted from the path, if any.
	PrimarySlug string `json:"primarySlug,omitempty"`

	// SecondarySlug is the second content slug extracted from the path, if any.
	SecondarySlug string `json:"secondarySlug,omitempty"`

	// ApprovedRedirectTarget is the configured redirect destination for legacy paths.
	ApprovedRedirectTarget string `json:"approvedRedirectTarget,omitempty"`
}

// ClassifiedEntry is the durable record of one destination in the restore plan.
type ClassifiedEntry struct {
	// URL is the destination exactly as found in the input.
	URL string `json:"url"`

	// LinkCount is the aggregated referring-link count.
	LinkCount int `json:"linkCount"`

	// ReferringDomains is the distinct referring-domain count, omitted when unknown.
	ReferringDomains int `json:"referringDomains,omitempty"`

	Classification
}

// NewClassifiedEntry joins an aggregated target with its classification.
func NewClassifiedEntry(target LinkTarget, c Classification) ClassifiedEntry {
	return ClassifiedEntry{
		URL:              target.URL,
		LinkCount:        target.LinkCount,
		ReferringDomains: target.ReferringDomains,
		Classification:   c,
	}
}
