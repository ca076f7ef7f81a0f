package history

import "github.com/nao1215/restoreplan/internal/model"

// Comparison is the difference between two runs.
type Comparison struct {
	// Previous is the older run.
	Previous RunMetadata `json:"previous"`

	// Current is the newer run.
	Current RunMetadata `json:"current"`

	// SameInput reports whether both runs read byte-identical exports.
	SameInput bool `json:"sameInput"`

	// LinkDelta is the change in total404Links.
	LinkDelta int `json:"linkDelta"`

	// NewTargets are broken in Current but not in Previous, in Current's order.
	NewTargets []Entry `json:"newTargets"`

	// ResolvedTargets were broken in Previous but not in Current, in Previous's order.
	ResolvedTargets []Entry `json:"resolvedTargets"`

	// ChangedTargets are in both runs with a different link count, in Current's order.
	ChangedTargets []TargetChange `json:"changedTargets"`

	// UnchangedCount is the number of targets present in both runs with the same link count.
	UnchangedCount int `json:"unchangedCount"`

	// FamilyDeltas lists links per family for both runs, in family order.
	// Families absent from both runs are omitted.
	FamilyDeltas []FamilyDelta `json:"familyDeltas"`
}

// TargetChange is a target whose link count changed between runs.
type TargetChange struct {
	URL      string       `json:"url"`
	Family   model.Family `json:"family"`
	Previous int          `json:"previous"`
	Current  int          `json:"current"`
	Delta    int          `json:"delta"`
}

// FamilyDelta is the change of links in one family between runs.
type FamilyDelta struct {
	Family   model.Family `json:"family"`
	Previous int          `json:"previous"`
	Current  int          `json:"current"`
	Delta    int          `json:"delta"`
}

// Compare computes what changed from previous to current.
func Compare(previous, current *Run) *Comparison {
	result := &Comparison{
		Previous:        previous.RunMetadata,
		Current:         current.RunMetadata,
		SameInput:       previous.InputDigest != "" && previous.InputDigest == current.InputDigest,
		LinkDelta:       current.TotalLinks - previous.TotalLinks,
		NewTargets:      []Entry{},
		ResolvedTargets: []Entry{},
		ChangedTargets:  []TargetChange{},
		FamilyDeltas:    []FamilyDelta{},
	}

	previousByURL := make(map[string]Entry, len(previous.Entries))
	for _, e := range previous.Entries {
		previousByURL[e.URL] = e
	}
	currentByURL := make(map[string]Entry, len(current.Entries))
	for _, e := range current.Entries {
		currentByURL[e.URL] = e
	}

	for _, e := range current.Entries {
		old, ok := previousByURL[e.URL]
		switch {
		case !ok:
			result.NewTargets = append(result.NewTargets, e)
		case old.LinkCount != e.LinkCount:
			result.ChangedTargets = append(result.ChangedTargets, TargetChange{
				URL:      e.URL,
				Family:   e.Family,
				Previous: old.LinkCount,
				Current:  e.LinkCount,
				Delta:    e.LinkCount - old.LinkCount,
			})
		default:
			result.UnchangedCount++
		}
	}

	for _, e := range previous.Entries {
		if _, ok := currentByURL[e.URL]; !ok {
			result.ResolvedTargets = append(result.ResolvedTargets, e)
		}
	}

	for _, family := range model.Families() {
		tag := family.String()
		before := previous.CountsByFamily.Get(tag)
		after := current.CountsByFamily.Get(tag)
		if before == 0 && after == 0 {
			continue
		}
		result.FamilyDeltas = append(result.FamilyDeltas, FamilyDelta{
			Family:   family,
			Previous: before,
			Current:  after,
			Delta:    after - before,
		})
	}

	return result
}
