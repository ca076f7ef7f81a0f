package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// DefaultTopTargets is the number of entries projected into RestoreReport.TopTargets.
const DefaultTopTargets = 40

// RestoreReport is the terminal artifact of one planner run.
// It is created once by NewRestoreReport and never mutated afterwards.
type RestoreReport struct {
	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generatedAt"`

	// InputFile is the path of the backlink export that was processed.
	InputFile string `json:"inputFile"`

	// Totals holds the aggregate link and target counts.
	Totals Totals `json:"totals"`

	// FrameworksPresent is the sorted, de-duplicated list of non-empty framework identifiers.
	FrameworksPresent []string `json:"frameworksPresent"`

	// CountsByFamily maps each family tag to the sum of LinkCount, ordered by count descending.
	CountsByFamily TagCounts `json:"countsByFamily"`

	// CountsByAction maps each action tag to the sum of LinkCount, ordered by count descending.
	CountsByAction TagCounts `json:"countsByAction"`

	// TopTargets is the head of RestoreSet projected to URL and link count.
	TopTargets []TopTarget `json:"topTargets"`

	// RestoreSet is every classified entry sorted by LinkCount descending.
	RestoreSet []ClassifiedEntry `json:"restoreSet"`
}

// Totals holds the aggregate counts of a report.
type Totals struct {
	// Total404Links is the sum of every entry's LinkCount.
	Total404Links int `json:"total404Links"`

	// Unique404Targets is the number of distinct destinations.
	Unique404Targets int `json:"unique404Targets"`
}

// TopTarget is the projection of an entry used in RestoreReport.TopTargets.
type TopTarget struct {
	URL       string `json:"url"`
	LinkCount int    `json:"linkCount"`
}

// NewRestoreReport sorts entries by link count and computes the summary
// statistics. The input slice is not modified. topLimit <= 0 means DefaultTopTargets.
func NewRestoreReport(entries []ClassifiedEntry, inputFile string, generatedAt time.Time, topLimit int) *RestoreReport {
	if topLimit <= 0 {
		topLimit = DefaultTopTargets
	}

	sorted := slices.Clone(entries)
	if sorted == nil {
		sorted = []ClassifiedEntry{}
	}
	// Stable: ties keep aggregation (first-seen) order.
	slices.SortStableFunc(sorted, func(a, b ClassifiedEntry) int {
		return b.LinkCount - a.LinkCount
	})

	report := &RestoreReport{
		GeneratedAt:       generatedAt,
		InputFile:         inputFile,
		FrameworksPresent: []string{},
		RestoreSet:        sorted,
	}

	families := newTagCounter()
	actions := newTagCounter()
	frameworks := make(map[string]struct{})

	for _, e := range sorted {
		report.Totals.Total404Links += e.LinkCount
		families.add(e.Family.String(), e.LinkCount)
		actions.add(e.Action.String(), e.LinkCount)
		if e.Framework != "" {
			frameworks[e.Framework] = struct{}{}
		}
	}
	report.Totals.Unique404Targets = len(sorted)

	for fw := range frameworks {
		report.FrameworksPresent = append(report.FrameworksPresent, fw)
	}
	slices.Sort(report.FrameworksPresent)

	report.CountsByFamily = families.sorted()
	report.CountsByAction = actions.sorted()

	n := min(topLimit, len(sorted))
	report.TopTargets = make([]TopTarget, 0, n)
	for _, e := range sorted[:n] {
		report.TopTargets = append(report.TopTargets, TopTarget{URL: e.URL, LinkCount: e.LinkCount})
	}

	return report
}

// EntriesWithAction returns the entries bearing the given action, in report order.
func (r *RestoreReport) EntriesWithAction(action Action) []ClassifiedEntry {
	var out []ClassifiedEntry
	for _, e := range r.RestoreSet {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// TagCount is one tag and the summed link count of the entries bearing it.
type TagCount struct {
	Tag   string
	Links int
}

// TagCounts is an ordered tag-to-count mapping. It serializes as a JSON
// object whose key order is the slice order.
type TagCounts []TagCount

// Get returns the count for tag, or zero when absent.
func (tc TagCounts) Get(tag string) int {
	for _, c := range tc {
		if c.Tag == tag {
			return c.Links
		}
	}
	return 0
}

// MarshalJSON implements json.Marshaler.
func (tc TagCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range tc {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Tag)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Links))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order.
func (tc *TagCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*tc = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tag counts: expected object, got %v", tok)
	}

	out := TagCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tag counts: expected string key, got %v", keyTok)
		}
		var links int
		if err := dec.Decode(&links); err != nil {
			return fmt.Errorf("tag counts: value for %q: %w", key, err)
		}
		out = append(out, TagCount{Tag: key, Links: links})
	}
	*tc = out
	return nil
}

// tagCounter sums link counts per tag, remembering first-seen order.
type tagCounter struct {
	index  map[string]int
	counts TagCounts
}

func newTagCounter() *tagCounter {
	return &tagCounter{index: make(map[string]int)}
}

func (c *tagCounter) add(tag string, links int) {
	if i, ok := c.index[tag]; ok {
		c.counts[i].Links += links
		return
	}
	c.index[tag] = len(c.counts)
	c.counts = append(c.counts, TagCount{Tag: tag, Links: links})
}

func (c *tagCounter) sorted() TagCounts {
	out := slices.Clone(c.counts)
	if out == nil {
		out = TagCounts{}
	}
	slices.SortStableFunc(out, func(a, b TagCount) int {
		return b.Links - a.Links
	})
	return out
}
