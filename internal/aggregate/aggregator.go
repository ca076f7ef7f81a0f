package aggregate

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/restoreplan/internal/input"
	"github.com/nao1215/restoreplan/internal/model"
)

// Column names recognized in the export header.
const (
	// ColumnTargetURL holds the broken destination URL. Required.
	ColumnTargetURL = "Target URL"

	// ColumnStatusCode holds the destination's HTTP status. Required.
	ColumnStatusCode = "Target HTTP status code"

	// ColumnReferringPage holds the page the link was found on. Optional.
	ColumnReferringPage = "Referring page URL"

	// StatusNotFound is the only non-blank status that qualifies a row.
	StatusNotFound = "404"
)

// ErrMissingColumn is returned when a required column is absent from the header.
// It is fatal for the whole run.
var ErrMissingColumn = errors.New("required column missing from header")

// Result holds the aggregated targets and row accounting for logging.
type Result struct {
	// Targets has one entry per distinct destination, in first-seen order.
	Targets []model.LinkTarget

	// RowsRead is the number of data rows inspected.
	RowsRead int

	// RowsQualified is the number of rows that passed the 404 filter.
	// It always equals the sum of Targets[i].LinkCount.
	RowsQualified int
}

// Option configures Aggregate.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for stage-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Aggregate keeps rows whose target URL is non-empty and whose status is
// blank or exactly "404", then counts qualifying rows per destination.
//
// Rows with a blank status are kept on purpose: some exports omit the status
// for pages that were already removed. Skipped rows are not errors and are
// not logged individually.
func Aggregate(table input.Table, opts ...Option) (Result, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	urlIdx := findColumn(table.Header, ColumnTargetURL)
	if urlIdx < 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnTargetURL)
	}
	statusIdx := findColumn(table.Header, ColumnStatusCode)
	if statusIdx < 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnStatusCode)
	}
	referrerIdx := findColumn(table.Header, ColumnReferringPage)

	res := Result{Targets: []model.LinkTarget{}}
	index := make(map[string]int)
	domains := make(map[string]map[string]struct{})

	for _, row := range table.Rows {
		res.RowsRead++

		target := strings.TrimSpace(input.Field(row, urlIdx))
		if target == "" {
			continue
		}
		status := strings.TrimSpace(input.Field(row, statusIdx))
		if status != "" && status != StatusNotFound {
			continue
		}

		res.RowsQualified++
		i, ok := index[target]
		if !ok {
			i = len(res.Targets)
			index[target] = i
			res.Targets = append(res.Targets, model.LinkTarget{URL: target})
		}
		res.Targets[i].LinkCount++

		if referrerIdx < 0 {
			continue
		}
		if domain := registrableDomain(input.Field(row, referrerIdx)); domain != "" {
			if domains[target] == nil {
				domains[target] = make(map[string]struct{})
			}
			domains[target][domain] = struct{}{}
		}
	}

	for i := range res.Targets {
		res.Targets[i].ReferringDomains = len(domains[res.Targets[i].URL])
	}

	o.logger.Debug("aggregated 404 targets",
		"rows", res.RowsRead,
		"qualified", res.RowsQualified,
		"targets", len(res.Targets),
		"referringDomains", referrerIdx >= 0,
	)

	return res, nil
}

// findColumn returns the index of name in header, or -1. Header cells are
// compared after stripping a stray byte-order mark, surrounding whitespace
// and normalizing to NFC.
func findColumn(header []string, name string) int {
	want := normalizeHeader(name)
	for i, cell := range header {
		if normalizeHeader(cell) == want {
			return i
		}
	}
	return -1
}

func normalizeHeader(cell string) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(cell))
}

// registrableDomain returns the eTLD+1 of rawURL's host, falling back to the
// bare host when the public suffix list has no answer.
func registrableDomain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
