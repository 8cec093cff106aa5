// Package normalize turns raw benchmark table rows into dated scores per
// canonical lab. Rows that fail any check are dropped whole and tallied.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/internal/domain/schema"
)

// Default normalizer configuration constants.
const (
	defaultMaxSamples = 5
)

// Reason classifies a dropped row.
type Reason string

// Drop reasons.
const (
	ReasonUnknownOrg Reason = "unknown_org"
	ReasonBadDate    Reason = "bad_date"
	ReasonBadScore   Reason = "bad_score"
)

// dateLayouts are tried in order; dates without a zone are UTC.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
	"2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// LabLookup resolves a normalized organization name to a lab key.
type LabLookup interface {
	LabForAlias(alias string) (string, bool)
}

// RecordParseError describes one rejected row.
type RecordParseError struct {
	Row    int // 1-based data row, header excluded
	Reason Reason
	Value  string
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("row %d: %s: %q", e.Row, e.Reason, e.Value)
}

// Unwrap exposes the sentinel kind.
func (e *RecordParseError) Unwrap() error { return ErrRecordParse }

// Diagnostics summarizes what happened to the rows of one table.
type Diagnostics struct {
	Records    int
	Accepted   int
	UnknownOrg int
	BadDate    int
	BadScore   int
	// UnknownOrgs counts unmapped organization keys, for tuning aliases.
	UnknownOrgs map[string]int
	// Samples keeps the first few rejections for logging.
	Samples []*RecordParseError
}

// Dropped returns the number of rejected rows.
func (d Diagnostics) Dropped() int {
	return d.UnknownOrg + d.BadDate + d.BadScore
}

// ParseErrors is BadDate plus BadScore, the rows that had a known lab but
// unusable values.
func (d Diagnostics) ParseErrors() int {
	return d.BadDate + d.BadScore
}

// Result carries accepted points by lab together with diagnostics.
type Result struct {
	Points      map[string][]model.Point
	Diagnostics Diagnostics
}

// Scores returns every accepted raw score, across labs.
func (r Result) Scores() []float64 {
	var out []float64
	for _, pts := range r.Points {
		for _, p := range pts {
			out = append(out, p.Score)
		}
	}
	return out
}

// Labs returns the labs that received at least one point, in the order of keys.
func (r Result) Labs(keys []string) []string {
	var out []string
	for _, k := range keys {
		if len(r.Points[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithMaxSamples bounds how many rejections are kept verbatim.
func WithMaxSamples(n int) Option {
	return func(nz *Normalizer) {
		if n >= 0 {
			nz.maxSamples = n
		}
	}
}

// Normalizer maps table rows to lab points.
type Normalizer struct {
	labs       LabLookup
	maxSamples int
}

// New creates a Normalizer backed by the given organization lookup.
func New(labs LabLookup, opts ...Option) *Normalizer {
	n := &Normalizer{labs: labs, maxSamples: defaultMaxSamples}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts every row of t using the resolved columns.
func (n *Normalizer) Normalize(t *Table, cols schema.Columns) Result {
	res := Result{
		Points:      map[string][]model.Point{},
		Diagnostics: Diagnostics{UnknownOrgs: map[string]int{}},
	}
	d := &res.Diagnostics

	for i, row := range t.Rows {
		d.Records++

		rawOrg := t.Get(row, cols.Organization)
		org := OrganizationKey(rawOrg)
		lab, ok := n.labs.LabForAlias(org)
		if !ok || org == "" {
			d.UnknownOrg++
			d.UnknownOrgs[org]++
			n.sample(d, i, ReasonUnknownOrg, rawOrg)
			continue
		}

		rawDate := t.Get(row, cols.Date)
		date, err := ParseDate(rawDate)
		if err != nil {
			d.BadDate++
			n.sample(d, i, ReasonBadDate, rawDate)
			continue
		}

		rawScore := t.Get(row, cols.Score)
		score, err := ParseScore(rawScore)
		if err != nil {
			d.BadScore++
			n.sample(d, i, ReasonBadScore, rawScore)
			continue
		}

		d.Accepted++
		res.Points[lab] = append(res.Points[lab], model.Point{Date: date, Score: score})
	}
	return res
}

func (n *Normalizer) sample(d *Diagnostics, idx int, reason Reason, value string) {
	if len(d.Samples) >= n.maxSamples {
		return
	}
	d.Samples = append(d.Samples, &RecordParseError{Row: idx + 1, Reason: reason, Value: value})
}

// OrganizationKey reduces a raw organization cell to its lookup key: the text
// before the first comma, trimmed and lowercased.
func OrganizationKey(raw string) string {
	primary, _, _ := strings.Cut(raw, ",")
	return strings.ToLower(strings.TrimSpace(primary))
}

// ParseDate parses a calendar date in one of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrRecordParse)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrRecordParse, s)
}

// ParseScore parses a finite number, allowing a trailing percent sign.
func ParseScore(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, fmt.Errorf("%w: empty score", ErrRecordParse)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-numeric score %q", ErrRecordParse, s)
	}
	return v, nil
}
