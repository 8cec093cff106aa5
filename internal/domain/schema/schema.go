// Package schema resolves which columns of an upstream table hold the score,
// release date and organization.
package schema

import (
	"fmt"
	"strings"
)

// Column names a logical field of a benchmark table.
type Column string

// Logical columns.
const (
	ColumnScore        Column = "score"
	ColumnDate         Column = "date"
	ColumnOrganization Column = "organization"
)

// Fallback aliases, tried in order after the benchmark's preferred column.
var (
	ScoreAliases        = []string{"Score", "score", "mean_score", "Accuracy", "accuracy", "EM", "em"}
	DateAliases         = []string{"Release date", "release_date", "Date", "date", "Publication date"}
	OrganizationAliases = []string{"Organization", "organization", "Org", "org"}
)

// Columns holds the resolved header names of one table.
type Columns struct {
	Score        string `json:"score,omitempty"`
	Date         string `json:"date,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// Resolve picks the score, date and organization columns out of headers.
// Matching is exact and case-sensitive.
func Resolve(headers []string, preferredScore string) (Columns, error) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	scoreCandidates := ScoreAliases
	if preferredScore != "" {
		scoreCandidates = append([]string{preferredScore}, ScoreAliases...)
	}

	var cols Columns
	var ok bool
	if cols.Score, ok = first(present, scoreCandidates); !ok {
		return Columns{}, &ResolutionError{Column: ColumnScore, Tried: scoreCandidates, Headers: headers}
	}
	if cols.Date, ok = first(present, DateAliases); !ok {
		return Columns{}, &ResolutionError{Column: ColumnDate, Tried: DateAliases, Headers: headers}
	}
	if cols.Organization, ok = first(present, OrganizationAliases); !ok {
		return Columns{}, &ResolutionError{Column: ColumnOrganization, Tried: OrganizationAliases, Headers: headers}
	}
	return cols, nil
}

func first(present map[string]bool, candidates []string) (string, bool) {
	for _, c := range candidates {
		if present[c] {
			return c, true
		}
	}
	return "", false
}

// ResolutionError reports a column that none of the aliases matched. It is a
// per-file condition: the file is skipped and the run continues.
type ResolutionError struct {
	Column  Column
	Tried   []string
	Headers []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no %s column found (tried %s); headers: %s",
		e.Column, quoteAll(e.Tried), strings.Join(e.Headers, ", "))
}

// Unwrap exposes the sentinel kind.
func (e *ResolutionError) Unwrap() error { return ErrSchema }

func quoteAll(in []string) string {
	q := make([]string, len(in))
	for i, s := range in {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}
