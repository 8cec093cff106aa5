// Package repository persists benchmark score rows and reads them back.
package repository

import (
	"context"

	"github.com/okian/benchtrack/internal/domain/model"
)

// Table is the name of the score table in every backend.
const Table = "benchmark_scores"

// Store provides atomic writes and ordered reads of score rows.
type Store interface {
	// Upsert writes rows keyed by (benchmark, lab, quarter), replacing any
	// existing row with the same key. Either every row is written or none.
	Upsert(ctx context.Context, rows []model.ScoreRow) error

	// List returns all rows ordered by benchmark, lab, then quarter.
	List(ctx context.Context) ([]model.ScoreRow, error)

	// Close releases backend resources.
	Close() error
}

// Collapse drops earlier rows whose key reappears later in the batch, keeping
// the order of first appearance.
func Collapse(rows []model.ScoreRow) []model.ScoreRow {
	pos := make(map[model.Key]int, len(rows))
	out := make([]model.ScoreRow, 0, len(rows))
	for _, r := range rows {
		if i, ok := pos[r.Key()]; ok {
			out[i] = r
			continue
		}
		pos[r.Key()] = len(out)
		out = append(out, r)
	}
	return out
}
