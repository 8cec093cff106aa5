// Package aggregate reduces dated observations into a cumulative best score
// per quarter.
package aggregate

import (
	"slices"

	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/internal/domain/quarter"
)

// CumulativeBest returns, for each quarter of grid, the highest score among
// points dated on or before the quarter's end. Quarters before the first
// point are nil. The input slice is not modified.
func CumulativeBest(points []model.Point, grid quarter.Grid) []*float64 {
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b model.Point) int {
		return a.Date.Compare(b.Date)
	})

	out := make([]*float64, len(grid))
	var (
		best    float64
		defined bool
		next    int
	)
	for i, q := range grid {
		end := q.End()
		for next < len(sorted) && !sorted[next].Date.After(end) {
			if !defined || sorted[next].Score > best {
				best = sorted[next].Score
				defined = true
			}
			next++
		}
		if defined {
			out[i] = model.Score(best)
		}
	}
	return out
}

// Rows expands per-lab series into store rows for one benchmark. Every lab in
// labs gets one row per quarter, absent labs included, with scores rounded to
// one decimal.
func Rows(benchmark string, labs []string, grid quarter.Grid, series map[string][]*float64) []model.ScoreRow {
	labels := grid.Labels()
	rows := make([]model.ScoreRow, 0, len(labs)*len(grid))
	for _, lab := range labs {
		values := series[lab]
		for i, label := range labels {
			row := model.ScoreRow{Benchmark: benchmark, Lab: lab, Quarter: label}
			if i < len(values) && values[i] != nil {
				row.Score = model.Score(model.RoundScore(*values[i]))
			}
			rows = append(rows, row)
		}
	}
	return rows
}
