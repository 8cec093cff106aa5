// Package series rebuilds chart-ready per-benchmark, per-lab arrays from
// stored score rows.
package series

import (
	"github.com/okian/benchtrack/internal/domain/catalog"
	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/internal/domain/quarter"
)

// Benchmark is one benchmark with its metadata and a quarter-indexed series
// per lab.
type Benchmark struct {
	catalog.Benchmark
	Data map[string][]*float64 `json:"data"`
}

// Board is the read model served to the dashboard.
type Board struct {
	TimeLabels []string      `json:"timeLabels"`
	Labs       []catalog.Lab `json:"labs"`
	Benchmarks []Benchmark   `json:"benchmarks"`
}

// Assemble places every row at its lab and quarter position. Cells without a
// row stay nil. Rows naming an unknown benchmark, lab or quarter are ignored.
func Assemble(cat *catalog.Catalog, grid quarter.Grid, rows []model.ScoreRow) Board {
	labels := grid.Labels()
	position := make(map[string]int, len(labels))
	for i, l := range labels {
		position[l] = i
	}

	board := Board{
		TimeLabels: labels,
		Labs:       cat.Labs,
		Benchmarks: make([]Benchmark, len(cat.Benchmarks)),
	}
	byKey := make(map[string]map[string][]*float64, len(cat.Benchmarks))
	for i, b := range cat.Benchmarks {
		data := make(map[string][]*float64, len(cat.Labs))
		for _, l := range cat.Labs {
			data[l.Key] = make([]*float64, len(labels))
		}
		board.Benchmarks[i] = Benchmark{Benchmark: b, Data: data}
		byKey[b.Key] = data
	}

	for _, r := range rows {
		data, ok := byKey[r.Benchmark]
		if !ok {
			continue
		}
		cells, ok := data[r.Lab]
		if !ok {
			continue
		}
		i, ok := position[r.Quarter]
		if !ok {
			continue
		}
		if r.Score != nil {
			cells[i] = model.Score(*r.Score)
		} else {
			cells[i] = nil
		}
	}
	return board
}
