// Package model contains domain models passed between pipeline stages and
// the store.
package model

import (
	"math"
	"time"
)

// Point is one normalized observation for a lab: the release date of a model
// and its score on the 0-100 scale (or raw scale before rescaling).
type Point struct {
	Date  time.Time
	Score float64
}

// ScoreRow is the persisted unit: the cumulative best score of a lab on a
// benchmark as of a quarter. Score is nil when the lab had no result yet.
type ScoreRow struct {
	Benchmark string   `json:"benchmark"`
	Lab       string   `json:"lab"`
	Quarter   string   `json:"quarter"`
	Score     *float64 `json:"score"`
}

// Key identifies a ScoreRow in the store.
type Key struct {
	Benchmark string
	Lab       string
	Quarter   string
}

// Key returns the uniqueness key of the row.
func (r ScoreRow) Key() Key {
	return Key{Benchmark: r.Benchmark, Lab: r.Lab, Quarter: r.Quarter}
}

// Score returns a pointer to v, for building rows.
func Score(v float64) *float64 {
	return &v
}

// RoundScore rounds to one decimal place, half away from zero.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// Less orders rows by benchmark, lab, then quarter label.
func Less(a, b ScoreRow) bool {
	if a.Benchmark != b.Benchmark {
		return a.Benchmark < b.Benchmark
	}
	if a.Lab != b.Lab {
		return a.Lab < b.Lab
	}
	return a.Quarter < b.Quarter
}
