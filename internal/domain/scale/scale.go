// Package scale detects whether a benchmark file reports fractions or
// percentages and brings scores onto the 0-100 scale.
package scale

import "github.com/okian/benchtrack/internal/domain/model"

// Factors.
const (
	Identity = 1.0
	Percent  = 100.0
)

// Factor returns Percent when every score is at most 1 and Identity otherwise.
// An empty score set yields Identity.
func Factor(scores []float64) float64 {
	if len(scores) == 0 {
		return Identity
	}
	peak := scores[0]
	for _, s := range scores[1:] {
		if s > peak {
			peak = s
		}
	}
	if peak <= 1 {
		return Percent
	}
	return Identity
}

// Apply returns copies of the points multiplied by factor.
func Apply(points map[string][]model.Point, factor float64) map[string][]model.Point {
	out := make(map[string][]model.Point, len(points))
	for lab, pts := range points {
		scaled := make([]model.Point, len(pts))
		for i, p := range pts {
			scaled[i] = model.Point{Date: p.Date, Score: p.Score * factor}
		}
		out[lab] = scaled
	}
	return out
}
