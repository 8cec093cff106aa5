package fixtures

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/okian/benchtrack/internal/domain/catalog"
)

// Generator ranges.
const (
	generateSpanDays = 3 * 365
	unknownOrgEvery  = 10
	badScoreEvery    = 17
)

var generateStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generate builds a random table for every catalog benchmark. Files alternate
// between fractional and percentage scales and sprinkle in rows with unknown
// organizations or unusable scores. The same seed gives the same output.
func Generate(cat *catalog.Catalog, rowsPerFile int, seed uint64) map[string]string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	aliases := make([]string, 0, len(cat.Organizations))
	for alias := range cat.Organizations {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	files := make(map[string]string, len(cat.Benchmarks))
	for bi, b := range cat.Benchmarks {
		fractional := bi%2 == 0
		header := []string{"Model version", b.ScoreColumn, "Release date", "Organization"}
		rows := make([][]string, 0, rowsPerFile)
		for i := 0; i < rowsPerFile; i++ {
			org := aliases[rng.IntN(len(aliases))]
			if i%unknownOrgEvery == unknownOrgEvery-1 {
				org = "Independent Researcher"
			}
			score := rng.Float64()
			if !fractional {
				score *= 100
			}
			scoreCell := fmt.Sprintf("%.3f", score)
			if i%badScoreEvery == badScoreEvery-1 {
				scoreCell = "pending"
			}
			date := generateStart.AddDate(0, 0, rng.IntN(generateSpanDays))
			rows = append(rows, []string{
				fmt.Sprintf("%s-model-%d", b.Key, i),
				scoreCell,
				date.Format("2006-01-02"),
				org,
			})
		}
		files[b.File] = CSV(header, rows...)
	}
	return files
}
