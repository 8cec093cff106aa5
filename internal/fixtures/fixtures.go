// Package fixtures builds benchmark archives for tests, local runs and the
// fixture command.
package fixtures

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ArchiveName is the file name the fixture server publishes.
const ArchiveName = "benchmark_data.zip"

// CSV renders a header and rows as CSV text.
func CSV(header []string, rows ...[]string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(header)
	for _, r := range rows {
		_ = w.Write(r)
	}
	w.Flush()
	return b.String()
}

// Zip packs files into a zip archive. Names may include folders. Entries are
// written in name order.
func Zip(files map[string]string) ([]byte, error) {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		if err != nil {
			return nil, fmt.Errorf("zip %s: %w", n, err)
		}
		if _, err := w.Write([]byte(files[n])); err != nil {
			return nil, fmt.Errorf("zip %s: %w", n, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Nest prefixes every file name with dir, the way the upstream archive keeps
// its tables in a folder.
func Nest(dir string, files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for n, body := range files {
		out[dir+"/"+n] = body
	}
	return out
}

// Handler serves data as a zip download at /ArchiveName.
func Handler(data []byte) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+ArchiveName, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(data)
	})
	return mux
}

// Sample returns a small hand-written table for every benchmark in the
// default catalog. Fractional and percentage scales are mixed, and each file
// has rows that must be dropped.
func Sample() map[string]string {
	return map[string]string{
		"swe_bench_verified.csv": CSV(
			[]string{"Model version", "mean_score", "Release date", "Organization"},
			[]string{"gpt-4o-2024-05-13", "0.33", "2024-05-13", "OpenAI"},
			[]string{"claude-3-5-sonnet-20241022", "0.49", "2024-10-22", "Anthropic"},
			[]string{"gemini-2.5-pro", "0.638", "2025-03-25", "Google DeepMind"},
			[]string{"llama-3.1-405b", "n/a", "2024-07-23", "Meta AI"},
		),
		"arc_agi_external.csv": CSV(
			[]string{"Model", "Score", "Release date", "Organization"},
			[]string{"o3", "75.7", "2024-12-20", "OpenAI"},
			[]string{"grok-3", "15.0", "2025-02-17", "xAI"},
			[]string{"mystery", "99", "2024-01-01", "Unknown Lab"},
		),
		"arc_agi_2_external.csv": CSV(
			[]string{"Model", "Score", "Release date", "Organization"},
			[]string{"o3", "0.03", "2025-04-16", "OpenAI"},
			[]string{"claude-opus-4", "0.086", "2025-05-22", "Anthropic"},
		),
		"hle_external.csv": CSV(
			[]string{"Model", "Accuracy", "Release date", "Organization"},
			[]string{"o3", "20.3", "2025-04-16", "OpenAI"},
			[]string{"gemini-2.5-pro", "21.6", "2025-03-25", "Google"},
			[]string{"grok-4", "25.4", "2025-07-09", "xAI"},
		),
		"mmlu_external.csv": CSV(
			[]string{"Model", "EM", "Release date", "Organization"},
			[]string{"gpt-4", "0.864", "2023-03-14", "OpenAI"},
			[]string{"llama-2-70b", "0.79", "2023-07-18", "Meta"},
			[]string{"gemini-ultra", "0.90", "2023-12-06", "Google DeepMind, Google"},
			[]string{"claude-2", "0.785", "sometime", "Anthropic"},
		),
		"gpqa_diamond.csv": CSV(
			[]string{"Model version", "mean_score", "Release date", "Organization"},
			[]string{"gpt-4o", "0.51", "2024-05-13", "OpenAI"},
			[]string{"claude-3-opus", "0.50", "2024-03-04", "Anthropic"},
			[]string{"o1", "0.78", "2024-12-05", "OpenAI"},
		),
		"otis_mock_aime_2024_2025.csv": CSV(
			[]string{"Model version", "mean_score", "Release date", "Organization"},
			[]string{"o1", "0.74", "2024-12-05", "OpenAI"},
			[]string{"deepseek-r1", "0.71", "2025-01-20", "DeepSeek"},
		),
	}
}

// SampleArchive zips Sample inside a benchmark_data folder.
func SampleArchive() ([]byte, error) {
	return Zip(Nest("benchmark_data", Sample()))
}
