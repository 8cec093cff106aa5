package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/benchtrack/internal/domain/series"
)

// Chart canvas defaults.
const (
	chartWidth  = 960
	chartHeight = 480
	// Series with a single defined quarter are drawn as a short segment.
	singlePointWidth = 0.05
)

// HandleChart handles GET /api/chart?benchmark=<key>, a PNG line chart of the
// cumulative best score per lab.
func (h *ScoresHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chart"
	if !onlyGet(w, r) {
		return
	}
	key := strings.TrimSpace(r.URL.Query().Get("benchmark"))
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing_benchmark", fmt.Errorf("%s: benchmark query parameter is required", op))
		return
	}
	board, err := h.deps.Board(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "unavailable", wrap(op, ErrUnavailable, err))
		return
	}
	var bench *series.Benchmark
	for i := range board.Benchmarks {
		if board.Benchmarks[i].Key == key {
			bench = &board.Benchmarks[i]
			break
		}
	}
	if bench == nil {
		writeError(w, http.StatusNotFound, "unknown_benchmark", fmt.Errorf("%s: unknown benchmark %q", op, key))
		return
	}

	var buf bytes.Buffer
	if err := RenderChart(&buf, board, *bench); err != nil {
		if errors.Is(err, ErrNoChartData) {
			writeError(w, http.StatusNotFound, "no_data", fmt.Errorf("%s: %w", op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "render_failed", fmt.Errorf("%s: %w", op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// RenderChart draws one benchmark of the board as PNG, one line per lab in
// catalog order. Quarters before a lab's first score are left out.
func RenderChart(w io.Writer, board series.Board, bench series.Benchmark) error {
	var lines []chart.Series
	peak := 100.0
	for _, lab := range board.Labs {
		xs, ys := definedPoints(bench.Data[lab.Key])
		if len(xs) == 0 {
			continue
		}
		for _, y := range ys {
			peak = math.Max(peak, y)
		}
		if len(xs) == 1 {
			xs = append(xs, xs[0]+singlePointWidth)
			ys = append(ys, ys[0])
		}
		col := drawing.ColorFromHex(strings.TrimPrefix(lab.Color, "#"))
		lines = append(lines, chart.ContinuousSeries{
			Name:    lab.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		})
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChartData, bench.Key)
	}

	ticks := make([]chart.Tick, len(board.TimeLabels))
	for i, label := range board.TimeLabels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	last := math.Max(float64(len(board.TimeLabels)-1), 1)

	ch := chart.Chart{
		Title:      bench.Name,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Ticks: ticks, Range: &chart.ContinuousRange{Min: 0, Max: last}},
		YAxis:      chart.YAxis{Name: "score", Range: &chart.ContinuousRange{Min: 0, Max: peak}},
		Series:     lines,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", bench.Key, err)
	}
	return nil
}

// definedPoints returns the quarter positions and values of non-nil cells.
func definedPoints(cells []*float64) (xs, ys []float64) {
	for i, v := range cells {
		if v == nil {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, *v)
	}
	return xs, ys
}
