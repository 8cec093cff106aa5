package api

import (
	"net/http"

	"github.com/okian/benchtrack/internal/domain/model"
)

// ScoresHandler serves stored scores.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleScores handles GET /api/scores, the raw ordered rows.
func (h *ScoresHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	if !onlyGet(w, r) {
		return
	}
	rows, err := h.deps.Scores(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "unavailable", wrap(op, ErrUnavailable, err))
		return
	}
	if rows == nil {
		rows = []model.ScoreRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleBenchmarks handles GET /api/benchmarks, the chart-ready board.
func (h *ScoresHandler) HandleBenchmarks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_benchmarks"
	if !onlyGet(w, r) {
		return
	}
	board, err := h.deps.Board(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "unavailable", wrap(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}
