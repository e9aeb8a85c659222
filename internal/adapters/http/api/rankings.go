// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/ranking"
)

// RankingsDependencies defines the interface for ranking operations.
type RankingsDependencies interface {
	Rankings(ctx context.Context, ageGroup string, weights model.WeightMap) ([]ranking.Entry, error)
	DrillRankings(ctx context.Context, ageGroup, drillKey string) ([]ranking.DrillEntry, error)
}

// RankingsHandler handles ranking requests.
type RankingsHandler struct {
	deps RankingsDependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// rankingsRequest mirrors POST /rankings. A null/omitted weights map means
// "use catalog defaults"; an explicit map is authoritative.
type rankingsRequest struct {
	AgeGroup string          `json:"age_group"`
	Weights  model.WeightMap `json:"weights"`
}

// HandlePostRankings handles POST /rankings requests.
func (h *RankingsHandler) HandlePostRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rankings"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rankingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	entries, err := h.deps.Rankings(r.Context(), req.AgeGroup, req.Weights)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// HandleGetDrillRankings handles GET /rankings/drill?age_group=&drill=
// requests.
func (h *RankingsHandler) HandleGetDrillRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_drill_rankings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	drillKey := r.URL.Query().Get("drill")
	if drillKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.DrillRankings(r.Context(), r.URL.Query().Get("age_group"), drillKey)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
