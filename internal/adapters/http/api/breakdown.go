// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/scoring"
)

// BreakdownDependencies defines the interface for score breakdowns.
type BreakdownDependencies interface {
	Breakdown(ctx context.Context, playerID string, weights model.WeightMap) ([]scoring.Contribution, error)
}

// BreakdownHandler handles per-player score breakdown requests.
type BreakdownHandler struct {
	deps BreakdownDependencies
}

// NewBreakdownHandler creates a new breakdown handler.
func NewBreakdownHandler(deps BreakdownDependencies) *BreakdownHandler {
	return &BreakdownHandler{deps: deps}
}

type breakdownRequest struct {
	Weights model.WeightMap `json:"weights"`
}

type breakdownResponse struct {
	PlayerID       string                 `json:"player_id"`
	CompositeScore float64                `json:"composite_score"`
	Contributions  []scoring.Contribution `json:"contributions"`
}

// HandlePostBreakdown handles POST /players/{id}/breakdown requests.
func (h *BreakdownHandler) HandlePostBreakdown(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_breakdown"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	// Extract {id} from /players/{id}/breakdown.
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	playerID, ok := strings.CutSuffix(path, "/breakdown")
	if !ok || playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var req breakdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	contributions, err := h.deps.Breakdown(r.Context(), playerID, req.Weights)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := breakdownResponse{
		PlayerID:       playerID,
		CompositeScore: scoring.Total(contributions),
		Contributions:  contributions,
	}
	writeJSON(w, http.StatusOK, resp)
}
