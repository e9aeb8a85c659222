// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/domain/model"
)

// TeamsDependencies defines the interface for team formation.
type TeamsDependencies interface {
	FormTeams(ctx context.Context, ageGroup string, weights model.WeightMap, teamCount int, strategy string) (balancing.Result, error)
}

// TeamsHandler handles team formation requests.
type TeamsHandler struct {
	deps             TeamsDependencies
	defaultTeamCount int
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamsDependencies, defaultTeamCount int) *TeamsHandler {
	return &TeamsHandler{deps: deps, defaultTeamCount: defaultTeamCount}
}

// teamsRequest mirrors POST /teams. TeamCount nil applies the configured
// default; zero and negative counts degrade to an empty partition because
// they occur transiently while the surrounding UI is still loading.
type teamsRequest struct {
	AgeGroup  string          `json:"age_group"`
	Weights   model.WeightMap `json:"weights"`
	TeamCount *int            `json:"team_count"`
	Strategy  string          `json:"strategy"`
}

// HandlePostTeams handles POST /teams requests.
func (h *TeamsHandler) HandlePostTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_teams"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req teamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	teamCount := h.defaultTeamCount
	if req.TeamCount != nil {
		teamCount = *req.TeamCount
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = balancing.StrategyBalanced
	}

	result, err := h.deps.FormTeams(r.Context(), req.AgeGroup, req.Weights, teamCount, strategy)
	if err != nil {
		if errors.Is(err, balancing.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, "unknown_strategy", err)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
