// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fieldday/combine/internal/domain/model"
)

// RosterDependencies defines the interface for roster operations.
type RosterDependencies interface {
	ReplaceRoster(ctx context.Context, players []model.Player) (uint64, error)
	Roster(ctx context.Context) []model.Player
}

// RosterHandler handles roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

type rosterRequest struct {
	Players []wirePlayer `json:"players"`
}

func (r rosterRequest) validate() error {
	seen := make(map[string]struct{}, len(r.Players))
	for _, p := range r.Players {
		if strings.TrimSpace(p.ID) == "" {
			return NewKind("api.put_roster", ErrBadRequest)
		}
		if _, dup := seen[p.ID]; dup {
			return NewKind("api.put_roster", ErrBadRequest)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

type rosterResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// HandleRoster handles PUT /roster (replace) and GET /roster (read).
func (h *RosterHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handlePut(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RosterHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_roster"
	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	players := make([]model.Player, len(req.Players))
	for i, wp := range req.Players {
		players[i] = wp.toModel()
	}

	version, err := h.deps.ReplaceRoster(r.Context(), players)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{Status: "replaced", Count: len(players), Version: version})
}

func (h *RosterHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	players := h.deps.Roster(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}
