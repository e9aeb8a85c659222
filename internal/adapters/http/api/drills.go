// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fieldday/combine/internal/domain/model"
)

// DrillsDependencies defines the interface for drill catalog operations.
type DrillsDependencies interface {
	ReplaceDrills(ctx context.Context, drills []model.Drill) (uint64, error)
	Drills(ctx context.Context) []model.Drill
}

// DrillsHandler handles drill catalog requests.
type DrillsHandler struct {
	deps DrillsDependencies
}

// NewDrillsHandler creates a new drills handler.
func NewDrillsHandler(deps DrillsDependencies) *DrillsHandler {
	return &DrillsHandler{deps: deps}
}

type drillsRequest struct {
	Drills []model.Drill `json:"drills"`
}

func (r drillsRequest) validate() error {
	const op = "api.put_drills"
	seen := make(map[string]struct{}, len(r.Drills))
	for _, d := range r.Drills {
		if strings.TrimSpace(d.Key) == "" {
			return NewKind(op, ErrBadRequest)
		}
		if _, dup := seen[d.Key]; dup {
			return NewKind(op, ErrBadRequest)
		}
		seen[d.Key] = struct{}{}
		if d.HasRange() && *d.MaxValue < *d.MinValue {
			return NewKind(op, ErrBadRequest)
		}
	}
	return nil
}

type drillsResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// HandleDrills handles PUT /drills (replace catalog) and GET /drills.
func (h *DrillsHandler) HandleDrills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handlePut(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *DrillsHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_drills"
	var req drillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	version, err := h.deps.ReplaceDrills(r.Context(), req.Drills)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, drillsResponse{Status: "replaced", Count: len(req.Drills), Version: version})
}

func (h *DrillsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"drills": h.deps.Drills(r.Context())})
}
