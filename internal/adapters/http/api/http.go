// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/domain/cohort"
	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/ranking"
	"github.com/fieldday/combine/internal/domain/scoring"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ReplaceRoster(ctx context.Context, players []model.Player) (uint64, error)
	ReplaceDrills(ctx context.Context, drills []model.Drill) (uint64, error)
	Roster(ctx context.Context) []model.Player
	Drills(ctx context.Context) []model.Drill

	Rankings(ctx context.Context, ageGroup string, weights model.WeightMap) ([]ranking.Entry, error)
	DrillRankings(ctx context.Context, ageGroup, drillKey string) ([]ranking.DrillEntry, error)
	Breakdown(ctx context.Context, playerID string, weights model.WeightMap) ([]scoring.Contribution, error)
	FormTeams(ctx context.Context, ageGroup string, weights model.WeightMap, teamCount int, strategy string) (balancing.Result, error)
	Summary(ctx context.Context) cohort.Summary
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	rosterHandler    *RosterHandler
	drillsHandler    *DrillsHandler
	rankingsHandler  *RankingsHandler
	teamsHandler     *TeamsHandler
	summaryHandler   *SummaryHandler
	breakdownHandler *BreakdownHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, defaultTeamCount int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		rosterHandler:    NewRosterHandler(deps),
		drillsHandler:    NewDrillsHandler(deps),
		rankingsHandler:  NewRankingsHandler(deps),
		teamsHandler:     NewTeamsHandler(deps, defaultTeamCount),
		summaryHandler:   NewSummaryHandler(deps),
		breakdownHandler: NewBreakdownHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/roster", MetricsMiddleware(s.rosterHandler.HandleRoster, "roster"))
	mux.HandleFunc("/drills", MetricsMiddleware(s.drillsHandler.HandleDrills, "drills"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandlePostRankings, "rankings"))
	mux.HandleFunc("/rankings/drill", MetricsMiddleware(s.rankingsHandler.HandleGetDrillRankings, "rankings_drill"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandlePostTeams, "teams"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.breakdownHandler.HandlePostBreakdown, "breakdown"))
}

// wirePlayer mirrors the roster payload. Scores arrive nullable: a null or
// absent measurement means "not evaluated" and must never be coerced to
// zero, so nils are dropped while building the domain player.
type wirePlayer struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Number   int                 `json:"number"`
	AgeGroup string              `json:"age_group"`
	Scores   map[string]*float64 `json:"scores"`
}

func (w wirePlayer) toModel() model.Player {
	p := model.Player{
		ID:       w.ID,
		Name:     w.Name,
		Number:   w.Number,
		AgeGroup: w.AgeGroup,
	}
	if len(w.Scores) > 0 {
		p.Scores = make(map[string]float64, len(w.Scores))
		for key, v := range w.Scores {
			if v != nil {
				p.Scores[key] = *v
			}
		}
	}
	return p
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound reports whether an upstream error should translate to 404.
// Best-effort check that stays generic to avoid tight coupling with
// specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "unknown drill")
}
