// Package balancing partitions a roster into N teams under four
// interchangeable strategies. Three of them (balanced, snake, skill) spread
// talent across teams; ranked split deliberately does the opposite and
// produces strict skill tiers. All strategies are deterministic given
// identical input ordering.
package balancing

import (
	"fmt"
	"sort"

	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/scoring"
)

// Strategy names accepted by New.
const (
	StrategyBalanced    = "balanced"
	StrategySnakeDraft  = "snake"
	StrategySkillBased  = "skill"
	StrategyRankedSplit = "ranked"
)

// Input bundles everything a strategy needs to partition a roster.
// StatsByCohort must hold the cohort statistics for every age group present
// in the roster; composite scores are always computed against a player's
// own cohort.
type Input struct {
	Roster        []model.Player
	Drills        []model.Drill
	Weights       model.WeightMap
	StatsByCohort map[string]model.CohortStats
	TeamCount     int
}

// Stats carries skill-based balancing diagnostics for display: each
// category's per-team average, and the players whose missing category data
// was substituted with the neutral midpoint.
type Stats struct {
	CategoryAverages map[string][]float64 `json:"category_averages"`
	MissingData      map[string]bool      `json:"missing_data"`
}

// Result is the partition produced by a strategy. Stats is nil unless the
// strategy produces diagnostics.
type Result struct {
	Teams []model.Team `json:"teams"`
	Stats *Stats       `json:"stats,omitempty"`
}

// Balancer partitions a roster into teams.
type Balancer interface {
	// Name returns the strategy name the balancer was registered under.
	Name() string

	// Form partitions the roster. A TeamCount below 1 yields an empty
	// partition; it is a transient UI condition, not an error.
	Form(in Input) Result
}

// Option applies a configuration option to a strategy.
type Option func(*settings)

type settings struct {
	calc *scoring.Calculator
}

// WithCalculator sets the composite-score calculator used by the strategy.
func WithCalculator(calc *scoring.Calculator) Option {
	return func(s *settings) {
		if calc != nil {
			s.calc = calc
		}
	}
}

// New returns the balancer registered under the given strategy name.
func New(strategy string, opts ...Option) (Balancer, error) {
	s := settings{calc: scoring.NewCalculator()}
	for _, opt := range opts {
		opt(&s)
	}

	switch strategy {
	case StrategyBalanced:
		return &balancedBalancer{calc: s.calc}, nil
	case StrategySnakeDraft:
		return &snakeBalancer{calc: s.calc}, nil
	case StrategySkillBased:
		return &skillBalancer{calc: s.calc}, nil
	case StrategyRankedSplit:
		return &rankedSplitBalancer{calc: s.calc}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Strategies returns the registered strategy names.
func Strategies() []string {
	return []string{StrategyBalanced, StrategySnakeDraft, StrategySkillBased, StrategyRankedSplit}
}

// scoredPlayer pairs a player with their cohort-relative composite score.
type scoredPlayer struct {
	player model.Player
	score  float64
}

// scoreRoster computes every player's composite score against their own
// cohort's statistics, preserving roster order.
func scoreRoster(in Input, calc *scoring.Calculator) []scoredPlayer {
	scored := make([]scoredPlayer, 0, len(in.Roster))
	for _, p := range in.Roster {
		stats := in.StatsByCohort[p.AgeGroup]
		scored = append(scored, scoredPlayer{
			player: p,
			score:  calc.Composite(p, stats, in.Weights, in.Drills),
		})
	}
	return scored
}

// sortByScoreDesc orders players by composite score descending. With
// tieBreak set, exact ties fall back to name then id so the order never
// depends on unspecified sort stability.
func sortByScoreDesc(players []scoredPlayer, tieBreak bool) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !tieBreak {
			return false
		}
		if a.player.Name != b.player.Name {
			return a.player.Name < b.player.Name
		}
		return a.player.ID < b.player.ID
	})
}

// newTeams creates n empty teams with deterministic ids so identical inputs
// reproduce identical output bytes.
func newTeams(n int) []model.Team {
	teams := make([]model.Team, n)
	for i := range teams {
		teams[i] = model.Team{
			ID:      fmt.Sprintf("team-%d", i+1),
			Name:    fmt.Sprintf("Team %d", i+1),
			Players: []model.Player{},
		}
	}
	return teams
}

// snakeDistribute deals players into teams in snake order: the team index
// advances 0..N-1, then N-1..0, reversing at each boundary, so top picks
// spread across teams instead of stacking on the first.
func snakeDistribute(players []scoredPlayer, teams []model.Team) {
	if len(teams) == 0 {
		return
	}
	idx, dir := 0, 1
	for _, sp := range players {
		teams[idx].Players = append(teams[idx].Players, sp.player)
		next := idx + dir
		if next < 0 || next >= len(teams) {
			dir = -dir
		} else {
			idx = next
		}
	}
}

// smallestTeam returns the index of the team with the fewest players,
// preferring the lowest index on ties.
func smallestTeam(teams []model.Team) int {
	best := 0
	for i := 1; i < len(teams); i++ {
		if len(teams[i].Players) < len(teams[best].Players) {
			best = i
		}
	}
	return best
}
