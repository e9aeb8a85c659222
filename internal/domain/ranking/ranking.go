// Package ranking orders cohort players by composite score or by a single
// raw drill value. Ranks are 1-based and deterministic: exact score ties
// are broken by player name, then id, so no sort is ever left to runtime
// stability alone.
package ranking

import (
	"math"
	"sort"

	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/scoring"
)

// Entry pairs a player with their composite score and overall cohort rank.
type Entry struct {
	Player         model.Player `json:"player"`
	CompositeScore float64      `json:"composite_score"`
	Rank           int          `json:"rank"`
	Percentile     int          `json:"percentile"`
}

// DrillEntry pairs a player with their raw value and rank for one drill.
// Players without a recorded value for the drill receive no entry at all,
// never a worst-case rank.
type DrillEntry struct {
	Player model.Player `json:"player"`
	Value  float64      `json:"value"`
	Rank   int          `json:"rank"`
}

// RankCohort orders cohort players by composite score descending and
// assigns 1-based ranks. The ordering is stable and fully deterministic;
// every input player appears exactly once, so ranks are a permutation of
// 1..N.
func RankCohort(players []model.Player, stats model.CohortStats, weights model.WeightMap, drills []model.Drill, calc *scoring.Calculator) []Entry {
	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		entries = append(entries, Entry{
			Player:         p,
			CompositeScore: calc.Composite(p, stats, weights, drills),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.Player.Name != b.Player.Name {
			return a.Player.Name < b.Player.Name
		}
		return a.Player.ID < b.Player.ID
	})

	total := len(entries)
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Percentile = Percentile(entries[i].Rank, total)
	}
	return entries
}

// RankByDrill ranks the players that recorded a value for one drill, best
// first: raw value ascending when lower is better, descending otherwise.
func RankByDrill(players []model.Player, drillKey string, lowerIsBetter bool) []DrillEntry {
	entries := make([]DrillEntry, 0, len(players))
	for _, p := range players {
		v, ok := p.Score(drillKey)
		if !ok {
			continue
		}
		entries = append(entries, DrillEntry{Player: p, Value: v})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Value != b.Value {
			if lowerIsBetter {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		if a.Player.Name != b.Player.Name {
			return a.Player.Name < b.Player.Name
		}
		return a.Player.ID < b.Player.ID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Percentile converts a 1-based rank within a cohort of the given size to
// a rounded 0-100 percentile, as reported on scorecards.
func Percentile(rank, total int) int {
	if total <= 0 || rank <= 0 {
		return 0
	}
	return int(math.Round(float64(total-rank+1) / float64(total) * 100))
}
