// Package cohort groups players by age group and derives per-drill
// statistics for a cohort. Statistics are a pure function of the roster and
// drill set; nothing here is cached, so a stats value must never outlive
// the roster snapshot it was computed from.
package cohort

import (
	"sort"

	"github.com/fieldday/combine/internal/domain/model"
)

// BuildStats computes the observed {min,max} for every drill across the
// given cohort. Only recorded values count; a drill nobody in the cohort
// recorded gets no entry at all, which downstream normalization must treat
// as "cannot normalize" rather than a zero range.
func BuildStats(players []model.Player, drills []model.Drill) model.CohortStats {
	stats := make(model.CohortStats, len(drills))
	for _, drill := range drills {
		var (
			r     model.Range
			found bool
		)
		for _, p := range players {
			v, ok := p.Score(drill.Key)
			if !ok {
				continue
			}
			if !found {
				r = model.Range{Min: v, Max: v}
				found = true
				continue
			}
			if v < r.Min {
				r.Min = v
			}
			if v > r.Max {
				r.Max = v
			}
		}
		if found {
			stats[drill.Key] = r
		}
	}
	return stats
}

// Partition groups players by age group, preserving roster order within
// each group. Players without an age group form their own cohort under the
// empty key.
func Partition(players []model.Player) map[string][]model.Player {
	groups := make(map[string][]model.Player)
	for _, p := range players {
		groups[p.AgeGroup] = append(groups[p.AgeGroup], p)
	}
	return groups
}

// AgeGroups returns the distinct age groups present in the roster, sorted
// for deterministic iteration.
func AgeGroups(players []model.Player) []string {
	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, p := range players {
		if _, ok := seen[p.AgeGroup]; ok {
			continue
		}
		seen[p.AgeGroup] = struct{}{}
		groups = append(groups, p.AgeGroup)
	}
	sort.Strings(groups)
	return groups
}
