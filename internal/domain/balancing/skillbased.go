package balancing

import (
	"sort"

	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/scoring"
)

// skillBalancer balances teams per drill *category* rather than on the
// single composite score: players are placed one at a time onto the team
// where the spread of category averages across teams stays smallest.
// Players lacking data for a whole category get the neutral midpoint for it
// and are flagged in the result stats so the UI can disclose the
// substitution instead of silently penalizing them.
type skillBalancer struct {
	calc *scoring.Calculator
}

func (b *skillBalancer) Name() string { return StrategySkillBased }

// categoryProfile is one player's average normalized score per category.
type categoryProfile struct {
	player  model.Player
	scores  []float64
	total   float64
	missing bool
}

func (b *skillBalancer) Form(in Input) Result {
	if in.TeamCount < 1 {
		return Result{Teams: newTeams(0)}
	}
	teams := newTeams(in.TeamCount)
	categories := categoriesOf(in.Drills)

	profiles := b.buildProfiles(in, categories)

	// Strongest players place first so the greedy assignment has room to
	// compensate on later picks.
	sort.SliceStable(profiles, func(i, j int) bool {
		a, c := profiles[i], profiles[j]
		if a.total != c.total {
			return a.total > c.total
		}
		if a.player.Name != c.player.Name {
			return a.player.Name < c.player.Name
		}
		return a.player.ID < c.player.ID
	})

	// Running per-team category sums for cheap average recomputation.
	sums := make([][]float64, in.TeamCount)
	for i := range sums {
		sums[i] = make([]float64, len(categories))
	}

	missing := make(map[string]bool)
	for _, prof := range profiles {
		idx := pickTeam(teams, sums, prof.scores)
		teams[idx].Players = append(teams[idx].Players, prof.player)
		for c, v := range prof.scores {
			sums[idx][c] += v
		}
		if prof.missing {
			missing[prof.player.ID] = true
		}
	}

	return Result{
		Teams: teams,
		Stats: &Stats{
			CategoryAverages: categoryAverages(categories, teams, sums),
			MissingData:      missing,
		},
	}
}

// buildProfiles computes each player's average normalized score per
// category, substituting the neutral midpoint for categories with no data.
func (b *skillBalancer) buildProfiles(in Input, categories []string) []categoryProfile {
	catIndex := make(map[string]int, len(categories))
	for i, c := range categories {
		catIndex[c] = i
	}

	profiles := make([]categoryProfile, 0, len(in.Roster))
	for _, p := range in.Roster {
		stats := in.StatsByCohort[p.AgeGroup]
		contributions := b.calc.Breakdown(p, stats, nil, in.Drills)

		sums := make([]float64, len(categories))
		counts := make([]int, len(categories))
		for _, contrib := range contributions {
			cat := categoryForDrill(in.Drills, contrib.DrillKey)
			ci := catIndex[cat]
			sums[ci] += contrib.Normalized
			counts[ci]++
		}

		prof := categoryProfile{player: p, scores: make([]float64, len(categories))}
		for ci := range categories {
			if counts[ci] == 0 {
				prof.scores[ci] = scoring.NeutralMidpoint
				prof.missing = true
			} else {
				prof.scores[ci] = sums[ci] / float64(counts[ci])
			}
			prof.total += prof.scores[ci]
		}
		profiles = append(profiles, prof)
	}
	return profiles
}

// pickTeam chooses among the smallest teams (keeping sizes within one) the
// one minimizing the summed variance of category averages after placement.
// Ties resolve to the lowest team index for determinism.
func pickTeam(teams []model.Team, sums [][]float64, scores []float64) int {
	minSize := len(teams[0].Players)
	for _, t := range teams[1:] {
		if len(t.Players) < minSize {
			minSize = len(t.Players)
		}
	}

	best := -1
	var bestVariance float64
	for i := range teams {
		if len(teams[i].Players) != minSize {
			continue
		}
		v := varianceAfterPlacement(teams, sums, scores, i)
		if best == -1 || v < bestVariance {
			best = i
			bestVariance = v
		}
	}
	return best
}

// varianceAfterPlacement computes the total variance of per-team category
// averages if the candidate scores joined team target. Empty teams are
// excluded from each category's population.
func varianceAfterPlacement(teams []model.Team, sums [][]float64, scores []float64, target int) float64 {
	var total float64
	for c := range scores {
		avgs := make([]float64, 0, len(teams))
		for i := range teams {
			size := len(teams[i].Players)
			sum := sums[i][c]
			if i == target {
				size++
				sum += scores[c]
			}
			if size == 0 {
				continue
			}
			avgs = append(avgs, sum/float64(size))
		}
		total += variance(avgs)
	}
	return total
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

// categoriesOf returns the distinct drill categories in catalog order.
func categoriesOf(drills []model.Drill) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, d := range drills {
		if _, ok := seen[d.Category]; ok {
			continue
		}
		seen[d.Category] = struct{}{}
		categories = append(categories, d.Category)
	}
	return categories
}

func categoryForDrill(drills []model.Drill, key string) string {
	for _, d := range drills {
		if d.Key == key {
			return d.Category
		}
	}
	return ""
}

// categoryAverages produces the per-category team averages reported to the
// UI, zero for empty teams.
func categoryAverages(categories []string, teams []model.Team, sums [][]float64) map[string][]float64 {
	out := make(map[string][]float64, len(categories))
	for ci, cat := range categories {
		perTeam := make([]float64, len(teams))
		for i := range teams {
			if n := len(teams[i].Players); n > 0 {
				perTeam[i] = sums[i][ci] / float64(n)
			}
		}
		out[cat] = perTeam
	}
	return out
}
