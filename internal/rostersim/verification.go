package rostersim

import (
	"fmt"
	"log"

	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/ranking"
)

// check runs one named assertion and records the outcome.
func check(stats *Stats, name string, err error) {
	stats.ChecksRun++
	if err != nil {
		stats.ChecksFailed++
		log.Printf("FAIL %s: %v", name, err)
		return
	}
	log.Printf("ok   %s", name)
}

// verifyRankings asserts the structural guarantees of a ranking response:
// ranks form the permutation 1..N, composite scores never increase down
// the list, and percentiles track rank.
func verifyRankings(stats *Stats, entries []ranking.Entry, cohortSize int) {
	check(stats, "ranking covers cohort", func() error {
		if len(entries) != cohortSize {
			return fmt.Errorf("got %d entries for a cohort of %d", len(entries), cohortSize)
		}
		return nil
	}())

	check(stats, "ranks are the permutation 1..N", func() error {
		for i, e := range entries {
			if e.Rank != i+1 {
				return fmt.Errorf("entry %d has rank %d", i, e.Rank)
			}
		}
		return nil
	}())

	check(stats, "composite scores are non-increasing", func() error {
		for i := 1; i < len(entries); i++ {
			if entries[i].CompositeScore > entries[i-1].CompositeScore {
				return fmt.Errorf("score rises from %.4f to %.4f at rank %d",
					entries[i-1].CompositeScore, entries[i].CompositeScore, entries[i].Rank)
			}
		}
		return nil
	}())

	check(stats, "percentiles are non-increasing", func() error {
		for i := 1; i < len(entries); i++ {
			if entries[i].Percentile > entries[i-1].Percentile {
				return fmt.Errorf("percentile rises from %d to %d at rank %d",
					entries[i-1].Percentile, entries[i].Percentile, entries[i].Rank)
			}
		}
		return nil
	}())
}

// verifyDrillRankings asserts every ranked player actually has a value for
// the drill and the order respects the drill's direction.
func verifyDrillRankings(stats *Stats, drillKey string, lowerIsBetter bool, entries []ranking.DrillEntry) {
	check(stats, "drill ranking excludes missing values", func() error {
		for _, e := range entries {
			if _, ok := e.Player.Scores[drillKey]; !ok {
				return fmt.Errorf("player %s ranked without a %s value", e.Player.ID, drillKey)
			}
		}
		return nil
	}())

	check(stats, "drill ranking order matches direction", func() error {
		for i := 1; i < len(entries); i++ {
			prev, cur := entries[i-1].Value, entries[i].Value
			if lowerIsBetter && cur < prev {
				return fmt.Errorf("value improves from %.2f to %.2f at rank %d", prev, cur, entries[i].Rank)
			}
			if !lowerIsBetter && cur > prev {
				return fmt.Errorf("value improves from %.2f to %.2f at rank %d", prev, cur, entries[i].Rank)
			}
		}
		return nil
	}())
}

// verifyTeams asserts partition integrity for one strategy: every player
// placed exactly once, and size spread at most one for the spread-bounded
// strategies.
func verifyTeams(stats *Stats, strategy string, result balancing.Result, roster []model.Player, teamCount int) {
	prefix := "teams[" + strategy + "] "

	check(stats, prefix+"team count", func() error {
		if len(result.Teams) != teamCount {
			return fmt.Errorf("got %d teams, want %d", len(result.Teams), teamCount)
		}
		return nil
	}())

	check(stats, prefix+"partition covers roster exactly once", func() error {
		seen := make(map[string]int, len(roster))
		for _, t := range result.Teams {
			for _, p := range t.Players {
				seen[p.ID]++
			}
		}
		if len(seen) != len(roster) {
			return fmt.Errorf("placed %d distinct players, roster has %d", len(seen), len(roster))
		}
		for id, n := range seen {
			if n != 1 {
				return fmt.Errorf("player %s placed %d times", id, n)
			}
		}
		return nil
	}())

	if strategy != balancing.StrategyRankedSplit {
		check(stats, prefix+"size spread at most one", func() error {
			minSize, maxSize := len(roster), 0
			for _, t := range result.Teams {
				if t.Size() < minSize {
					minSize = t.Size()
				}
				if t.Size() > maxSize {
					maxSize = t.Size()
				}
			}
			if maxSize-minSize > 1 {
				return fmt.Errorf("team sizes range from %d to %d", minSize, maxSize)
			}
			return nil
		}())
	}

	if strategy == balancing.StrategySkillBased {
		check(stats, prefix+"category stats present", func() error {
			if result.Stats == nil {
				return fmt.Errorf("no stats attached to skill-based result")
			}
			for category, avgs := range result.Stats.CategoryAverages {
				if len(avgs) != teamCount {
					return fmt.Errorf("category %s has %d averages for %d teams", category, len(avgs), teamCount)
				}
			}
			return nil
		}())
	}
}

// verifyTierOrder asserts the ranked split produced contiguous tiers: every
// player in team i outranks every player in team i+1, judged against the
// whole-roster ranking.
func verifyTierOrder(stats *Stats, result balancing.Result, rankings []ranking.Entry) {
	rankOf := make(map[string]int, len(rankings))
	for _, e := range rankings {
		rankOf[e.Player.ID] = e.Rank
	}

	check(stats, "teams[ranked] tiers are contiguous rank bands", func() error {
		prevWorst := 0
		for i, t := range result.Teams {
			best, worst := len(rankings)+1, 0
			for _, p := range t.Players {
				r := rankOf[p.ID]
				if r < best {
					best = r
				}
				if r > worst {
					worst = r
				}
			}
			if t.Size() == 0 {
				continue
			}
			if best <= prevWorst {
				return fmt.Errorf("team %d holds rank %d inside the previous tier", i, best)
			}
			prevWorst = worst
		}
		return nil
	}())
}

// verifyDeterminism compares two team formations from identical requests.
func verifyDeterminism(stats *Stats, strategy string, first, second balancing.Result) {
	check(stats, "teams["+strategy+"] deterministic across runs", func() error {
		if len(first.Teams) != len(second.Teams) {
			return fmt.Errorf("team counts differ: %d vs %d", len(first.Teams), len(second.Teams))
		}
		for i := range first.Teams {
			a, b := first.Teams[i], second.Teams[i]
			if a.ID != b.ID || len(a.Players) != len(b.Players) {
				return fmt.Errorf("team %d differs between runs", i)
			}
			for j := range a.Players {
				if a.Players[j].ID != b.Players[j].ID {
					return fmt.Errorf("team %d slot %d differs: %s vs %s", i, j, a.Players[j].ID, b.Players[j].ID)
				}
			}
		}
		return nil
	}())
}
