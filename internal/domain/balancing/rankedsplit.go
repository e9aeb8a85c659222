package balancing

import "github.com/fieldday/combine/internal/domain/scoring"

// rankedSplitBalancer slices the rank order into N contiguous tiers. This
// is intentionally NOT a balancing strategy: every player in team i scores
// at least as high as every player in team i+1. Used for varsity/JV style
// splits and must never be labeled as "balanced".
type rankedSplitBalancer struct {
	calc *scoring.Calculator
}

func (b *rankedSplitBalancer) Name() string { return StrategyRankedSplit }

func (b *rankedSplitBalancer) Form(in Input) Result {
	if in.TeamCount < 1 {
		return Result{Teams: newTeams(0)}
	}
	teams := newTeams(in.TeamCount)

	ordered := scoreRoster(in, b.calc)
	sortByScoreDesc(ordered, false)

	// floor(total/N) per tier, with the remainder spread one extra player
	// each across the first tiers.
	base := len(ordered) / in.TeamCount
	remainder := len(ordered) % in.TeamCount

	offset := 0
	for i := range teams {
		size := base
		if i < remainder {
			size++
		}
		for _, sp := range ordered[offset : offset+size] {
			teams[i].Players = append(teams[i].Players, sp.player)
		}
		offset += size
	}

	return Result{Teams: teams}
}
