package balancing

import "github.com/fieldday/combine/internal/domain/scoring"

// balancedBalancer splits the roster into scored and unscored players,
// snake-distributes the scored half, then even-fills the unscored half so
// team sizes differ by at most one regardless of score availability.
type balancedBalancer struct {
	calc *scoring.Calculator
}

func (b *balancedBalancer) Name() string { return StrategyBalanced }

func (b *balancedBalancer) Form(in Input) Result {
	if in.TeamCount < 1 {
		return Result{Teams: newTeams(0)}
	}
	teams := newTeams(in.TeamCount)

	all := scoreRoster(in, b.calc)
	scored := make([]scoredPlayer, 0, len(all))
	unscored := make([]scoredPlayer, 0)
	for _, sp := range all {
		if sp.score > 0 {
			scored = append(scored, sp)
		} else {
			unscored = append(unscored, sp)
		}
	}

	sortByScoreDesc(scored, true)
	snakeDistribute(scored, teams)

	// Unscored players fill greedily from the smallest team, in roster
	// order, keeping the size spread within one.
	for _, sp := range unscored {
		idx := smallestTeam(teams)
		teams[idx].Players = append(teams[idx].Players, sp.player)
	}

	return Result{Teams: teams}
}
