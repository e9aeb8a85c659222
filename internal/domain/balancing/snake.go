package balancing

import "github.com/fieldday/combine/internal/domain/scoring"

// snakeBalancer applies the snake distribution to the full rank order,
// classic fantasy-draft style: no scored/unscored split, unscored players
// simply trail the order with composite score zero.
type snakeBalancer struct {
	calc *scoring.Calculator
}

func (b *snakeBalancer) Name() string { return StrategySnakeDraft }

func (b *snakeBalancer) Form(in Input) Result {
	if in.TeamCount < 1 {
		return Result{Teams: newTeams(0)}
	}
	teams := newTeams(in.TeamCount)

	ordered := scoreRoster(in, b.calc)
	sortByScoreDesc(ordered, false)
	snakeDistribute(ordered, teams)

	return Result{Teams: teams}
}
