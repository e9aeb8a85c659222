package rostersim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/pkg/logger"
)

// Drill value ranges used by the synthetic generator. Timed drills draw
// from a band wide enough that cohort min/max never collapse.
const (
	dashMin        = 4.4
	dashRange      = 3.2
	shuttleMin     = 4.0
	shuttleRange   = 2.5
	verticalMin    = 10.0
	verticalRange  = 28.0
	broadMin       = 50.0
	broadRange     = 70.0
	pushupMin      = 0.0
	pushupRange    = 40.0
	ratedDrillMin  = 0.0
	ratedDrillMax  = 10.0
	jerseyNumbers  = 99
	percentDivisor = 100
)

func floatPtr(v float64) *float64 { return &v }

// catalog returns the synthetic drill catalog. The first five drills are
// cohort-normalized; the last two carry explicit ranges.
func catalog() []model.Drill {
	return []model.Drill{
		{Key: "forty_yard_dash", Label: "40-Yard Dash", Unit: "s", Category: "speed", LowerIsBetter: true, DefaultWeight: 20},
		{Key: "shuttle_run", Label: "5-10-5 Shuttle", Unit: "s", Category: "speed", LowerIsBetter: true, DefaultWeight: 15},
		{Key: "vertical_jump", Label: "Vertical Jump", Unit: "in", Category: "power", DefaultWeight: 20},
		{Key: "broad_jump", Label: "Broad Jump", Unit: "in", Category: "power", DefaultWeight: 15},
		{Key: "pushups", Label: "Push-Ups", Unit: "reps", Category: "strength", DefaultWeight: 10},
		{Key: "throwing", Label: "Throwing Accuracy", Unit: "pts", Category: "skill", DefaultWeight: 10, MinValue: floatPtr(ratedDrillMin), MaxValue: floatPtr(ratedDrillMax)},
		{Key: "catching", Label: "Catching", Unit: "pts", Category: "skill", DefaultWeight: 10, MinValue: floatPtr(ratedDrillMin), MaxValue: floatPtr(ratedDrillMax)},
	}
}

// generateRoster builds a deterministic synthetic roster. The same seed
// always yields the same players, scores, and gaps, which is what lets the
// verifier assert bit-for-bit reproducibility across runs.
func generateRoster(ctx context.Context, config *Config, stats *Stats) []model.Player {
	logger.Get().Info(ctx, "generating synthetic roster",
		logger.Int("players", config.NumPlayers),
		logger.Any("seed", config.Seed))

	rng := rand.New(rand.NewSource(config.Seed))
	drills := catalog()

	players := make([]model.Player, config.NumPlayers)
	for i := range players {
		p := model.Player{
			ID:     fmt.Sprintf("p-%04d", i+1),
			Name:   fmt.Sprintf("Player %04d", i+1),
			Number: rng.Intn(jerseyNumbers) + 1,
			Scores: make(map[string]float64, len(drills)),
		}
		if len(config.AgeGroups) > 0 {
			p.AgeGroup = config.AgeGroups[i%len(config.AgeGroups)]
		}

		for _, d := range drills {
			// A slice of measurements is deliberately missing so the
			// run exercises the exclusion rules.
			if rng.Intn(percentDivisor) < config.MissingPct {
				continue
			}
			p.Scores[d.Key] = measurement(rng, d.Key)
		}

		players[i] = p
	}

	stats.PlayersGenerated = len(players)
	stats.DrillsPublished = len(drills)
	return players
}

// measurement draws one raw value appropriate for the drill.
func measurement(rng *rand.Rand, drillKey string) float64 {
	var v float64
	switch drillKey {
	case "forty_yard_dash":
		v = dashMin + rng.Float64()*dashRange
	case "shuttle_run":
		v = shuttleMin + rng.Float64()*shuttleRange
	case "vertical_jump":
		v = verticalMin + rng.Float64()*verticalRange
	case "broad_jump":
		v = broadMin + rng.Float64()*broadRange
	case "pushups":
		v = pushupMin + math.Floor(rng.Float64()*pushupRange)
	default:
		v = ratedDrillMin + rng.Float64()*ratedDrillMax
	}
	return math.Round(v*100) / 100
}
