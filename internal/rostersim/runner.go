package rostersim

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/ranking"
	"github.com/fieldday/combine/pkg/logger"
)

// Run executes a complete simulation: publish a synthetic catalog and
// roster, pull rankings and teams back out, and verify the structural
// guarantees hold on what came over the wire.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting roster simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("teams", config.TeamCount),
		logger.Any("strategies", config.Strategies),
		logger.Any("seed", config.Seed))

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	drills := catalog()
	players := generateRoster(ctx, config, stats)

	if err := client.putDrills(ctx, config.BaseURL, drills); err != nil {
		return fmt.Errorf("drill catalog publish failed: %w", err)
	}
	if err := client.putRoster(ctx, config.BaseURL, players); err != nil {
		return fmt.Errorf("roster publish failed: %w", err)
	}

	// Whole-roster rankings first, then each age group as its own cohort.
	rankingsByCohort := make(map[string][]ranking.Entry)
	cohorts := append([]string{""}, config.AgeGroups...)
	for _, ageGroup := range cohorts {
		entries, err := client.postRankings(ctx, config.BaseURL, ageGroup)
		if err != nil {
			return fmt.Errorf("ranking retrieval failed for cohort %q: %w", ageGroup, err)
		}
		stats.RankingsRetrieved += len(entries)
		verifyRankings(stats, entries, cohortSize(players, ageGroup))
		rankingsByCohort[ageGroup] = entries
	}

	for _, d := range drills {
		entries, err := client.getDrillRankings(ctx, config.BaseURL, "", d.Key)
		if err != nil {
			return fmt.Errorf("drill ranking retrieval failed for %s: %w", d.Key, err)
		}
		verifyDrillRankings(stats, d.Key, d.LowerIsBetter, entries)
	}

	for _, strategy := range config.Strategies {
		first, err := client.postTeams(ctx, config.BaseURL, "", strategy, config.TeamCount)
		if err != nil {
			return fmt.Errorf("team formation failed for strategy %s: %w", strategy, err)
		}
		stats.TeamsFormed += len(first.Teams)
		verifyTeams(stats, strategy, first, players, config.TeamCount)

		// Tier monotonicity is only meaningful against a single cohort's
		// ranking, since composites are cohort-relative.
		if strategy == balancing.StrategyRankedSplit && len(config.AgeGroups) > 0 {
			group := config.AgeGroups[0]
			tiers, err := client.postTeams(ctx, config.BaseURL, group, strategy, config.TeamCount)
			if err != nil {
				return fmt.Errorf("cohort team formation failed for strategy %s: %w", strategy, err)
			}
			verifyTierOrder(stats, tiers, rankingsByCohort[group])
		}

		second, err := client.postTeams(ctx, config.BaseURL, "", strategy, config.TeamCount)
		if err != nil {
			return fmt.Errorf("repeat team formation failed for strategy %s: %w", strategy, err)
		}
		verifyDeterminism(stats, strategy, first, second)
	}

	summary, err := client.getSummary(ctx, config.BaseURL)
	if err != nil {
		return fmt.Errorf("summary retrieval failed: %w", err)
	}
	check(stats, "summary participant count", func() error {
		if summary.ParticipantCount != len(players) {
			return fmt.Errorf("summary reports %d participants, roster has %d", summary.ParticipantCount, len(players))
		}
		return nil
	}())

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d of %d checks failed", stats.ChecksFailed, stats.ChecksRun)
	}
	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the engine is reachable. Any 200 response
// counts as healthy; the endpoint serves Prometheus metrics.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")
	if err := client.do(ctx, http.MethodGet, config.BaseURL+"/healthz", nil, nil); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// cohortSize counts roster players in the cohort; the empty age group
// selects the whole roster.
func cohortSize(players []model.Player, ageGroup string) int {
	if ageGroup == "" {
		return len(players)
	}
	n := 0
	for _, p := range players {
		if p.AgeGroup == ageGroup {
			n++
		}
	}
	return n
}

// displayFinalStats prints the run summary.
func displayFinalStats(stats *Stats) {
	log.Println("=== simulation results ===")
	log.Printf("players generated:  %d", stats.PlayersGenerated)
	log.Printf("drills published:   %d", stats.DrillsPublished)
	log.Printf("ranking entries:    %d", stats.RankingsRetrieved)
	log.Printf("teams formed:       %d", stats.TeamsFormed)
	log.Printf("checks run:         %d", stats.ChecksRun)
	log.Printf("checks failed:      %d", stats.ChecksFailed)
	log.Printf("duration:           %s", stats.Duration)
}
