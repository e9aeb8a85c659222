// Package service provides the core business service that implements the
// dependencies required by the HTTP API: roster management, composite
// scoring, ranking, and team formation over memoized cohort statistics.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fieldday/combine/internal/adapters/repository"
	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/domain/cohort"
	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/ranking"
	"github.com/fieldday/combine/internal/domain/scoring"
	"github.com/fieldday/combine/pkg/logger"
	"github.com/fieldday/combine/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrUnknownDrill     = errors.New("unknown drill")
	ErrTeamCountTooHigh = errors.New("team count exceeds configured maximum")
	ErrNotStarted       = errors.New("service not started")
)

// Default service configuration.
const (
	defaultMaxTeamCount    = 16
	defaultCohortCacheSize = 64
)

// Service implements the scoring, ranking, and team-formation operations
// behind the HTTP API. All computations are pure functions of the current
// roster snapshot; the only state the service carries is the roster store
// and the version-keyed cohort-statistics cache.
type Service struct {
	mu sync.RWMutex

	roster repository.Store
	calc   *scoring.Calculator
	cache  *statsCache

	maxTeamCount      int
	cohortCacheSize   int
	clampCustomRanges bool
	defaultWeights    model.WeightMap

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxTeamCount caps the team count accepted by FormTeams.
func WithMaxTeamCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTeamCount = n
		}
	}
}

// WithCohortCacheSize bounds the memoized cohort-statistics cache.
func WithCohortCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cohortCacheSize = n
		}
	}
}

// WithCustomRangeClamping controls clamping for range-defined drills.
func WithCustomRangeClamping(clamp bool) Option {
	return func(s *Service) {
		s.clampCustomRanges = clamp
	}
}

// WithDefaultWeights overrides catalog default weights for requests that
// carry no weight map.
func WithDefaultWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.defaultWeights = weights
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxTeamCount:      defaultMaxTeamCount,
		cohortCacheSize:   defaultCohortCacheSize,
		clampCustomRanges: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.roster = repository.NewMemoryStore(ctx)
	s.cache = newStatsCache(s.cohortCacheSize)
	s.calc = scoring.NewCalculator(
		scoring.WithCustomRangeClamping(s.clampCustomRanges),
		scoring.WithUnknownKeyFunc(func(key string) {
			s.logger.Warn(ctx, "weight map references unknown drill",
				logger.String("drillKey", key),
			)
			metrics.RecordUnknownWeightKey(key)
		}),
	)

	s.started = true
	s.logger.Info(ctx, "combine engine started",
		logger.Int("maxTeamCount", s.maxTeamCount),
		logger.Int("cohortCacheSize", s.cohortCacheSize),
	)
	return nil
}

// Stop releases service resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "combine engine stopped")
}

// ReplaceRoster swaps the full player roster and returns the new version.
func (s *Service) ReplaceRoster(ctx context.Context, players []model.Player) (uint64, error) {
	if !s.isStarted() {
		return 0, ErrNotStarted
	}
	version := s.roster.ReplaceRoster(ctx, players)
	s.logger.Info(ctx, "roster replaced",
		logger.Int("players", len(players)),
		logger.Uint64("version", version),
	)
	return version, nil
}

// ReplaceDrills swaps the drill catalog and returns the new version.
func (s *Service) ReplaceDrills(ctx context.Context, drills []model.Drill) (uint64, error) {
	if !s.isStarted() {
		return 0, ErrNotStarted
	}
	version := s.roster.ReplaceDrills(ctx, drills)
	s.logger.Info(ctx, "drill catalog replaced",
		logger.Int("drills", len(drills)),
		logger.Uint64("version", version),
	)
	return version, nil
}

// Roster returns the current players; nil before Start.
func (s *Service) Roster(ctx context.Context) []model.Player {
	if !s.isStarted() {
		return nil
	}
	return s.roster.Snapshot(ctx).Players
}

// Drills returns the current drill catalog; nil before Start.
func (s *Service) Drills(ctx context.Context) []model.Drill {
	if !s.isStarted() {
		return nil
	}
	return s.roster.Snapshot(ctx).Drills
}

// Rankings orders the cohort by composite score under the given weights.
// An empty age group ranks the whole roster as one cohort.
func (s *Service) Rankings(ctx context.Context, ageGroup string, weights model.WeightMap) ([]ranking.Entry, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	snap := s.roster.Snapshot(ctx)
	players := selectCohort(snap.Players, ageGroup)
	stats := s.cohortStats(ctx, snap, ageGroup)
	effective := s.resolveWeights(weights, snap.Drills)

	start := time.Now()
	entries := ranking.RankCohort(players, stats, effective, snap.Drills, s.calc)
	metrics.RecordScoringLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	metrics.RecordRankingServed("overall")
	return entries, nil
}

// DrillRankings ranks cohort players by one drill's raw value. Players
// without a value for the drill are absent, not ranked last.
func (s *Service) DrillRankings(ctx context.Context, ageGroup, drillKey string) ([]ranking.DrillEntry, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	snap := s.roster.Snapshot(ctx)
	drill, ok := findDrill(snap.Drills, drillKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDrill, drillKey)
	}

	players := selectCohort(snap.Players, ageGroup)
	entries := ranking.RankByDrill(players, drill.Key, drill.LowerIsBetter)
	metrics.RecordRankingServed("drill")
	return entries, nil
}

// CompositeScore computes one player's composite score against their own
// cohort under the given weights.
func (s *Service) CompositeScore(ctx context.Context, playerID string, weights model.WeightMap) (float64, error) {
	contributions, err := s.Breakdown(ctx, playerID, weights)
	if err != nil {
		return 0, err
	}
	return scoring.Total(contributions), nil
}

// Breakdown returns the per-drill contributions behind one player's
// composite score, the shape the detail panel renders.
func (s *Service) Breakdown(ctx context.Context, playerID string, weights model.WeightMap) ([]scoring.Contribution, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	player, err := s.roster.Player(ctx, playerID)
	if err != nil {
		return nil, err
	}

	snap := s.roster.Snapshot(ctx)
	stats := s.cohortStats(ctx, snap, player.AgeGroup)
	effective := s.resolveWeights(weights, snap.Drills)

	metrics.RecordScoreComputation()
	return s.calc.Breakdown(player, stats, effective, snap.Drills), nil
}

// FormTeams partitions the roster (or one cohort of it) into teams under
// the named strategy. A team count below 1 yields an empty partition; a
// count above the configured maximum is rejected.
func (s *Service) FormTeams(ctx context.Context, ageGroup string, weights model.WeightMap, teamCount int, strategy string) (balancing.Result, error) {
	if !s.isStarted() {
		return balancing.Result{}, ErrNotStarted
	}
	if teamCount > s.maxTeamCount {
		return balancing.Result{}, fmt.Errorf("%w: %d > %d", ErrTeamCountTooHigh, teamCount, s.maxTeamCount)
	}

	balancer, err := balancing.New(strategy, balancing.WithCalculator(s.calc))
	if err != nil {
		return balancing.Result{}, err
	}

	snap := s.roster.Snapshot(ctx)
	roster := selectCohort(snap.Players, ageGroup)
	in := balancing.Input{
		Roster:        roster,
		Drills:        snap.Drills,
		Weights:       s.resolveWeights(weights, snap.Drills),
		StatsByCohort: s.statsForAllCohorts(ctx, snap),
		TeamCount:     teamCount,
	}

	start := time.Now()
	result := balancer.Form(in)
	metrics.RecordScoringLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	metrics.RecordTeamsFormed(strategy)

	s.logger.Debug(ctx, "teams formed",
		logger.String("strategy", strategy),
		logger.Int("teamCount", len(result.Teams)),
		logger.Int("players", len(roster)),
	)
	return result, nil
}

// Summary computes event-wide drill statistics over the full roster; the
// zero Summary before Start.
func (s *Service) Summary(ctx context.Context) cohort.Summary {
	if !s.isStarted() {
		return cohort.Summary{}
	}
	snap := s.roster.Snapshot(ctx)
	return cohort.BuildSummary(snap.Players, snap.Drills)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"maxTeamCount": s.maxTeamCount,
	}
	if s.started {
		snap := s.roster.Snapshot(ctx)
		stats["rosterSize"] = len(snap.Players)
		stats["drillCount"] = len(snap.Drills)
		stats["ageGroups"] = s.roster.AgeGroups(ctx)
		stats["version"] = snap.Version
		stats["cohortCacheEntries"] = s.cache.len()
	}
	return stats
}

// isStarted reports whether Start has run and the store exists. Public
// operations check it so that a constructed-but-unstarted Service degrades
// to ErrNotStarted or empty results instead of dereferencing a nil store.
func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// cohortStats returns memoized statistics for one cohort at the snapshot's
// version, computing and caching them on miss. An empty age group selects
// the whole roster.
func (s *Service) cohortStats(ctx context.Context, snap repository.Snapshot, ageGroup string) model.CohortStats {
	key := selectionKey(ageGroup)
	if stats, ok := s.cache.get(key, snap.Version); ok {
		metrics.RecordCohortCacheHit()
		return stats
	}
	metrics.RecordCohortCacheMiss()

	stats := cohort.BuildStats(selectCohort(snap.Players, ageGroup), snap.Drills)
	s.cache.put(key, snap.Version, stats)
	return stats
}

// statsForAllCohorts computes statistics for every age group in the
// snapshot. Cohorts are independent, so uncached groups are computed
// concurrently; the merge preserves per-cohort results unchanged.
func (s *Service) statsForAllCohorts(ctx context.Context, snap repository.Snapshot) map[string]model.CohortStats {
	groups := cohort.Partition(snap.Players)

	type result struct {
		ageGroup string
		stats    model.CohortStats
	}

	out := make(map[string]model.CohortStats, len(groups))
	pending := make([]string, 0, len(groups))
	for ag := range groups {
		if stats, ok := s.cache.get(groupKey(ag), snap.Version); ok {
			metrics.RecordCohortCacheHit()
			out[ag] = stats
			continue
		}
		metrics.RecordCohortCacheMiss()
		pending = append(pending, ag)
	}

	if len(pending) == 0 {
		return out
	}

	results := make(chan result, len(pending))
	var wg sync.WaitGroup
	for _, ag := range pending {
		wg.Add(1)
		go func(ag string) {
			defer wg.Done()
			results <- result{ageGroup: ag, stats: cohort.BuildStats(groups[ag], snap.Drills)}
		}(ag)
	}
	wg.Wait()
	close(results)

	for r := range results {
		s.cache.put(groupKey(r.ageGroup), snap.Version, r.stats)
		out[r.ageGroup] = r.stats
	}
	return out
}

// resolveWeights fills in defaults when the caller supplied no weight map:
// configured overrides win over catalog defaults. A non-nil caller map is
// used as-is.
func (s *Service) resolveWeights(weights model.WeightMap, drills []model.Drill) model.WeightMap {
	if weights != nil {
		return weights
	}
	resolved := make(model.WeightMap, len(drills))
	for _, d := range drills {
		w := d.DefaultWeight
		if override, ok := s.defaultWeights[d.Key]; ok {
			w = override
		}
		resolved[d.Key] = w
	}
	return resolved
}

// selectCohort filters the roster to one age group; the empty group means
// the whole roster.
func selectCohort(players []model.Player, ageGroup string) []model.Player {
	if ageGroup == "" {
		return players
	}
	cohortPlayers := make([]model.Player, 0)
	for _, p := range players {
		if p.AgeGroup == ageGroup {
			cohortPlayers = append(cohortPlayers, p)
		}
	}
	return cohortPlayers
}

func findDrill(drills []model.Drill, key string) (model.Drill, bool) {
	for _, d := range drills {
		if d.Key == key {
			return d, true
		}
	}
	return model.Drill{}, false
}

// selectionKey names the cache entry for a ranking selection: the empty
// age group selects the whole roster, which must not collide with a real
// cohort whose age group value is empty.
func selectionKey(ageGroup string) string {
	if ageGroup == "" {
		return "all"
	}
	return groupKey(ageGroup)
}

// groupKey names the cache entry for one age-group cohort.
func groupKey(ageGroup string) string {
	return "group:" + ageGroup
}
