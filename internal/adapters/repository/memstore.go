package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldday/combine/internal/domain/model"

	"github.com/fieldday/combine/pkg/metrics"
)

// Default sizing for the player index.
const defaultInitialCapacity = 256

// MemoryStore is an in-memory, mutex-guarded roster store. Every mutation
// bumps a monotonically increasing version, which downstream caches use as
// their identity key. Reads hand out copied slices; the player structs
// themselves (including score maps) are shared and treated as read-only by
// contract.
type MemoryStore struct {
	mu sync.RWMutex

	players []model.Player
	byID    map[string]int
	drills  []model.Drill
	version uint64

	initialCapacity int
}

// NewMemoryStore creates an empty roster store.
func NewMemoryStore(_ context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		initialCapacity: defaultInitialCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.players = make([]model.Player, 0, s.initialCapacity)
	s.byID = make(map[string]int, s.initialCapacity)
	return s
}

// ReplaceRoster swaps the full player roster and returns the new version.
func (s *MemoryStore) ReplaceRoster(_ context.Context, players []model.Player) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make([]model.Player, len(players))
	copy(s.players, players)
	s.byID = make(map[string]int, len(players))
	for i, p := range s.players {
		s.byID[p.ID] = i
	}
	s.version++

	metrics.UpdateRosterSize(len(s.players))
	metrics.UpdateCohortCount(countAgeGroups(s.players))
	return s.version
}

// ReplaceDrills swaps the drill catalog and returns the new version.
func (s *MemoryStore) ReplaceDrills(_ context.Context, drills []model.Drill) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drills = make([]model.Drill, len(drills))
	copy(s.drills, drills)
	s.version++

	metrics.UpdateDrillCount(len(s.drills))
	return s.version
}

// Snapshot returns a consistent view of players, drills, and version.
func (s *MemoryStore) Snapshot(_ context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]model.Player, len(s.players))
	copy(players, s.players)
	drills := make([]model.Drill, len(s.drills))
	copy(drills, s.drills)
	return Snapshot{Players: players, Drills: drills, Version: s.version}
}

// Player returns one player by id.
func (s *MemoryStore) Player(_ context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return model.Player{}, ErrNotFound
	}
	return s.players[idx], nil
}

// Cohort returns the players sharing the given age group, in roster order.
func (s *MemoryStore) Cohort(_ context.Context, ageGroup string) []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cohort := make([]model.Player, 0)
	for _, p := range s.players {
		if p.AgeGroup == ageGroup {
			cohort = append(cohort, p)
		}
	}
	return cohort
}

// AgeGroups returns the distinct age groups present, sorted.
func (s *MemoryStore) AgeGroups(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, p := range s.players {
		if _, ok := seen[p.AgeGroup]; ok {
			continue
		}
		seen[p.AgeGroup] = struct{}{}
		groups = append(groups, p.AgeGroup)
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of players in the roster.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// Version returns the current roster/catalog version.
func (s *MemoryStore) Version(_ context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func countAgeGroups(players []model.Player) int {
	seen := make(map[string]struct{})
	for _, p := range players {
		seen[p.AgeGroup] = struct{}{}
	}
	return len(seen)
}
