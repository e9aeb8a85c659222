// Package repository defines the versioned roster store and its errors.
package repository

import (
	"context"

	"github.com/fieldday/combine/internal/domain/model"
)

// Snapshot is an immutable view of the roster state at one version. The
// version is the memoization key for everything derived from the snapshot:
// cohort statistics computed at version V stay valid exactly while the
// store remains at version V.
type Snapshot struct {
	Players []model.Player
	Drills  []model.Drill
	Version uint64
}

// Store provides read/write access to the roster and drill catalog.
type Store interface {
	// ReplaceRoster swaps the full player roster and returns the new
	// version.
	ReplaceRoster(ctx context.Context, players []model.Player) uint64

	// ReplaceDrills swaps the drill catalog and returns the new version.
	ReplaceDrills(ctx context.Context, drills []model.Drill) uint64

	// Snapshot returns a consistent view of players, drills, and version.
	Snapshot(ctx context.Context) Snapshot

	// Player returns one player by id. Returns ErrNotFound when unknown.
	Player(ctx context.Context, id string) (model.Player, error)

	// Cohort returns the players sharing the given age group, in roster
	// order.
	Cohort(ctx context.Context, ageGroup string) []model.Player

	// AgeGroups returns the distinct age groups present, sorted.
	AgeGroups(ctx context.Context) []string

	// Count returns the number of players in the roster.
	Count(ctx context.Context) int

	// Version returns the current roster/catalog version.
	Version(ctx context.Context) uint64
}
