// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields koanf-tagged and provide New() defaults.
// - Load() layers defaults -> optional YAML file -> environment.
package config

import "context"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxTeamCount caps the team_count accepted by POST /teams.
	MaxTeamCount int `koanf:"max_team_count"`

	// DefaultTeamCount applies when a formation request omits team_count.
	DefaultTeamCount int `koanf:"default_team_count"`

	// CohortCacheSize bounds the number of memoized cohort-stats entries.
	CohortCacheSize int `koanf:"cohort_cache_size"`

	// ClampCustomRanges controls whether range-defined drills clamp raw
	// values into their configured range before normalizing.
	ClampCustomRanges bool `koanf:"clamp_custom_ranges"`

	// DefaultWeights applies when a request carries no weight map and the
	// drill catalog defines no default for a drill.
	DefaultWeights map[string]float64 `koanf:"default_weights"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		MaxTeamCount:      16,
		DefaultTeamCount:  2,
		CohortCacheSize:   64,
		ClampCustomRanges: true,
		DefaultWeights:    map[string]float64{},
	}
}
