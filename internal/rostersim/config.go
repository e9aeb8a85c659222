package rostersim

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the engine
	NumPlayers int           // Number of players to generate
	TeamCount  int           // Number of teams to request
	Strategies []string      // Balancing strategies to exercise
	AgeGroups  []string      // Age groups assigned round-robin to players
	Seed       int64         // Seed for the deterministic generator
	MissingPct int           // Percent of measurements dropped per drill
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for simulation output
	Verbose    bool          // Enable verbose logging
}

// Stats holds counters accumulated over a simulation run.
type Stats struct {
	PlayersGenerated  int
	DrillsPublished   int
	RankingsRetrieved int
	TeamsFormed       int
	ChecksRun         int
	ChecksFailed      int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
