package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/rostersim"
	"github.com/fieldday/combine/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumPlayers = 200
	defaultTeamCount  = 4
	defaultSeed       = 1
	defaultMissing    = 10
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the engine")
		numPlayers = flag.Int("players", defaultNumPlayers, "Number of players to generate")
		teamCount  = flag.Int("teams", defaultTeamCount, "Number of teams to request")
		strategies = flag.String("strategies", strings.Join(balancing.Strategies(), ","), "Comma-separated strategies to exercise")
		groups     = flag.String("groups", "U10,U12,U14", "Comma-separated age groups assigned round-robin")
		seed       = flag.Int64("seed", defaultSeed, "Generator seed")
		missing    = flag.Int("missing", defaultMissing, "Percent of measurements to drop")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for simulation output (default: sim_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rostersim.ShowHelp()
		return
	}

	if err := rostersim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	config := &rostersim.Config{
		BaseURL:    *baseURL,
		NumPlayers: *numPlayers,
		TeamCount:  *teamCount,
		Strategies: strings.Split(*strategies, ","),
		AgeGroups:  strings.Split(*groups, ","),
		Seed:       *seed,
		MissingPct: *missing,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if err := rostersim.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}
