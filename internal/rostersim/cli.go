// Package rostersim drives a running engine with a deterministic synthetic
// roster and verifies the ranking and partition guarantees end to end.
package rostersim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fieldday/combine/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Combine Roster Simulation Tool
==============================

Generates a deterministic synthetic roster, publishes it to a running
engine over HTTP, then pulls rankings, drill rankings, teams, and the
event summary back out and verifies the structural guarantees:

  - ranks form the permutation 1..N and scores never increase
  - drill rankings exclude players without a measurement
  - every partition places each player exactly once
  - spread-bounded strategies keep team sizes within one
  - identical requests produce identical teams

Usage:
  roster-sim [flags]

Flags:
  -url string       Base URL of the engine (default "http://localhost:9080")
  -players int      Number of players to generate (default 200)
  -teams int        Number of teams to request (default 4)
  -strategies string Comma-separated strategies to exercise (default all)
  -groups string    Comma-separated age groups (default "U10,U12,U14")
  -seed int         Generator seed (default 1)
  -missing int      Percent of measurements to drop (default 10)
  -timeout duration HTTP request timeout (default 30s)
  -log string       Log file (default sim_log_TIMESTAMP.log)
  -verbose          Enable verbose logging
  -help             Show this help
`)
}
