// Package main is the entry point for the elspeth pipeline runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/elspeth-etl/elspeth/internal/config"
	"github.com/elspeth-etl/elspeth/internal/engine"
	"github.com/elspeth-etl/elspeth/internal/telemetry"
)

// loadEnvFiles loads .env from standard locations.
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	configEnv := filepath.Join(homeDir, ".config", "elspeth", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Local .env can override.
	_ = godotenv.Load()
}

func main() {
	configPath := flag.String("config", "", "path to the pipeline definition (required)")
	validateOnly := flag.Bool("validate", false, "validate the definition and exit")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: elspeth -config pipeline.yaml [-validate]")
		os.Exit(2)
	}

	loadEnvFiles()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "elspeth: %v\n", err)
		os.Exit(1)
	}

	telemetry.Global(cfg.Logging)

	reg := engine.DefaultRegistry()

	emitter, err := telemetry.NewEmitter(cfg.Telemetry)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize telemetry")
		os.Exit(1)
	}
	defer emitter.Close()

	eng := engine.New(cfg, reg, emitter)

	// The whole definition is vetted before any plugin is built or run.
	if err := eng.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid pipeline definition")
		os.Exit(1)
	}
	if *validateOnly {
		log.Info().Str("pipeline", cfg.Pipeline.Name).Msg("pipeline definition is valid")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := eng.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", res.RunID).Msg("pipeline run failed")
		os.Exit(1)
	}

	log.Info().
		Str("run_id", res.RunID).
		Str("pipeline", cfg.Pipeline.Name).
		Int("rows_read", res.RowsRead).
		Int("rows_written", res.RowsWritten).
		Dur("duration", res.Duration).
		Msg("pipeline run complete")
}
