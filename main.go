package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/runner"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml or config.ini (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Int("stats-window", 100, "Stats window size in ticks")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and plots")
	plots := flag.Bool("plot", false, "Render fitness and population charts into the output directory")
	snapshots := flag.Bool("snapshots", false, "Save a world snapshot on every bookmark")
	hallSize := flag.Int("hall-of-fame", 10, "Number of fittest creatures to keep")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = run until extinction)")
	workers := flag.Int("workers", 1, "Goroutines for the sense phase (1 = single-threaded)")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(2)
	}

	// JSON to stdout for structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	r, err := runner.New(cfg, runner.Options{
		Seed:           rngSeed,
		MaxTicks:       *maxTicks,
		StatsWindow:    *statsWindow,
		OutputDir:      *outputDir,
		LogStats:       *logStats,
		Plot:           *plots,
		Snapshots:      *snapshots,
		HallOfFameSize: *hallSize,
		Workers:        *workers,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, runErr := r.Run(ctx)
	if err := r.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if runErr != nil {
		slog.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}
