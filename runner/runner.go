// Package runner drives a simulation headless: it steps the world, flushes
// telemetry windows, detects bookmarks and writes the run's output files.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/genetic"
	"github.com/pthm-cable/forage/sim"
	"github.com/pthm-cable/forage/telemetry"
)

// Options controls a headless run.
type Options struct {
	Seed           int64
	MaxTicks       uint64 // 0 runs until extinction
	StatsWindow    int    // ticks per telemetry window
	OutputDir      string // empty disables file output
	LogStats       bool
	Plot           bool
	Snapshots      bool // save a snapshot on every bookmark
	HallOfFameSize int
	Workers        int // sense goroutines; values above 1 enable parallel sensing

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Result summarizes a finished run.
type Result struct {
	RunID         string
	Ticks         uint64
	Extinct       bool
	Population    int
	MaxGeneration uint32
	TopFitness    float32
	Bookmarks     int
	Windows       []telemetry.WindowStats
}

// Runner owns a simulation and everything that observes it.
type Runner struct {
	opts  Options
	runID string
	rng   *rand.Rand
	sim   *sim.Simulation

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	hallOfFame    *telemetry.HallOfFame
	output        *telemetry.OutputManager

	windows       []telemetry.WindowStats
	bookmarkCount int
	maxGeneration uint32
	startedAt     time.Time
}

// New builds the simulation and opens the output directory, if any.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	if opts.StatsWindow < 1 {
		opts.StatsWindow = 100
	}
	if opts.HallOfFameSize < 1 {
		opts.HallOfFameSize = 10
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	s, err := sim.New(rng, cfg)
	if err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	r := &Runner{
		opts:          opts,
		runID:         uuid.NewString(),
		rng:           rng,
		sim:           s,
		collector:     telemetry.NewCollector(opts.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(opts.StatsWindow),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		hallOfFame:    telemetry.NewHallOfFame(opts.HallOfFameSize),
		output:        output,
		startedAt:     time.Now(),
	}
	s.SetPhaseTimer(r.perfCollector)
	if opts.Workers > 1 {
		s.SetWorkers(opts.Workers)
	}

	return r, nil
}

// RunID returns the unique identifier of this run.
func (r *Runner) RunID() string { return r.runID }

// Simulation exposes the driven simulation.
func (r *Runner) Simulation() *sim.Simulation { return r.sim }

// Step advances one tick and flushes telemetry when a window completes.
func (r *Runner) Step() {
	r.sim.Step(r.rng)
	r.collector.RecordTick(r.sim.LastTick())

	if r.collector.ShouldFlush(r.sim.Age()) {
		r.flush()
	}
}

// Run steps until MaxTicks, extinction or cancellation of ctx, then writes
// the closing outputs. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	slog.Info("starting simulation",
		"run_id", r.runID,
		"seed", r.opts.Seed,
		"max_ticks", r.opts.MaxTicks,
		"stats_window", r.opts.StatsWindow,
	)

	for r.opts.MaxTicks == 0 || r.sim.Age() < r.opts.MaxTicks {
		if ctx.Err() != nil {
			slog.Info("simulation interrupted", "tick", r.sim.Age())
			break
		}

		r.Step()

		if r.sim.Extinct() {
			slog.Info("population extinct", "tick", r.sim.Age())
			break
		}
	}

	return r.finish()
}

// finish flushes the partial window and writes the run summary.
func (r *Runner) finish() (Result, error) {
	if r.collector.Pending(r.sim.Age()) {
		r.flush()
	}

	result := Result{
		RunID:         r.runID,
		Ticks:         r.sim.Age(),
		Extinct:       r.sim.Extinct(),
		Population:    r.sim.Population(),
		MaxGeneration: r.maxGeneration,
		TopFitness:    r.hallOfFame.TopFitness(),
		Bookmarks:     r.bookmarkCount,
		Windows:       r.windows,
	}

	err := r.output.WriteManifest(telemetry.RunManifest{
		RunID:           result.RunID,
		Seed:            r.opts.Seed,
		StartedAt:       r.startedAt,
		FinishedAt:      time.Now(),
		Ticks:           result.Ticks,
		Extinct:         result.Extinct,
		FinalPopulation: result.Population,
		MaxGeneration:   result.MaxGeneration,
		TopFitness:      result.TopFitness,
		Bookmarks:       result.Bookmarks,
	})
	if err != nil {
		return result, err
	}
	if err := r.output.WriteHallOfFame(r.hallOfFame); err != nil {
		return result, err
	}
	if r.opts.Plot {
		if err := r.output.WritePlots(r.windows); err != nil {
			return result, err
		}
	}

	slog.Info("simulation finished",
		"run_id", result.RunID,
		"ticks", result.Ticks,
		"extinct", result.Extinct,
		"population", result.Population,
		"max_generation", result.MaxGeneration,
		"top_fitness", result.TopFitness,
	)
	return result, nil
}

// flush closes the current telemetry window.
func (r *Runner) flush() {
	view := r.sim.World()
	specimens := r.sim.Specimens()

	stats := r.collector.Flush(view, genetic.NewStatistics(r.sim.Individuals()))
	perfStats := r.perfCollector.Stats()

	r.windows = append(r.windows, stats)
	r.maxGeneration = max(r.maxGeneration, stats.GenerationMax)
	r.hallOfFame.Consider(view.Tick, specimens)

	if r.opts.StatsCallback != nil {
		r.opts.StatsCallback(stats)
	}

	if r.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range r.bookmarks.Check(stats) {
		r.bookmarkCount++
		if r.opts.LogStats {
			bm.LogBookmark()
		}
		if err := r.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if r.opts.Snapshots {
			r.saveSnapshot(view, specimens, bm)
		}
	}
}

func (r *Runner) saveSnapshot(view sim.WorldView, specimens []sim.Specimen, bm telemetry.Bookmark) {
	snapshot, err := telemetry.NewSnapshot(r.runID, r.opts.Seed, view, specimens)
	if err != nil {
		slog.Error("failed to build snapshot", "error", err)
		return
	}
	snapshot.Bookmark = &bm

	path, err := r.output.WriteSnapshot(snapshot)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	if path != "" {
		slog.Info("snapshot saved", "path", path, "tick", view.Tick)
	}
}

// Close releases the output files.
func (r *Runner) Close() error {
	return r.output.Close()
}
