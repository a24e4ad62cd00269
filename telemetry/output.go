package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/forage/config"
)

// Output file names inside a run directory.
const (
	TelemetryFile  = "telemetry.csv"
	PerfFile       = "perf.csv"
	BookmarkFile   = "bookmarks.csv"
	ConfigFile     = "config.yaml"
	ManifestFile   = "run.yaml"
	HallOfFameFile = "hall_of_fame.json"
	SnapshotDir    = "snapshots"
)

// RunManifest summarizes a finished run.
type RunManifest struct {
	RunID           string    `yaml:"run_id"`
	Seed            int64     `yaml:"seed"`
	StartedAt       time.Time `yaml:"started_at"`
	FinishedAt      time.Time `yaml:"finished_at"`
	Ticks           uint64    `yaml:"ticks"`
	Extinct         bool      `yaml:"extinct"`
	FinalPopulation int       `yaml:"final_population"`
	MaxGeneration   uint32    `yaml:"max_generation"`
	TopFitness      float32   `yaml:"top_fitness"`
	Bookmarks       int       `yaml:"bookmarks"`
}

// csvWriter appends records to one CSV file, writing the header once.
type csvWriter struct {
	file          *os.File
	headerWritten bool
}

func (w *csvWriter) write(records any) error {
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return err
		}
		w.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, w.file)
}

// OutputManager handles structured experiment output with CSV logging.
// A nil *OutputManager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvWriter
	perf      *csvWriter
	bookmarks *csvWriter
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, target := range []struct {
		name string
		w    **csvWriter
	}{
		{TelemetryFile, &om.telemetry},
		{PerfFile, &om.perf},
		{BookmarkFile, &om.bookmarks},
	} {
		f, err := os.Create(filepath.Join(dir, target.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", target.name, err)
		}
		*target.w = &csvWriter{file: f}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteManifest saves the run summary as YAML.
func (om *OutputManager) WriteManifest(m RunManifest) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", ManifestFile, err)
	}
	return nil
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteSnapshot saves a snapshot under the snapshots directory.
func (om *OutputManager) WriteSnapshot(s *Snapshot) (string, error) {
	if om == nil {
		return "", nil
	}
	return SaveSnapshot(s, filepath.Join(om.dir, SnapshotDir))
}

// WriteHallOfFame saves the hall of fame as JSON.
func (om *OutputManager) WriteHallOfFame(hof *HallOfFame) error {
	if om == nil || hof == nil {
		return nil
	}

	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, HallOfFameFile), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", HallOfFameFile, err)
	}
	return nil
}

// WritePlots renders the fitness and population charts.
func (om *OutputManager) WritePlots(windows []WindowStats) error {
	if om == nil || len(windows) == 0 {
		return nil
	}
	if err := PlotWindows(windows, "Fitness", "Satiation", FitnessSeries, filepath.Join(om.dir, "fitness.png")); err != nil {
		return fmt.Errorf("plotting fitness: %w", err)
	}
	if err := PlotWindows(windows, "Population", "Count", PopulationSeries, filepath.Join(om.dir, "population.png")); err != nil {
		return fmt.Errorf("plotting population: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files, returning the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, w := range []*csvWriter{om.telemetry, om.perf, om.bookmarks} {
		if w == nil {
			continue
		}
		if err := w.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
