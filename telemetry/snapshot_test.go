package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/sim"
)

func newTestSim(t *testing.T, seed int64) (*sim.Simulation, *rand.Rand) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s, err := sim.New(rng, config.Default())
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	return s, rng
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	s, rng := newTestSim(t, 42)
	for range 10 {
		s.Step(rng)
	}

	snapshot, err := NewSnapshot("run-1", 42, s.World(), s.Specimens())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	snapshot.Bookmark = &Bookmark{Type: BookmarkStableEcosystem, Tick: 10, Description: "test"}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RunID != "run-1" || loaded.Seed != 42 || loaded.Tick != 10 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Creatures) != len(snapshot.Creatures) {
		t.Fatalf("Creatures count mismatch: got %d, want %d", len(loaded.Creatures), len(snapshot.Creatures))
	}
	for i := range loaded.Creatures {
		if !slices.Equal(loaded.Creatures[i].Genes, snapshot.Creatures[i].Genes) {
			t.Errorf("creature %d genes changed in round trip", i)
		}
	}
	if !slices.Equal(loaded.Foods, snapshot.Foods) {
		t.Error("foods changed in round trip")
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkStableEcosystem {
		t.Errorf("Bookmark not loaded: %+v", loaded.Bookmark)
	}
}

func TestNewSnapshotMismatch(t *testing.T) {
	s, _ := newTestSim(t, 1)
	specimens := s.Specimens()

	if _, err := NewSnapshot("", 1, s.World(), specimens[1:]); err == nil {
		t.Error("expected error for missing specimen")
	}

	slices.Reverse(specimens)
	if _, err := NewSnapshot("", 1, s.World(), specimens); err == nil {
		t.Error("expected error for reordered specimens")
	}
}

func TestLoadSnapshotVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkPopulationCrash, Tick: 5000},
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000_population_crash.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_3000.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}
