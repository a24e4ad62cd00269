package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/forage/sim"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the world state at one tick, genes included.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	Seed    int64  `json:"seed"`
	Tick    uint64 `json:"tick"`

	FoodTarget int             `json:"food_target"`
	Creatures  []CreatureState `json:"creatures"`
	Foods      []sim.FoodView  `json:"foods"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// CreatureState holds one creature's complete state.
type CreatureState struct {
	ID         uint32    `json:"id"`
	X          float32   `json:"x"`
	Y          float32   `json:"y"`
	Rotation   float32   `json:"rotation"`
	Speed      float32   `json:"speed"`
	Energy     float32   `json:"energy"`
	Size       float32   `json:"size"`
	Color      float32   `json:"color"`
	Satiation  uint32    `json:"satiation"`
	Generation uint32    `json:"generation"`
	Genes      []float32 `json:"genes"`
}

// NewSnapshot combines a world view with the matching specimens. Both must
// come from the same tick, so they list creatures in the same order.
func NewSnapshot(runID string, seed int64, view sim.WorldView, specimens []sim.Specimen) (*Snapshot, error) {
	if len(specimens) != len(view.Creatures) {
		return nil, fmt.Errorf("snapshot: %d specimens for %d creatures", len(specimens), len(view.Creatures))
	}

	creatures := make([]CreatureState, len(view.Creatures))
	for i, c := range view.Creatures {
		if specimens[i].ID != c.ID {
			return nil, fmt.Errorf("snapshot: specimen %d is creature %d, want %d", i, specimens[i].ID, c.ID)
		}
		creatures[i] = CreatureState{
			ID:         c.ID,
			X:          c.X,
			Y:          c.Y,
			Rotation:   c.Rotation,
			Speed:      c.Speed,
			Energy:     c.Energy,
			Size:       c.Size,
			Color:      c.Color,
			Satiation:  c.Satiation,
			Generation: c.Generation,
			Genes:      specimens[i].Genes,
		}
	}

	return &Snapshot{
		Version:    SnapshotVersion,
		RunID:      runID,
		Seed:       seed,
		Tick:       view.Tick,
		FoodTarget: view.FoodTarget,
		Creatures:  creatures,
		Foods:      view.Foods,
	}, nil
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
