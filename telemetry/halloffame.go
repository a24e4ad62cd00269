package telemetry

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/pthm-cable/forage/sim"
)

// HallEntry is the best recorded state of one creature.
type HallEntry struct {
	ID         uint32    `json:"id"`
	Generation uint32    `json:"generation"`
	Fitness    float32   `json:"fitness"`
	Tick       uint64    `json:"tick"`
	Genes      []float32 `json:"genes"`
}

// HallOfFame keeps the fittest creatures seen during a run, one entry per
// creature, sorted by descending fitness.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers every specimen to the hall and returns how many entries
// were added or improved. Specimens with zero fitness never qualify.
func (hof *HallOfFame) Consider(tick uint64, specimens []sim.Specimen) int {
	changed := 0
	for _, sp := range specimens {
		if sp.Fitness <= 0 {
			continue
		}

		if i := slices.IndexFunc(hof.entries, func(e HallEntry) bool { return e.ID == sp.ID }); i >= 0 {
			if hof.entries[i].Fitness >= sp.Fitness {
				continue
			}
			hof.entries = slices.Delete(hof.entries, i, i+1)
		}

		entry := HallEntry{
			ID:         sp.ID,
			Generation: sp.Generation,
			Fitness:    sp.Fitness,
			Tick:       tick,
			Genes:      slices.Clone(sp.Genes),
		}
		if hof.insertEntry(entry) {
			changed++
		}
	}
	return changed
}

// insertEntry adds an entry, maintaining sorted order by fitness. Equal
// fitness keeps the older entry first. If the hall is full the lowest
// entry is dropped.
func (hof *HallOfFame) insertEntry(entry HallEntry) bool {
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})
	if idx >= hof.maxSize {
		return false
	}

	hof.entries = slices.Insert(hof.entries, idx, entry)
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Len returns the number of entries.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}

// TopFitness returns the highest fitness in the hall, or 0 if empty.
func (hof *HallOfFame) TopFitness() float32 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// Entries returns a copy of the hall, fittest first.
func (hof *HallOfFame) Entries() []HallEntry {
	return slices.Clone(hof.entries)
}

// MarshalJSON serializes the hall as a list, fittest first.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}
