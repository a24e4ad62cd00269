package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_ForageBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 100), Population: 20, Meals: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 500, Population: 20, Meals: 40})
	if !hasBookmark(bookmarks, BookmarkForageBreakthrough) {
		t.Error("expected forage_breakthrough bookmark")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 100), Population: 40})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 500, Population: 20})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}

	// The peak resets, so holding steady does not crash again.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 600, Population: 20})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash reported twice")
	}
}

func TestBookmarkDetector_PopulationRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := range 3 {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 100), Population: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, Population: 10})
	if !hasBookmark(bookmarks, BookmarkPopulationRecovery) {
		t.Error("expected population_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := -1
	for i := range 12 {
		bookmarks := bd.Check(WindowStats{WindowEndTick: uint64(i * 100), Population: 20})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			if triggered >= 0 {
				t.Fatalf("stable ecosystem reported at windows %d and %d", triggered, i)
			}
			triggered = i
		}
	}

	if triggered != 8 {
		t.Errorf("stable ecosystem reported at window %d, want 8", triggered)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTick: 100, Population: 3})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 200, Population: 0})
	if !hasBookmark(bookmarks, BookmarkExtinction) {
		t.Error("expected extinction bookmark")
	}
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("extinction should not also report a crash")
	}
}

func TestBookmarkDetector_GenerationMilestone(t *testing.T) {
	bd := NewBookmarkDetector(10)

	tests := []struct {
		generation uint32
		want       bool
	}{
		{5, false},
		{12, true},
		{19, false},
		{35, true},
		{35, false},
	}

	for i, tt := range tests {
		bookmarks := bd.Check(WindowStats{WindowEndTick: uint64(i * 100), Population: 20, GenerationMax: tt.generation})
		if got := hasBookmark(bookmarks, BookmarkGenerationMark); got != tt.want {
			t.Errorf("generation %d: milestone = %v, want %v", tt.generation, got, tt.want)
		}
	}
}
