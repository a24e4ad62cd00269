package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkForageBreakthrough BookmarkType = "forage_breakthrough"
	BookmarkPopulationCrash    BookmarkType = "population_crash"
	BookmarkPopulationRecovery BookmarkType = "population_recovery"
	BookmarkGenerationMark     BookmarkType = "generation_milestone"
	BookmarkStableEcosystem    BookmarkType = "stable_ecosystem"
	BookmarkExtinction         BookmarkType = "extinction"
)

// GenerationMilestone is the generation step that triggers a milestone bookmark.
const GenerationMilestone = 10

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        uint64       `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments from successive windows.
type BookmarkDetector struct {
	history     []WindowStats // oldest first
	historySize int

	recentMin          int // smallest nonzero population since the last recovery
	recentPeak         int // largest population since the last crash
	stableWindowsCount int
	generationMark     uint32
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // stable ecosystem detection needs 4 prior windows
	}
	return &BookmarkDetector{historySize: historySize}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	if len(bd.history) > 0 {
		add(bd.checkExtinction(stats))
		add(bd.checkForageBreakthrough(stats))
		add(bd.checkPopulationRecovery(stats))
		add(bd.checkPopulationCrash(stats))
		add(bd.checkStableEcosystem(stats))
	}
	add(bd.checkGeneration(stats))

	bd.history = append(bd.history, stats)
	if len(bd.history) > bd.historySize {
		bd.history = bd.history[1:]
	}

	if stats.Population > 0 && (bd.recentMin == 0 || stats.Population < bd.recentMin) {
		bd.recentMin = stats.Population
	}
	bd.recentPeak = max(bd.recentPeak, stats.Population)

	return bookmarks
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	prev := bd.history[len(bd.history)-1]
	if stats.Population > 0 || prev.Population == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population died out from %d creatures", prev.Population),
	}
}

func mealsPerCreature(s WindowStats) float64 {
	if s.Population == 0 {
		return 0
	}
	return float64(s.Meals) / float64(s.Population)
}

func (bd *BookmarkDetector) checkForageBreakthrough(stats WindowStats) *Bookmark {
	if len(bd.history) < 3 {
		return nil
	}

	var total float64
	for _, h := range bd.history {
		total += mealsPerCreature(h)
	}
	avg := total / float64(len(bd.history))
	if avg == 0 {
		return nil
	}

	current := mealsPerCreature(stats)
	if current > avg*2 && stats.Meals >= 5 {
		return &Bookmark{
			Type:        BookmarkForageBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Meals per creature %.2f is %.1fx average (%.2f)", current, current/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationRecovery(stats WindowStats) *Bookmark {
	if bd.recentMin == 0 || bd.recentMin > 3 {
		return nil
	}

	if stats.Population >= bd.recentMin*3 && stats.Population >= 6 {
		oldMin := bd.recentMin
		bd.recentMin = stats.Population
		return &Bookmark{
			Type:        BookmarkPopulationRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population recovered from %d to %d", oldMin, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 || stats.Population == 0 {
		return nil
	}

	drop := 1 - float64(stats.Population)/float64(bd.recentPeak)
	if drop > 0.30 && stats.Population <= bd.recentPeak-5 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Population < 5 {
		bd.stableWindowsCount = 0
		return nil
	}
	if len(bd.history) < 4 {
		return nil
	}

	recent := bd.history[len(bd.history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Population)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Population) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population of %d over 5+ windows", stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkGeneration(stats WindowStats) *Bookmark {
	mark := stats.GenerationMax / GenerationMilestone * GenerationMilestone
	if mark <= bd.generationMark {
		return nil
	}
	bd.generationMark = mark
	return &Bookmark{
		Type:        BookmarkGenerationMark,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Generation %d reached", mark),
	}
}
