package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkPopulationBoom   BookmarkType = "population_boom"
	BookmarkGenerationRecord BookmarkType = "generation_record"
	BookmarkFamine           BookmarkType = "famine"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
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

// generationStep is the spacing of generation record bookmarks.
const generationStep = 10

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int // peak population since the last crash
	recentLow          int // lowest population since the last boom
	generationMark     int // next generation that triggers a record
	stableWindowsCount int // consecutive windows with a stable population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:        make([]WindowStats, historySize),
		historySize:    historySize,
		generationMark: generationStep,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkCrash,
			bd.checkBoom,
			bd.checkFamine,
			bd.checkStable,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}
	if b := bd.checkGeneration(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Blips > bd.recentPeak {
		bd.recentPeak = stats.Blips
	}
	if stats.Blips < bd.recentLow || bd.recentLow == 0 {
		bd.recentLow = stats.Blips
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkCrash fires when the population drops more than 30% below its recent peak.
func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}
	drop := 1.0 - float64(stats.Blips)/float64(bd.recentPeak)
	if drop > 0.30 && stats.Blips < bd.recentPeak-10 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Blips
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Blips),
		}
	}
	return nil
}

// checkBoom fires when the population at least doubles from its recent low.
func (bd *BookmarkDetector) checkBoom(stats WindowStats) *Bookmark {
	if bd.recentLow == 0 {
		return nil
	}
	if stats.Blips >= bd.recentLow*2 && stats.Blips >= bd.recentLow+10 {
		oldLow := bd.recentLow
		bd.recentLow = stats.Blips
		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population grew from %d to %d", oldLow, stats.Blips),
		}
	}
	return nil
}

// checkGeneration fires each time the deepest lineage passes another
// multiple of generationStep.
func (bd *BookmarkDetector) checkGeneration(stats WindowStats) *Bookmark {
	if stats.GenMax < bd.generationMark {
		return nil
	}
	for bd.generationMark <= stats.GenMax {
		bd.generationMark += generationStep
	}
	return &Bookmark{
		Type:        BookmarkGenerationRecord,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Lineage reached generation %d", stats.GenMax),
	}
}

// checkFamine fires when the food total falls below half the rolling average.
func (bd *BookmarkDetector) checkFamine(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	var total float64
	for _, h := range history {
		total += h.TotalFood
	}
	avg := total / float64(len(history))
	if avg <= 0 || stats.TotalFood >= avg*0.5 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFamine,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Food %.1f is %.0f%% of average (%.1f)", stats.TotalFood, stats.TotalFood/avg*100, avg),
	}
}

// checkStable fires once when the population has kept a coefficient of
// variation below 20% for five consecutive windows.
func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Blips < 10 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Blips)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Blips) - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population of %d over 5+ windows", stats.Blips),
		}
	}
	return nil
}
