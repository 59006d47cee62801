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

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 500), Blips: 100, TotalFood: 1000})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2500, Blips: 50, TotalFood: 1000})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}
}

func TestBookmarkDetector_PopulationBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 500), Blips: 20, TotalFood: 1000})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1500, Blips: 45, TotalFood: 1000})
	if !hasBookmark(bookmarks, BookmarkPopulationBoom) {
		t.Error("expected population_boom bookmark")
	}
}

func TestBookmarkDetector_GenerationRecord(t *testing.T) {
	bd := NewBookmarkDetector(10)

	tests := []struct {
		genMax int
		want   bool
	}{
		{3, false},
		{10, true},
		{14, false},
		{27, true},
		{29, false},
		{30, true},
	}
	for i, tt := range tests {
		got := hasBookmark(bd.Check(WindowStats{WindowEndTick: int64(i), Blips: 50, GenMax: tt.genMax}), BookmarkGenerationRecord)
		if got != tt.want {
			t.Errorf("GenMax %d: bookmark = %v, want %v", tt.genMax, got, tt.want)
		}
	}
}

func TestBookmarkDetector_Famine(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 500), Blips: 50, TotalFood: 800})
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 2000, Blips: 50, TotalFood: 600}), BookmarkFamine) {
		t.Error("unexpected famine at 75% of average")
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 2500, Blips: 50, TotalFood: 200}), BookmarkFamine) {
		t.Error("expected famine bookmark")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 12; i++ {
		if hasBookmark(bd.Check(WindowStats{WindowEndTick: int64(i * 500), Blips: 100}), BookmarkStablePopulation) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("stable_population fired %d times, want exactly once", count)
	}
}
