package game

import (
	"log/slog"

	"github.com/pthm-cable/blips/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.blips.All(), g.food.Total())
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		slog.Info("stats", "window", stats, "perf", perfStats)
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the committed state to the snapshot directory.
func (g *Game) saveSnapshot(bm *telemetry.Bookmark) {
	s := g.Snapshot()
	s.Bookmark = bm
	path, err := telemetry.SaveSnapshot(s, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	if g.logStats {
		slog.Info("snapshot saved", "path", path, "tick", g.tick)
	}
}
