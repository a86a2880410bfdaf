package game

import "log/slog"

// flushTelemetry emits a stats row whenever a stats window completes.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.clock) {
		return
	}
	stats := g.collector.Flush(g.clock, g.driver)
	perfStats := g.perfCollector.Stats()

	if g.opts.LogStats || g.cfg.Telemetry.LogStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf", "frame", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, g.frames); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
