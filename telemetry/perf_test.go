package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDecide)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMotion)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseDecide] <= 0 {
		t.Error("expected decide phase to be tracked")
	}
	if stats.PhaseAvg[PhaseMotion] <= 0 {
		t.Error("expected motion phase to be tracked")
	}
	if stats.PhaseAvg[PhaseReindex] != 0 {
		t.Error("phase that never ran has a duration")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSnapshot)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseMerge)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseReplenish)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseReplenish] <= stats.PhasePct[PhaseMerge] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)",
			stats.PhasePct[PhaseReplenish], stats.PhasePct[PhaseMerge])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero values for empty collector")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want in (0, 70]", stats.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseDecide.String() != "decide" || PhaseTelemetry.String() != "telemetry" {
		t.Errorf("unexpected names %q %q", PhaseDecide, PhaseTelemetry)
	}
	if Phase(200).String() != "unknown" {
		t.Error("out of range phase should be unknown")
	}
}

func TestPerfStatsCSV(t *testing.T) {
	var s PerfStats
	s.PhasePct[PhaseDecide] = 60
	s.PhasePct[PhaseMotion] = 25
	row := s.ToCSV(42)
	if row.WindowEnd != 42 || row.DecidePct != 60 || row.MotionPct != 25 {
		t.Errorf("unexpected row %+v", row)
	}
}
