package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies a stage of the tick pipeline.
type Phase uint8

// Phases in execution order.
const (
	PhaseSnapshot Phase = iota
	PhaseDecide
	PhaseMerge
	PhaseCull
	PhaseFloor
	PhaseReplenish
	PhaseMotion
	PhaseReindex
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"snapshot", "decide", "merge", "cull", "floor",
	"replenish", "motion", "reindex", "telemetry",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// phaseTimes holds one duration per phase.
type phaseTimes [numPhases]time.Duration

// PerfCollector tracks tick and phase timings over a rolling window.
type PerfCollector struct {
	samples    []time.Duration
	phases     []phaseTimes
	writeIndex int
	count      int

	current    phaseTimes
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
	inPhase    bool

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]time.Duration, windowSize),
		phases:  make([]phaseTimes, windowSize),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = phaseTimes{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	if p.inPhase {
		p.current[p.active] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.active = phase
	p.inPhase = true
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.inPhase {
		p.current[p.active] += now.Sub(p.phaseStart)
		p.inPhase = false
	}

	p.samples[p.writeIndex] = now.Sub(p.tickStart)
	p.phases[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase.
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples in the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frameDuration}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum phaseTimes
	for i := 0; i < p.count; i++ {
		d := p.samples[i]
		total += d
		if i == 0 || d < s.MinTickDuration {
			s.MinTickDuration = d
		}
		s.MaxTickDuration = max(s.MaxTickDuration, d)
		for ph, pd := range p.phases[i] {
			phaseSum[ph] += pd
		}
	}

	s.AvgTickDuration = total / time.Duration(p.count)
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / time.Duration(p.count)
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SnapshotPct  float64 `csv:"snapshot_pct"`
	DecidePct    float64 `csv:"decide_pct"`
	MergePct     float64 `csv:"merge_pct"`
	CullPct      float64 `csv:"cull_pct"`
	FloorPct     float64 `csv:"floor_pct"`
	ReplenishPct float64 `csv:"replenish_pct"`
	MotionPct    float64 `csv:"motion_pct"`
	ReindexPct   float64 `csv:"reindex_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SnapshotPct:  s.PhasePct[PhaseSnapshot],
		DecidePct:    s.PhasePct[PhaseDecide],
		MergePct:     s.PhasePct[PhaseMerge],
		CullPct:      s.PhasePct[PhaseCull],
		FloorPct:     s.PhasePct[PhaseFloor],
		ReplenishPct: s.PhasePct[PhaseReplenish],
		MotionPct:    s.PhasePct[PhaseMotion],
		ReindexPct:   s.PhasePct[PhaseReindex],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
