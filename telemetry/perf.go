package telemetry

import (
	"log/slog"
	"time"
)

// Phase is a section of the simulation step.
type Phase uint8

const (
	PhaseCharge Phase = iota
	PhaseCompanion
	PhaseProjectiles
	PhaseScheduler
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseCharge:      "charge",
	PhaseCompanion:   "companion",
	PhaseProjectiles: "projectiles",
	PhaseScheduler:   "scheduler",
	PhaseTelemetry:   "telemetry",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

const noPhase = numPhases

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [numPhases]time.Duration
}

// PerfCollector tracks wall-clock step timing over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  Phase

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		lastPhase:  noPhase,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PerfSample{}
	p.lastPhase = noPhase
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	if p.lastPhase != noPhase {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != noPhase {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.current.TickDuration = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
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

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var out PerfStats
	out.FrameDuration = p.frameDuration
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return out
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		if i == 0 || s.TickDuration < out.MinTickDuration {
			out.MinTickDuration = s.TickDuration
		}
		if s.TickDuration > out.MaxTickDuration {
			out.MaxTickDuration = s.TickDuration
		}
		for ph, d := range s.Phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.sampleCount)
	out.AvgTickDuration = total / n
	for ph := range phaseSum {
		out.PhaseAvg[ph] = phaseSum[ph] / n
		if out.AvgTickDuration > 0 {
			out.PhasePct[ph] = float64(out.PhaseAvg[ph]) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", int(pct*10)/10.0)
		}
	}
	logger.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	ChargePct      float64 `csv:"charge_pct"`
	CompanionPct   float64 `csv:"companion_pct"`
	ProjectilesPct float64 `csv:"projectiles_pct"`
	SchedulerPct   float64 `csv:"scheduler_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		ChargePct:      s.PhasePct[PhaseCharge],
		CompanionPct:   s.PhasePct[PhaseCompanion],
		ProjectilesPct: s.PhasePct[PhaseProjectiles],
		SchedulerPct:   s.PhasePct[PhaseScheduler],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
