package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCharge)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseProjectiles)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseCharge] <= 0 {
		t.Error("expected charge phase to be tracked")
	}
	if stats.PhaseAvg[PhaseProjectiles] <= 0 {
		t.Error("expected projectiles phase to be tracked")
	}
	if stats.PhaseAvg[PhaseScheduler] != 0 {
		t.Error("untimed phase has a duration")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseScheduler)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCompanion)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseProjectiles)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseProjectiles] <= stats.PhasePct[PhaseCompanion] {
		t.Errorf("expected projectiles (%v%%) > companion (%v%%)",
			stats.PhasePct[PhaseProjectiles], stats.PhasePct[PhaseCompanion])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
}

func TestPerfStatsCSV(t *testing.T) {
	var s PerfStats
	s.PhasePct[PhaseProjectiles] = 42
	row := s.ToCSV(600)
	if row.WindowEnd != 600 || row.ProjectilesPct != 42 || row.ChargePct != 0 {
		t.Errorf("ToCSV = %+v", row)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseProjectiles.String() != "projectiles" {
		t.Errorf("got %q", PhaseProjectiles.String())
	}
	if Phase(200).String() != "unknown" {
		t.Errorf("got %q", Phase(200).String())
	}
}
