package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/throwcore/config"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1, 0.1)
	if c.ShouldFlush(9) {
		t.Error("flush before window end")
	}
	if !c.ShouldFlush(10) {
		t.Error("no flush at window end")
	}

	c.Record(NewThrowEvent(1, true, 20))
	c.Record(NewThrowEvent(2, false, 15))
	c.Record(NewThrowEvent(3, true, 25))
	c.Record(NewHitEvent(4, "a", true, 0.5))
	c.Record(NewExpireEvent(5, "b", false, 5.0))
	c.Record(NewBounceEvent(6, "c", true, true))
	c.Record(NewBounceEvent(7, "c", true, false))
	for _, ok := range []bool{true, false} {
		attempt, outcome := NewCaptureEvent(8, "Sproutle", 0.3, ok)
		c.Record(attempt)
		c.Record(outcome)
	}

	s := c.Flush(10, WorldState{Wild: 5, CompanionOut: true, TeamSize: 2})

	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d]", s.WindowStartTick, s.WindowEndTick)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("SimTimeSec = %v", s.SimTimeSec)
	}
	if s.Throws != 3 || s.CaptureThrows != 2 || s.CombatThrows != 1 {
		t.Errorf("throws = %d/%d/%d", s.Throws, s.CaptureThrows, s.CombatThrows)
	}
	if s.Bounces != 2 || s.FirstBounces != 1 {
		t.Errorf("bounces = %d first = %d", s.Bounces, s.FirstBounces)
	}
	if s.CaptureAttempts != 2 || s.Captures != 1 || s.CaptureFails != 1 {
		t.Errorf("captures = %d/%d/%d", s.CaptureAttempts, s.Captures, s.CaptureFails)
	}
	if s.CaptureSuccessRate != 0.5 {
		t.Errorf("CaptureSuccessRate = %v", s.CaptureSuccessRate)
	}
	if math.Abs(s.CatchRateMean-0.3) > 1e-9 || s.CatchRateStd > 1e-9 {
		t.Errorf("catch rate = %v ± %v", s.CatchRateMean, s.CatchRateStd)
	}
	if math.Abs(s.FlightTimeMean-2.75) > 1e-9 {
		t.Errorf("FlightTimeMean = %v", s.FlightTimeMean)
	}
	if s.Wild != 5 || s.CompanionOut != 1 || s.TeamSize != 2 {
		t.Errorf("state = %+v", s)
	}

	// counters reset
	next := c.Flush(20, WorldState{})
	if next.WindowStartTick != 10 || next.Throws != 0 || next.CaptureAttempts != 0 || next.FlightTimeMean != 0 {
		t.Errorf("second window not reset: %+v", next)
	}
}

func TestCollectorIgnoresUnknownEvents(t *testing.T) {
	c := NewCollector(1, 0.1)
	c.Record(Event{Type: EventType(250)})
	if c.Count(EventType(250)) != 0 {
		t.Error("unknown event counted")
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for _, end := range []int32{600, 1200} {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: end, Throws: 3}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,wild") {
		t.Errorf("header = %q", lines[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
