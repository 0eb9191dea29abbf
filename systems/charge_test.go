package systems

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/fx"
)

func TestChargeForceEndpoints(t *testing.T) {
	c := NewChargeController(config.Defaults(), nil)
	tests := []struct {
		name string
		hold time.Duration
		want float64
	}{
		{"zero", 0, 10},
		{"half", 750 * time.Millisecond, 20},
		{"max", 1500 * time.Millisecond, 30},
		{"over", 4 * time.Second, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ForceForHold(tt.hold); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ForceForHold(%v) = %v, want %v", tt.hold, got, tt.want)
			}
		})
	}
}

func TestChargeForceMonotonic(t *testing.T) {
	c := NewChargeController(config.Defaults(), nil)
	prev := c.ForceForHold(0)
	for ms := 10; ms <= 2000; ms += 10 {
		f := c.ForceForHold(time.Duration(ms) * time.Millisecond)
		if f < prev {
			t.Fatalf("force decreased at %dms: %v < %v", ms, f, prev)
		}
		prev = f
	}
}

func TestChargeCooldown(t *testing.T) {
	rec := fx.NewRecorder()
	c := NewChargeController(config.Defaults(), rec)

	if !c.StartCharge(0) {
		t.Fatal("first StartCharge rejected")
	}
	if !rec.IndicatorVisible {
		t.Error("indicator not shown")
	}
	if c.StartCharge(10 * time.Millisecond) {
		t.Error("StartCharge while charging accepted")
	}
	force, ok := c.Release(time.Second)
	if !ok {
		t.Fatal("Release rejected")
	}
	if math.Abs(force-(10+20*1000.0/1500)) > 1e-9 {
		t.Errorf("force = %v", force)
	}
	if rec.IndicatorVisible {
		t.Error("indicator still visible")
	}

	if c.StartCharge(1499 * time.Millisecond) {
		t.Error("StartCharge inside cooldown accepted")
	}
	if !c.StartCharge(1500 * time.Millisecond) {
		t.Error("StartCharge after cooldown rejected")
	}
}

func TestReleaseWithoutCharge(t *testing.T) {
	c := NewChargeController(config.Defaults(), nil)
	if _, ok := c.Release(time.Second); ok {
		t.Error("Release without charge accepted")
	}
	// a no-op release must not start a cooldown
	if !c.StartCharge(time.Second) {
		t.Error("StartCharge rejected after no-op release")
	}
}

func TestIndicatorHue(t *testing.T) {
	rec := fx.NewRecorder()
	c := NewChargeController(config.Defaults(), rec)
	c.StartCharge(0)
	c.Update(1500 * time.Millisecond)
	if math.Abs(rec.IndicatorHue-0.3) > 1e-9 {
		t.Errorf("hue at full charge = %v, want 0.3", rec.IndicatorHue)
	}
	c.Cancel()
	if c.Charging() || rec.IndicatorVisible {
		t.Error("Cancel left charge active")
	}
}

func TestHoldForForce(t *testing.T) {
	c := NewChargeController(config.Defaults(), nil)
	tests := []struct {
		force float64
		want  time.Duration
	}{
		{5, 0},
		{10, 0},
		{20, 750 * time.Millisecond},
		{30, 1500 * time.Millisecond},
		{45, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := c.HoldForForce(tt.force); got != tt.want {
			t.Errorf("HoldForForce(%v) = %v, want %v", tt.force, got, tt.want)
		}
		if tt.force >= 10 && tt.force <= 30 {
			if back := c.ForceForHold(c.HoldForForce(tt.force)); math.Abs(back-tt.force) > 1e-6 {
				t.Errorf("round trip %v -> %v", tt.force, back)
			}
		}
	}
}
