package main

import (
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/systems"
)

// missPenalty is the objective for throws that never land.
const missPenalty = 1e6

// Range throws single projectiles across a flat floor.
type Range struct {
	cfg    *config.Config
	charge *systems.ChargeController
	logger *slog.Logger
}

// NewRange creates a range for cfg.
func NewRange(cfg *config.Config) *Range {
	return &Range{
		cfg:    cfg,
		charge: systems.NewChargeController(cfg, nil),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Hold maps a normalized charge fraction to a hold duration.
func (r *Range) Hold(x float64) time.Duration {
	x = math.Max(0, math.Min(1, x))
	return time.Duration(x * float64(r.cfg.Derived.MaxCharge))
}

// Force returns the throw force for a hold.
func (r *Range) Force(hold time.Duration) float64 {
	return r.charge.ForceForHold(hold)
}

// Landing returns the horizontal distance from the thrower to the first
// floor contact, interpolated inside the tick where contact happened.
func (r *Range) Landing(hold time.Duration, pitch float64) (float64, bool) {
	world := ecs.NewWorld()
	scene := systems.NewMeshScene(systems.FlatQuad("range_floor", r3.Vec{}, 1000))
	ground := systems.NewGroundQuery(scene, r.cfg, r.logger)
	ps := systems.NewProjectileSystem(world, r.cfg, ground, nil, nil, nil, nil, r.logger)

	eye := r3.Vec{Y: r.cfg.Throw.EyeHeight}
	dir := r3.Vec{Y: math.Sin(pitch), Z: math.Cos(pitch)}
	ps.Spawn(components.ThrowRequest{
		Origin:    r3.Add(eye, r3.Scale(r.cfg.Throw.ForwardOffset, dir)),
		Direction: dir,
		Force:     r.Force(hold),
	})

	dt := r.cfg.Derived.DT
	secs := dt.Seconds()
	gy := r.cfg.Derived.Gravity.Y
	for ps.Count() > 0 {
		views := ps.Views()
		if len(views) == 0 {
			break
		}
		prev := views[0]
		for _, ev := range ps.Update(dt) {
			if ev.Kind != systems.FlightBounce {
				continue
			}
			// same step the integrator takes, then cut it at the contact height
			vy := prev.Velocity.Y + gy*secs
			dy := vy * secs
			s := 1.0
			if dy < 0 {
				s = math.Max(0, math.Min(1, (prev.Position.Y-prev.Radius)/-dy))
			}
			return prev.Position.Z + s*prev.Velocity.Z*secs, true
		}
	}
	return 0, false
}

// Objective returns the squared landing error for a normalized hold.
func (r *Range) Objective(target, pitch float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		d, ok := r.Landing(r.Hold(x[0]), pitch)
		if !ok {
			return missPenalty
		}
		// outside [0,1] the hold clamps; keep the optimizer inside
		over := math.Max(0, x[0]-1) + math.Max(0, -x[0])
		return (d-target)*(d-target) + over*over*missPenalty
	}
}
