package input

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
)

// Ball is a capture device held in hand.
type Ball struct {
	Payload *components.CreatureSnapshot
}

// Holster takes back balls released too gently to count as a throw.
type Holster interface {
	Return(ball Ball)
}

// HandAdapter throws with the tracked velocity of the releasing hand.
type HandAdapter struct {
	cfg      config.HandConfig
	tracker  *VelocityTracker
	holster  Holster
	launcher Launcher
	logger   *slog.Logger

	held      *Ball
	lastSpeed float64
}

// NewHandAdapter creates a hand adapter.
func NewHandAdapter(cfg *config.Config, holster Holster, launcher Launcher, logger *slog.Logger) *HandAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HandAdapter{
		cfg:      cfg.Hand,
		tracker:  NewVelocityTracker(cfg.Hand.Samples, cfg.Derived.MinSampleDt),
		holster:  holster,
		launcher: launcher,
		logger:   logger,
	}
}

// Holding reports whether a ball is in hand.
func (a *HandAdapter) Holding() bool {
	return a.held != nil
}

// LastSpeed returns the hand speed at the last release.
func (a *HandAdapter) LastSpeed() float64 {
	return a.lastSpeed
}

// Grab puts ball in hand and starts tracking.
func (a *HandAdapter) Grab(ball Ball, pos r3.Vec, now time.Duration) {
	a.held = &ball
	a.tracker.Reset()
	a.tracker.Add(pos, now)
}

// Track records the hand position while a ball is held.
func (a *HandAdapter) Track(pos r3.Vec, now time.Duration) {
	if a.held != nil {
		a.tracker.Add(pos, now)
	}
}

// Release lets go at pos. A slow hand drops the ball back into the holster
// and no projectile is spawned.
func (a *HandAdapter) Release(pos r3.Vec, now time.Duration) (components.ThrowRequest, bool) {
	if a.held == nil {
		return components.ThrowRequest{}, false
	}
	ball := *a.held
	a.held = nil
	a.tracker.Add(pos, now)
	v := a.tracker.Velocity()
	a.tracker.Reset()

	speed := r3.Norm(v)
	a.lastSpeed = speed
	if speed < a.cfg.Threshold {
		if a.holster != nil {
			a.holster.Return(ball)
		}
		a.logger.Info("throw_dropped", "input", "hand", "speed", speed)
		return components.ThrowRequest{}, false
	}

	req := components.ThrowRequest{
		Origin:    pos,
		Direction: r3.Unit(v),
		Force:     speed * a.cfg.Boost,
		Payload:   ball.Payload,
	}
	a.launcher.Spawn(req)
	a.logger.Info("throw", "input", "hand", "capture", ball.Payload == nil, "force", req.Force)
	return req, true
}
