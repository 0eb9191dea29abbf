package encounter

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/fx"
)

// HeightSampler returns the ground height under a point.
type HeightSampler interface {
	GroundHeight(point r3.Vec) float64
}

// Companion is the team creature currently out in the world.
type Companion struct {
	ID       uuid.UUID
	Creature components.CreatureSnapshot
	Position r3.Vec
	Heading  float64
	InCombat bool

	cfg       config.CompanionConfig
	recalling bool
	disposed  bool
	onDispose func(*Companion)
}

func newCompanion(snap components.CreatureSnapshot, pos r3.Vec, cfg config.CompanionConfig) *Companion {
	return &Companion{
		ID:       uuid.New(),
		Creature: snap,
		Position: pos,
		cfg:      cfg,
	}
}

// Disposed reports whether the companion has left the world.
func (c *Companion) Disposed() bool {
	return c.disposed
}

// Recalling reports whether a recall is playing out.
func (c *Companion) Recalling() bool {
	return c.recalling
}

// Update makes the companion trail behind the player. It stands still while
// in combat, recalling or disposed.
func (c *Companion) Update(dt time.Duration, player, facing r3.Vec, ground HeightSampler) {
	if c.disposed || c.recalling || c.InCombat {
		return
	}
	secs := dt.Seconds()
	desired := r3.Sub(player, r3.Scale(c.cfg.FollowDistance, facing))
	desired.Y = 0
	if ground != nil {
		desired.Y = ground.GroundHeight(desired)
	}

	delta := r3.Vec{X: desired.X - c.Position.X, Z: desired.Z - c.Position.Z}
	dist := r3.Norm(delta)
	switch {
	case dist > c.cfg.FollowDistance+0.5:
		step := r3.Scale(c.cfg.FollowSpeed*secs, r3.Unit(delta))
		c.Position = r3.Add(c.Position, step)
		c.Heading = math.Atan2(delta.X, delta.Z)
		if ground != nil {
			c.Position.Y = ground.GroundHeight(c.Position)
		}
	case dist > 0.5:
		t := math.Min(secs*2, 1)
		c.Position = r3.Add(c.Position, r3.Scale(t, r3.Sub(desired, c.Position)))
		toPlayer := r3.Sub(player, c.Position)
		c.Heading = math.Atan2(toPlayer.X, toPlayer.Z)
	}
}

// Recall plays the recall flourish and disposes the companion once it ends.
// Calling it again while a recall is pending does nothing.
func (c *Companion) Recall(sched *fx.Scheduler, presenter fx.Presenter, delay time.Duration) {
	if c.disposed || c.recalling {
		return
	}
	c.recalling = true
	light := presenter.AddLight(c.Position, fx.ColorCapture)
	sched.After(delay, func() {
		presenter.RemoveLight(light)
		c.Dispose()
	})
}

// Dispose removes the companion from the world. Safe to call repeatedly.
func (c *Companion) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.InCombat = false
	if c.onDispose != nil {
		c.onDispose(c)
	}
}
