package game

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
)

const (
	pilotRange     = 18.0 // walks closer beyond this
	pilotWalkSpeed = 4.0
	pilotSettle    = 1500 * time.Millisecond
	minLaunchDeg   = 5
	maxLaunchDeg   = 75
)

// Launch is a view direction and force that carries a throw to a target.
type Launch struct {
	Yaw, Pitch float64
	Force      float64
}

// SolveLaunch finds the flattest launch from eye that passes through target
// with a force the charge can produce. Drag is ignored.
func SolveLaunch(eye, target r3.Vec, cfg *config.Config) (Launch, bool) {
	grav := -cfg.Derived.Gravity.Y
	if grav <= 0 {
		return Launch{}, false
	}
	yaw := math.Atan2(target.X-eye.X, target.Z-eye.Z)
	for deg := minLaunchDeg; deg <= maxLaunchDeg; deg++ {
		pitch := float64(deg) * math.Pi / 180
		dir := r3.Vec{
			X: math.Sin(yaw) * math.Cos(pitch),
			Y: math.Sin(pitch),
			Z: math.Cos(yaw) * math.Cos(pitch),
		}
		origin := r3.Add(eye, r3.Scale(cfg.Throw.ForwardOffset, dir))
		d := math.Hypot(target.X-origin.X, target.Z-origin.Z)
		h := target.Y - origin.Y
		cos := math.Cos(pitch)
		denom := 2 * cos * cos * (d*math.Tan(pitch) - h)
		if denom <= 0 {
			continue
		}
		v := math.Sqrt(grav * d * d / denom)
		if v >= cfg.Charge.MinForce && v <= cfg.Charge.MaxForce {
			return Launch{Yaw: yaw, Pitch: pitch, Force: v}, true
		}
	}
	return Launch{}, false
}

// Autopilot plays headless runs: it walks toward the nearest wild creature,
// charges for the force that reaches it and releases. Whether a throw carries
// a companion or is a capture attempt follows the normal payload rules.
type Autopilot struct {
	cfg       *config.Config
	charging  bool
	releaseAt time.Duration
	readyAt   time.Duration
	throws    int
}

// NewAutopilot creates an autopilot.
func NewAutopilot(cfg *config.Config) *Autopilot {
	return &Autopilot{cfg: cfg}
}

// Throws returns how many throws the autopilot has released.
func (a *Autopilot) Throws() int {
	return a.throws
}

func nearestWild(wild []*components.WildCreature, from r3.Vec) *components.WildCreature {
	var best *components.WildCreature
	bestD := math.Inf(1)
	for _, w := range wild {
		d := math.Hypot(w.Position.X-from.X, w.Position.Z-from.Z)
		if d < bestD {
			best, bestD = w, d
		}
	}
	return best
}

// Update runs before the systems each step.
func (a *Autopilot) Update(g *Game) {
	now := g.clock
	if a.charging {
		if now >= a.releaseAt {
			if _, ok := g.ReleaseThrow(); ok {
				a.throws++
			}
			a.charging = false
			a.readyAt = now + pilotSettle
		}
		return
	}
	if now < a.readyAt || g.projectiles.Count() > 0 || g.charge.CoolingDown(now) {
		return
	}

	target := g.combatWild
	if target == nil {
		target = nearestWild(g.registry.Wild(), g.camera.Position)
	}
	if target == nil {
		return
	}
	aim := target.Center()
	dist := math.Hypot(aim.X-g.camera.Position.X, aim.Z-g.camera.Position.Z)
	step := pilotWalkSpeed * a.cfg.Derived.DT.Seconds()

	if dist > pilotRange {
		g.camera.LookAt(aim)
		g.camera.Move(math.Min(step, dist-pilotRange), 0)
		g.camera.Position.Y = g.ground.GroundHeight(g.camera.Position)
		return
	}

	launch, ok := SolveLaunch(g.camera.Eye(), aim, a.cfg)
	if !ok {
		// too close for the minimum force
		g.camera.LookAt(aim)
		g.camera.Move(-step, 0)
		g.camera.Position.Y = g.ground.GroundHeight(g.camera.Position)
		return
	}
	g.camera.Yaw = launch.Yaw
	g.camera.Pitch = launch.Pitch
	if !g.PressThrow() {
		return
	}
	a.charging = true
	a.releaseAt = now + g.charge.HoldForForce(launch.Force)
}
