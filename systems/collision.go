package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
)

// CreatureRadius returns the horizontal hit radius for a creature: half its
// widest horizontal extent, never below minRadius.
func CreatureRadius(w *components.WildCreature, minRadius float64) float64 {
	return math.Max(math.Max(w.Extent.X, w.Extent.Z)/2, minRadius)
}

// HitsCreature tests a projectile sphere against one creature.
// The test is a horizontal distance check plus a height gate around the
// creature's vertical center.
func HitsCreature(pos r3.Vec, radius float64, w *components.WildCreature, cfg config.CollisionConfig) bool {
	combined := radius + CreatureRadius(w, cfg.MinCreatureRadius)
	dx := pos.X - w.Position.X
	dz := pos.Z - w.Position.Z
	if math.Hypot(dx, dz) >= combined {
		return false
	}
	halfH := w.Extent.Y / 2
	return math.Abs(pos.Y-(w.Position.Y+halfH)) < halfH+cfg.HeightTolerance
}

// FindCreatureHit returns the first creature in registry order hit by the
// sphere, or nil.
func FindCreatureHit(pos r3.Vec, radius float64, creatures []*components.WildCreature, cfg config.CollisionConfig) *components.WildCreature {
	for _, w := range creatures {
		if w == nil {
			continue
		}
		if HitsCreature(pos, radius, w, cfg) {
			return w
		}
	}
	return nil
}
