package systems

import (
	"log/slog"
	"math"
	"strings"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/config"
)

var down = r3.Vec{Y: -1}

// GroundContact is the result of a ground collision test.
type GroundContact struct {
	Hit     bool
	GroundY float64
}

type heightKey struct {
	X, Y, Z int64
}

// GroundQuery answers "where is the ground under this point". It keeps a list
// of surfaces recognized as ground and rebuilds it when the scene changes.
type GroundQuery struct {
	scene   Scene
	cfg     config.GroundConfig
	ground  []*Surface
	heights cache.Cache[heightKey, float64]
	logger  *slog.Logger
}

// NewGroundQuery creates a ground query over scene.
func NewGroundQuery(scene Scene, cfg *config.Config, logger *slog.Logger) *GroundQuery {
	if logger == nil {
		logger = slog.Default()
	}
	g := &GroundQuery{cfg: cfg.Ground, logger: logger}
	if cfg.Ground.CacheCell > 0 {
		c := cache.NewCache[heightKey, float64]().WithLRU()
		if cfg.Ground.CacheMaxKeys > 0 {
			c = c.WithMaxKeys(cfg.Ground.CacheMaxKeys)
		}
		if cfg.Derived.CacheTTL > 0 {
			c = c.WithTTL(cfg.Derived.CacheTTL)
		}
		g.heights = c
	}
	g.SetScene(scene)
	return g
}

// SetScene swaps the scene and rebuilds the ground cache.
func (g *GroundQuery) SetScene(scene Scene) {
	g.scene = scene
	g.Refresh()
}

// Refresh rebuilds the ground surface list and drops memoized heights.
// Call it whenever surfaces are added to or removed from the scene.
func (g *GroundQuery) Refresh() {
	g.ground = g.ground[:0]
	if g.scene != nil {
		for _, s := range g.scene.Surfaces() {
			if IsGroundSurface(s, g.cfg.Tags) {
				g.ground = append(g.ground, s)
			}
		}
	}
	if g.heights != nil {
		g.heights.Purge()
	}
	g.logger.Debug("ground_cache_rebuilt", "surfaces", len(g.ground))
}

// GroundSurfaces returns the cached ground surfaces.
func (g *GroundQuery) GroundSurfaces() []*Surface {
	return g.ground
}

// IsGroundSurface reports whether s (or its parent) is named like ground.
func IsGroundSurface(s *Surface, tags []string) bool {
	name := strings.ToLower(s.Name)
	parent := strings.ToLower(s.ParentName)
	for _, tag := range tags {
		if strings.Contains(name, tag) || (parent != "" && strings.Contains(parent, tag)) {
			return true
		}
	}
	return false
}

// probe casts a ray straight down from origin and returns the first ground hit.
// Cached ground surfaces are tried first, then the whole scene filtered by name.
func (g *GroundQuery) probe(origin r3.Vec) (float64, bool) {
	ray := Ray{Origin: origin, Dir: down}
	if len(g.ground) > 0 {
		if hits := castRay(g.ground, ray, g.cfg.RayFar); len(hits) > 0 {
			return hits[0].Point.Y, true
		}
	}
	if g.scene == nil {
		return 0, false
	}
	for _, h := range g.scene.CastRay(ray, g.cfg.RayFar) {
		if IsGroundSurface(h.Surface, g.cfg.Tags) {
			return h.Point.Y, true
		}
	}
	return 0, false
}

// GroundHeight returns the ground height below point, or 0 when nothing is found.
// Heights are memoized per cache cell: every point in a cell gets the height
// of the first point probed there, so on a slope the answer can be off by up
// to slope * cache_cell until the cache is refreshed.
func (g *GroundQuery) GroundHeight(point r3.Vec) float64 {
	var key heightKey
	if g.heights != nil {
		c := g.cfg.CacheCell
		key = heightKey{
			X: int64(math.Floor(point.X / c)),
			Y: int64(math.Floor(point.Y / c)),
			Z: int64(math.Floor(point.Z / c)),
		}
		if y, ok := g.heights.Get(key); ok {
			return y
		}
	}
	y, ok := g.probe(r3.Add(point, r3.Vec{Y: g.cfg.ProbeHeight}))
	if !ok {
		y = 0
	}
	if g.heights != nil {
		g.heights.Add(key, y)
	}
	return y
}

// CheckGroundCollision tests a sphere of radius at pos against the ground.
// A sphere at or under y=radius always touches a ground plane at 0, even when
// the ray found lower ground or none.
func (g *GroundQuery) CheckGroundCollision(pos r3.Vec, radius float64) GroundContact {
	y, ok := g.probe(r3.Add(pos, r3.Vec{Y: g.cfg.RayLift}))
	if ok && pos.Y-radius <= y+g.cfg.ContactEpsilon {
		return GroundContact{Hit: true, GroundY: y}
	}
	if pos.Y <= radius {
		return GroundContact{Hit: true, GroundY: 0}
	}
	return GroundContact{GroundY: y}
}

// CacheStats exposes the height cache counters.
func (g *GroundQuery) CacheStats() cache.Stats {
	if g.heights == nil {
		return cache.Stats{}
	}
	return g.heights.Stat()
}
