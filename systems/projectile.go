// Package systems contains the ECS systems and spatial queries of the throw
// simulation.
package systems

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/fx"
)

// Rand is the random source for spin and capture rolls.
type Rand interface {
	Float64() float64
}

// CreatureSource lists the wild creatures a projectile can hit, in registry order.
type CreatureSource interface {
	Wild() []*components.WildCreature
}

// HitResolver receives the one-shot outcomes of a flight.
type HitResolver interface {
	// ResolveCreatureHit is called once when a projectile strikes a creature.
	ResolveCreatureHit(payload *components.CreatureSnapshot, wild *components.WildCreature)
	// ResolveGroundBounce is called on the first ground contact of a
	// projectile carrying a payload.
	ResolveGroundBounce(payload *components.CreatureSnapshot, rest r3.Vec)
}

// FlightEventKind classifies flight events.
type FlightEventKind uint8

const (
	FlightHit FlightEventKind = iota
	FlightBounce
	FlightExpire
)

func (k FlightEventKind) String() string {
	switch k {
	case FlightHit:
		return "hit"
	case FlightBounce:
		return "bounce"
	case FlightExpire:
		return "expire"
	}
	return "unknown"
}

// FlightEvent is emitted by Update for telemetry.
type FlightEvent struct {
	Kind     FlightEventKind
	ID       uuid.UUID
	Position r3.Vec
	Elapsed  time.Duration
	Capture  bool // projectile carried no payload
	First    bool // first ground contact (bounces only)
	Payload  *components.CreatureSnapshot
}

// ProjectileView is a read-only copy of a projectile's state.
type ProjectileView struct {
	Entity   ecs.Entity
	ID       uuid.UUID
	Position r3.Vec
	Velocity r3.Vec
	Rotation r3.Vec
	Radius   float64
	Elapsed  time.Duration
	Payload  *components.CreatureSnapshot
	Bounces  int
}

// ProjectileSystem integrates projectiles and resolves their collisions.
type ProjectileSystem struct {
	world     *ecs.World
	mapper    *ecs.Map4[components.Position, components.Velocity, components.Spin, components.Flight]
	filter    ecs.Filter4[components.Position, components.Velocity, components.Spin, components.Flight]
	flightMap *ecs.Map[components.Flight]

	cfg       *config.Config
	ground    *GroundQuery
	creatures CreatureSource
	hits      HitResolver
	presenter fx.Presenter
	rng       Rand
	logger    *slog.Logger

	count    int
	toRemove []ecs.Entity
	events   []FlightEvent
}

// NewProjectileSystem creates a projectile system on w.
func NewProjectileSystem(
	w *ecs.World,
	cfg *config.Config,
	ground *GroundQuery,
	creatures CreatureSource,
	hits HitResolver,
	presenter fx.Presenter,
	rng Rand,
	logger *slog.Logger,
) *ProjectileSystem {
	if presenter == nil {
		presenter = fx.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		seed := uint64(cfg.World.Seed)
		rng = rand.New(rand.NewPCG(seed, seed+1))
	}
	return &ProjectileSystem{
		world:     w,
		mapper:    ecs.NewMap4[components.Position, components.Velocity, components.Spin, components.Flight](w),
		filter:    *ecs.NewFilter4[components.Position, components.Velocity, components.Spin, components.Flight](w),
		flightMap: ecs.NewMap[components.Flight](w),
		cfg:       cfg,
		ground:    ground,
		creatures: creatures,
		hits:      hits,
		presenter: presenter,
		rng:       rng,
		logger:    logger,
	}
}

func (s *ProjectileSystem) spinAxis() float64 {
	r := s.cfg.Projectile.SpinRange
	return s.rng.Float64()*2*r - r
}

// Spawn creates a projectile from a throw request.
func (s *ProjectileSystem) Spawn(req components.ThrowRequest) ecs.Entity {
	pos := components.Position{Vec: req.Origin}
	vel := components.Velocity{Vec: req.Velocity()}
	spin := components.Spin{Angular: r3.Vec{X: s.spinAxis(), Y: s.spinAxis(), Z: s.spinAxis()}}
	flight := components.Flight{
		ID:          uuid.New(),
		MaxLifetime: s.cfg.Derived.MaxLifetime,
		Radius:      s.cfg.Projectile.Radius,
		Payload:     req.Payload,
	}
	e := s.mapper.NewEntity(&pos, &vel, &spin, &flight)
	s.count++
	s.logger.Debug("projectile_spawned",
		"id", flight.ID,
		"force", req.Force,
		"capture", req.Payload == nil,
	)
	return e
}

// Update advances all projectiles by dt and returns what happened.
// The returned slice is reused by the next call.
func (s *ProjectileSystem) Update(dt time.Duration) []FlightEvent {
	s.events = s.events[:0]
	s.toRemove = s.toRemove[:0]
	secs := dt.Seconds()
	gravity := s.cfg.Derived.Gravity

	var wild []*components.WildCreature
	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		pos, vel, spin, flight := query.Get()

		vel.Vec = r3.Add(vel.Vec, r3.Scale(secs, gravity))
		pos.Vec = r3.Add(pos.Vec, r3.Scale(secs, vel.Vec))
		spin.Rotation = r3.Add(spin.Rotation, r3.Scale(secs, spin.Angular))

		// Creature test first: a projectile reaching a creature is consumed
		// even when it is also touching the ground.
		if s.creatures != nil {
			wild = s.creatures.Wild()
		}
		if target := FindCreatureHit(pos.Vec, flight.Radius, wild, s.cfg.Collision); target != nil {
			flight.Resolved = true
			s.toRemove = append(s.toRemove, e)
			s.events = append(s.events, FlightEvent{
				Kind: FlightHit, ID: flight.ID, Position: pos.Vec,
				Elapsed: flight.Elapsed, Capture: flight.Payload == nil, Payload: flight.Payload,
			})
			if s.hits != nil {
				s.hits.ResolveCreatureHit(flight.Payload, target)
			}
			continue
		}

		// a first contact bounces even while rising
		if contact := s.ground.CheckGroundCollision(pos.Vec, flight.Radius); contact.Hit && (vel.Y <= 0 || !flight.Resolved) {
			s.bounce(pos, vel, flight, contact.GroundY)
		}

		flight.Elapsed += dt
		if flight.Expired() {
			s.toRemove = append(s.toRemove, e)
			s.events = append(s.events, FlightEvent{
				Kind: FlightExpire, ID: flight.ID, Position: pos.Vec,
				Elapsed: flight.Elapsed, Capture: flight.Payload == nil, Payload: flight.Payload,
			})
		}
	}

	for _, e := range s.toRemove {
		s.Remove(e)
	}
	return s.events
}

// bounce applies the ground response. Only the first contact resolves the
// projectile; later contacts just damp it.
func (s *ProjectileSystem) bounce(pos *components.Position, vel *components.Velocity, flight *components.Flight, groundY float64) {
	b := s.cfg.Bounce
	vel.Y *= -b.Restitution
	vel.X *= b.Friction
	vel.Z *= b.Friction
	if vel.Y < b.RestSpeed {
		vel.Y = 0
	}
	pos.Y = groundY + flight.Radius
	flight.Bounces++

	first := !flight.Resolved
	if first {
		flight.Resolved = true
	}
	s.events = append(s.events, FlightEvent{
		Kind: FlightBounce, ID: flight.ID, Position: pos.Vec,
		Elapsed: flight.Elapsed, Capture: flight.Payload == nil, First: first, Payload: flight.Payload,
	})
	if first && flight.Payload != nil && s.hits != nil {
		s.hits.ResolveGroundBounce(flight.Payload, pos.Vec)
	}
}

// Remove detaches a projectile's visual and removes it. Removing a dead
// entity is a no-op. Must not be called while a query is open.
func (s *ProjectileSystem) Remove(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	if s.flightMap.Has(e) {
		s.presenter.DetachProjectile(s.flightMap.Get(e).ID)
	}
	s.world.RemoveEntity(e)
	s.count--
}

// Clear removes every projectile.
func (s *ProjectileSystem) Clear() {
	var all []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		s.Remove(e)
	}
}

// Count returns the number of live projectiles.
func (s *ProjectileSystem) Count() int {
	return s.count
}

// Views returns a snapshot of all projectiles.
func (s *ProjectileSystem) Views() []ProjectileView {
	views := make([]ProjectileView, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		pos, vel, spin, flight := query.Get()
		views = append(views, ProjectileView{
			Entity:   query.Entity(),
			ID:       flight.ID,
			Position: pos.Vec,
			Velocity: vel.Vec,
			Rotation: spin.Rotation,
			Radius:   flight.Radius,
			Elapsed:  flight.Elapsed,
			Payload:  flight.Payload,
			Bounces:  flight.Bounces,
		})
	}
	return views
}
