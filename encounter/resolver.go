package encounter

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/fx"
	"github.com/pthm-cable/throwcore/species"
)

// CombatStarter runs combat once a companion has been thrown at a wild creature.
type CombatStarter interface {
	StartCombat(payload *components.CreatureSnapshot, wild *components.WildCreature, companion *Companion)
}

// CombatFunc adapts a function to CombatStarter.
type CombatFunc func(payload *components.CreatureSnapshot, wild *components.WildCreature, companion *Companion)

// StartCombat implements CombatStarter.
func (f CombatFunc) StartCombat(payload *components.CreatureSnapshot, wild *components.WildCreature, companion *Companion) {
	f(payload, wild, companion)
}

// Viewpoint is where combat companions are placed relative to.
type Viewpoint interface {
	Eye() r3.Vec
	FlatForward() r3.Vec
}

// EventKind classifies resolver events.
type EventKind uint8

const (
	EventMaterialize EventKind = iota
	EventCombatStart
	EventCaptureSuccess
	EventCaptureFail
	EventRecall
)

func (k EventKind) String() string {
	switch k {
	case EventMaterialize:
		return "materialize"
	case EventCombatStart:
		return "combat_start"
	case EventCaptureSuccess:
		return "capture_success"
	case EventCaptureFail:
		return "capture_fail"
	case EventRecall:
		return "recall"
	}
	return "unknown"
}

// Event describes one resolver outcome.
type Event struct {
	Kind      EventKind
	Wild      *components.WildCreature
	Companion *Companion
	Capture   CaptureResult
}

// CaptureResult is the outcome of one capture roll.
type CaptureResult struct {
	Success   bool
	CatchRate float64
	Roll      float64
}

// Options configures a Resolver.
type Options struct {
	Config    *config.Config
	Registry  *Registry
	Ground    HeightSampler
	View      Viewpoint
	Path      CapturePath // nil loses captures with a warning
	Combat    CombatStarter
	Catalog   *species.Catalog
	Presenter fx.Presenter
	Scheduler *fx.Scheduler
	Rand      Rand
	Logger    *slog.Logger
	OnEvent   func(Event)
}

// Resolver turns projectile outcomes into encounters. It holds the active
// companion slot: at most one companion is out at a time.
type Resolver struct {
	cfg       *config.Config
	registry  *Registry
	ground    HeightSampler
	view      Viewpoint
	path      CapturePath
	combat    CombatStarter
	catalog   *species.Catalog
	presenter fx.Presenter
	sched     *fx.Scheduler
	rng       Rand
	logger    *slog.Logger
	onEvent   func(Event)

	companion *Companion
}

// NewResolver creates a resolver.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		cfg:       opts.Config,
		registry:  opts.Registry,
		ground:    opts.Ground,
		view:      opts.View,
		path:      opts.Path,
		combat:    opts.Combat,
		catalog:   opts.Catalog,
		presenter: opts.Presenter,
		sched:     opts.Scheduler,
		rng:       opts.Rand,
		logger:    opts.Logger,
		onEvent:   opts.OnEvent,
	}
	if r.cfg == nil {
		r.cfg = config.Defaults()
	}
	if r.registry == nil {
		r.registry = NewRegistry()
	}
	if r.catalog == nil {
		r.catalog = species.Default()
	}
	if r.presenter == nil {
		r.presenter = fx.Nop{}
	}
	if r.sched == nil {
		r.sched = fx.NewScheduler()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.rng == nil {
		seed := uint64(r.cfg.World.Seed)
		r.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return r
}

// Registry returns the wild creature registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Companion returns the active companion, or nil.
func (r *Resolver) Companion() *Companion {
	return r.companion
}

// HasCompanion reports whether a companion is out.
func (r *Resolver) HasCompanion() bool {
	return r.companion != nil
}

func (r *Resolver) emit(ev Event) {
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

func (r *Resolver) groundHeight(p r3.Vec) float64 {
	if r.ground == nil {
		return 0
	}
	return r.ground.GroundHeight(p)
}

// ResolveCreatureHit dispatches a creature hit: a payload starts combat, an
// empty device attempts a capture.
func (r *Resolver) ResolveCreatureHit(payload *components.CreatureSnapshot, wild *components.WildCreature) {
	if wild == nil {
		return
	}
	if payload != nil {
		r.StartCombat(payload, wild)
		return
	}
	r.AttemptCapture(wild)
}

// ResolveGroundBounce releases the payload where the projectile landed,
// unless a companion is already out.
func (r *Resolver) ResolveGroundBounce(payload *components.CreatureSnapshot, rest r3.Vec) {
	if payload == nil || r.companion != nil {
		return
	}
	r.materialize(*payload, rest)
}

func (r *Resolver) materialize(snap components.CreatureSnapshot, pos r3.Vec) *Companion {
	if snap.Name == "" {
		snap.Name = r.catalog.Name(snap.SpeciesID)
	}
	c := newCompanion(snap, pos, r.cfg.Companion)
	c.onDispose = func(done *Companion) {
		if r.companion == done {
			r.companion = nil
		}
	}
	r.companion = c

	light := r.presenter.AddLight(pos, fx.ColorRelease)
	r.sched.After(r.cfg.Derived.LightTime, func() {
		r.presenter.RemoveLight(light)
	})

	r.logger.Info("companion_materialized", "name", snap.Name, "slot", snap.TeamSlot,
		"x", pos.X, "y", pos.Y, "z", pos.Z)
	r.emit(Event{Kind: EventMaterialize, Companion: c})
	return c
}

// StartCombat puts wild into combat against payload, spawned in front of the
// viewpoint at ground height.
func (r *Resolver) StartCombat(payload *components.CreatureSnapshot, wild *components.WildCreature) {
	wild.InCombat = true
	if r.companion != nil {
		r.companion.Dispose()
		r.companion = nil
	}

	var spawn r3.Vec
	if r.view != nil {
		spawn = r3.Add(r.view.Eye(), r3.Scale(r.cfg.Companion.CombatSpawnDistance, r.view.FlatForward()))
	}
	spawn.Y = r.groundHeight(spawn)

	c := r.materialize(*payload, spawn)
	c.InCombat = true

	r.logger.Info("combat_start", "companion", c.Creature.Name, "wild", wild.Species,
		"wild_id", wild.ID, "level", wild.Level)
	if r.combat != nil {
		r.combat.StartCombat(payload, wild, c)
	}
	r.emit(Event{Kind: EventCombatStart, Wild: wild, Companion: c})
}

// AttemptCapture rolls a capture against wild.
func (r *Resolver) AttemptCapture(wild *components.WildCreature) CaptureResult {
	c := r.cfg.Capture
	res := CaptureResult{
		CatchRate: CatchRate(wild.HP, wild.MaxHP, c.BaseRate, c.HPWeight),
		Roll:      r.rng.Float64(),
	}
	res.Success = res.Roll < res.CatchRate

	if !res.Success {
		r.logger.Info("capture_fail", "species", wild.Species, "wild_id", wild.ID,
			"catch_rate", res.CatchRate, "roll", res.Roll)
		r.hop(wild)
		r.emit(Event{Kind: EventCaptureFail, Wild: wild, Capture: res})
		return res
	}

	wild.InCombat = false
	rec := CaptureRecord{SpeciesID: wild.SpeciesID, SpeciesName: wild.Species, Level: wild.Level}
	if rec.SpeciesName == "" {
		rec.SpeciesName = r.catalog.Name(rec.SpeciesID)
	}

	if r.path == nil {
		r.logger.Warn("capture_lost", "species", rec.SpeciesName, "reason", "no capture path configured")
	} else if err := r.path.CompleteCapture(context.Background(), rec); err != nil {
		r.logger.Warn("capture_path_failed", "species", rec.SpeciesName, "error", err)
	}

	r.registry.Remove(wild)
	r.logger.Info("capture_success", "species", rec.SpeciesName, "wild_id", wild.ID,
		"level", rec.Level, "catch_rate", res.CatchRate, "roll", res.Roll)

	msg := fmt.Sprintf("%s was caught!", rec.SpeciesName)
	r.sched.After(r.cfg.Derived.NotifyDelay, func() {
		r.presenter.Notify(msg)
	})
	r.emit(Event{Kind: EventCaptureSuccess, Wild: wild, Capture: res})
	return res
}

// hop lifts the creature briefly. Only the presentation offset moves.
func (r *Resolver) hop(wild *components.WildCreature) {
	h := r.cfg.Capture.HopHeight
	wild.HopOffset += h
	r.sched.After(r.cfg.Derived.HopDuration, func() {
		wild.HopOffset -= h
	})
}

// Recall sends the active companion back. The slot frees immediately; the
// companion leaves the world when its flourish ends. It returns the recalled
// creature so the caller can put it back in its team slot.
func (r *Resolver) Recall() (components.CreatureSnapshot, bool) {
	c := r.companion
	if c == nil {
		return components.CreatureSnapshot{}, false
	}
	r.companion = nil
	c.Recall(r.sched, r.presenter, r.cfg.Derived.RecallTime)
	r.logger.Info("companion_recalled", "name", c.Creature.Name, "slot", c.Creature.TeamSlot)
	r.emit(Event{Kind: EventRecall, Companion: c})
	return c.Creature, true
}

// EndCombat clears combat flags on wild and the active companion.
func (r *Resolver) EndCombat(wild *components.WildCreature) {
	if wild != nil {
		wild.InCombat = false
	}
	if r.companion != nil {
		r.companion.InCombat = false
	}
}

// Dispose force-removes the active companion.
func (r *Resolver) Dispose() {
	if r.companion != nil {
		r.companion.Dispose()
		r.companion = nil
	}
}

// Update moves the active companion toward its follow point behind the player.
func (r *Resolver) Update(dt time.Duration, player, facing r3.Vec) {
	if r.companion != nil {
		r.companion.Update(dt, player, facing, r.ground)
	}
}
