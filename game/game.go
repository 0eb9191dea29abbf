// Package game wires the throw simulation together: the ECS world, the
// projectile and charge systems, the encounter resolver, the local save and
// the raylib front end.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/camera"
	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/encounter"
	"github.com/pthm-cable/throwcore/fx"
	"github.com/pthm-cable/throwcore/input"
	"github.com/pthm-cable/throwcore/species"
	"github.com/pthm-cable/throwcore/store"
	"github.com/pthm-cable/throwcore/systems"
	"github.com/pthm-cable/throwcore/telemetry"
)

// TerrainSurface is the name of the generated ground mesh.
const TerrainSurface = "terrain_main"

// Game holds the complete simulation state.
type Game struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger
	rng    *rand.Rand

	world       *ecs.World
	terrain     *systems.Heightfield
	scene       *systems.MeshScene
	ground      *systems.GroundQuery
	projectiles *systems.ProjectileSystem
	charge      *systems.ChargeController

	catalog  *species.Catalog
	registry *encounter.Registry
	resolver *encounter.Resolver
	save     *store.Store
	team     *Team

	press *input.PressAdapter
	hand  *input.HandAdapter
	pilot *Autopilot

	sched  *fx.Scheduler
	hud    *hud
	camera *camera.Camera

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	clock          time.Duration
	tick           int32
	paused         bool
	stepsPerUpdate int
	nextWildID     int
	combatWild     *components.WildCreature
}

// NewGameWithOptions builds a game from options.
func NewGameWithOptions(ctx context.Context, opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Seed != 0 {
		cfg.World.Seed = opts.Seed
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	seed := uint64(cfg.World.Seed)

	g := &Game{
		cfg:            cfg,
		opts:           opts,
		logger:         logger,
		rng:            rand.New(rand.NewPCG(seed, seed^0x5eed)),
		world:          ecs.NewWorld(),
		catalog:        species.Default(),
		registry:       encounter.NewRegistry(),
		sched:          fx.NewScheduler(),
		stepsPerUpdate: steps,
	}
	g.hud = newHUD(logger, g.Clock)

	// Scene
	g.terrain = systems.NewHeightfield(cfg.World)
	g.scene = systems.NewMeshScene(g.terrain.Surface(TerrainSurface))
	g.ground = systems.NewGroundQuery(g.scene, cfg, logger)

	start := r3.Vec{}
	start.Y = g.ground.GroundHeight(start)
	g.camera = camera.New(start, cfg.Throw.EyeHeight)

	// Save and team
	save, err := store.Open(ctx, store.Options{
		DSN:      cfg.Save.DSN,
		TeamSize: cfg.Capture.TeamSize,
		Catalog:  g.catalog,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening save: %w", err)
	}
	g.save = save
	if err := g.seedTeam(ctx); err != nil {
		save.Close()
		return nil, err
	}
	g.team = NewTeam(SnapshotsFromStore(save.Team(), g.catalog)...)

	// Encounters
	var path encounter.CapturePath
	if opts.Delegate != nil {
		path = opts.Delegate
	} else {
		path = &encounter.LocalSavePath{
			Store:       save,
			Notifier:    g.hud,
			OnCombatEnd: g.onCombatEnd,
			Logger:      logger,
		}
	}
	g.resolver = encounter.NewResolver(encounter.Options{
		Config:    cfg,
		Registry:  g.registry,
		Ground:    g.ground,
		View:      g.camera,
		Path:      path,
		Combat:    encounter.CombatFunc(g.startCombat),
		Catalog:   g.catalog,
		Presenter: g.hud,
		Scheduler: g.sched,
		Rand:      g.rng,
		Logger:    logger,
		OnEvent:   g.onResolverEvent,
	})

	// Projectiles and input
	g.projectiles = systems.NewProjectileSystem(g.world, cfg, g.ground, g.registry, g.resolver, g.hud, g.rng, logger)
	g.charge = systems.NewChargeController(cfg, g.hud)
	g.press = input.NewPressAdapter(cfg, g.charge, g.camera, g.team, g.resolver, g.projectiles, logger)
	g.hand = input.NewHandAdapter(cfg, g, g.projectiles, logger)
	if opts.Autopilot {
		g.pilot = NewAutopilot(cfg)
	}

	// Telemetry
	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(window, cfg.Physics.DT)
	g.perf = telemetry.NewPerfCollector(int(window / cfg.Physics.DT))
	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		save.Close()
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config", "error", err)
	}

	g.spawnWildCreatures(cfg.World.Creatures)
	logger.Info("game_started",
		"seed", cfg.World.Seed,
		"wild", g.registry.Len(),
		"team", g.team.Len(),
		"headless", opts.Headless,
		"autopilot", opts.Autopilot,
	)
	return g, nil
}

// Config returns the game configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Clock returns the simulation time.
func (g *Game) Clock() time.Duration { return g.clock }

// Tick returns the number of steps run.
func (g *Game) Tick() int32 { return g.tick }

// Camera returns the player camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Team returns the roster.
func (g *Game) Team() *Team { return g.team }

// Registry returns the wild creatures.
func (g *Game) Registry() *encounter.Registry { return g.registry }

// Resolver returns the encounter resolver.
func (g *Game) Resolver() *encounter.Resolver { return g.resolver }

// Projectiles returns the projectile system.
func (g *Game) Projectiles() *systems.ProjectileSystem { return g.projectiles }

// Save returns the local save.
func (g *Game) Save() *store.Store { return g.save }

// Update runs one frame: stepsPerUpdate simulation steps unless paused.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Derived.DT)
	}
}

// UpdateHeadless runs one frame without raylib input.
func (g *Game) UpdateHeadless() {
	g.Update()
}

// Step advances the simulation by dt.
func (g *Game) Step(dt time.Duration) {
	g.perf.StartTick()
	g.clock += dt
	g.tick++

	if g.pilot != nil {
		g.pilot.Update(g)
	}

	g.perf.StartPhase(telemetry.PhaseCharge)
	g.charge.Update(g.clock)

	g.perf.StartPhase(telemetry.PhaseCompanion)
	g.resolver.Update(dt, g.camera.Position, g.camera.FlatForward())

	g.perf.StartPhase(telemetry.PhaseProjectiles)
	for _, ev := range g.projectiles.Update(dt) {
		g.onFlightEvent(ev)
	}

	g.perf.StartPhase(telemetry.PhaseScheduler)
	g.sched.Advance(g.clock)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.respawnIfEmpty()
	g.flushTelemetry()
	g.perf.EndTick()
}

// PressThrow starts charging a throw.
func (g *Game) PressThrow() bool {
	return g.press.Press(g.clock)
}

// ReleaseThrow throws along the camera view.
func (g *Game) ReleaseThrow() (components.ThrowRequest, bool) {
	req, ok := g.press.Release(g.clock)
	if ok {
		g.record(telemetry.NewThrowEvent(g.tick, req.Payload == nil, req.Force))
	}
	return req, ok
}

// HandThrow grabs a capture device at from and releases it at to after hold,
// as a tracked hand would. It returns false when the release was too slow.
func (g *Game) HandThrow(from, to r3.Vec, hold time.Duration) (components.ThrowRequest, bool) {
	g.hand.Grab(input.Ball{}, from, g.clock)
	mid := r3.Add(from, r3.Scale(0.5, r3.Sub(to, from)))
	g.hand.Track(mid, g.clock+hold/2)
	req, ok := g.hand.Release(to, g.clock+hold)
	if ok {
		g.record(telemetry.NewThrowEvent(g.tick, req.Payload == nil, req.Force))
	} else {
		g.record(telemetry.NewDropEvent(g.tick, g.hand.LastSpeed()))
	}
	return req, ok
}

// Return implements input.Holster.
func (g *Game) Return(ball input.Ball) {
	if ball.Payload != nil {
		g.team.MarkIn(ball.Payload.TeamSlot)
	}
}

// Recall sends the active companion back.
func (g *Game) Recall() bool {
	return g.press.Recall()
}

// SetPaused pauses or resumes Update.
func (g *Game) SetPaused(p bool) { g.paused = p }

// Paused reports whether Update is paused.
func (g *Game) Paused() bool { return g.paused }

// StepsPerUpdate returns the simulation speed multiplier.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets the simulation speed multiplier (1-10).
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(10, n))
}

// startCombat is the combat hook. Combat itself runs elsewhere; the game
// only tracks which creature is engaged.
func (g *Game) startCombat(_ *components.CreatureSnapshot, wild *components.WildCreature, _ *encounter.Companion) {
	g.combatWild = wild
}

// onCombatEnd clears combat and brings the companion home.
func (g *Game) onCombatEnd(reason string) {
	if g.combatWild == nil && !g.resolver.HasCompanion() {
		return
	}
	g.resolver.EndCombat(g.combatWild)
	g.combatWild = nil
	g.Recall()
	g.logger.Info("combat_end", "reason", reason)
}

// InCombat reports whether a wild creature is engaged.
func (g *Game) InCombat() bool {
	return g.combatWild != nil
}

// Dispose releases the save and output files and clears the world.
func (g *Game) Dispose() {
	g.projectiles.Clear()
	g.resolver.Dispose()
	g.sched.Clear()
	g.charge.Cancel()

	if data, err := g.save.ExportJSON(); err != nil {
		g.logger.Error("failed to export save", "error", err)
	} else if err := g.output.WriteFile("save.json", data); err != nil {
		g.logger.Error("failed to write save export", "error", err)
	}
	if err := g.save.Persist(context.Background()); err != nil {
		g.logger.Warn("save_persist_failed", "error", err)
	}
	if err := g.save.Close(); err != nil {
		g.logger.Error("failed to close save", "error", err)
	}
	if err := g.output.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
	stats := g.ground.CacheStats()
	g.logger.Info("game_disposed", "tick", g.tick,
		"height_cache_hits", stats.Hits, "height_cache_misses", stats.Misses)
}
