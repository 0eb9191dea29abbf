package game

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/telemetry"
)

// flatConfig returns defaults on flat terrain with a file-backed save in a
// temp dir.
func flatConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.World.Amplitude = 0
	cfg.Save.DSN = filepath.Join(t.TempDir(), "save.db")
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Config = cfg
	opts.Headless = true
	g, err := NewGameWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Dispose)
	return g
}

func (g *Game) run(d time.Duration) {
	for end := g.clock + d; g.clock < end; {
		g.Step(g.cfg.Derived.DT)
	}
}

func TestNewGameSeedsStarter(t *testing.T) {
	g := newTestGame(t, flatConfig(t), Options{})

	if g.Team().Len() != 1 {
		t.Fatalf("team size = %d, want starter only", g.Team().Len())
	}
	starter, ok := g.Team().Selected()
	if !ok || starter.SpeciesID != starterSpecies || starter.Level != starterLevel {
		t.Errorf("starter = %+v, %v", starter, ok)
	}
	if g.Registry().Len() != g.cfg.World.Creatures {
		t.Errorf("wild = %d, want %d", g.Registry().Len(), g.cfg.World.Creatures)
	}
	for _, w := range g.Registry().Wild() {
		if d := math.Hypot(w.Position.X, w.Position.Z); d < minSpawnRadius-1e-9 {
			t.Errorf("%s spawned %.2f from start", w.ID, d)
		}
		if w.Position.Y != 0 {
			t.Errorf("%s not on flat ground: y=%v", w.ID, w.Position.Y)
		}
	}
}

func TestSaveSurvivesRestart(t *testing.T) {
	cfg := flatConfig(t)
	first, err := NewGameWithOptions(context.Background(), Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	wild := first.Registry().Wild()[0]
	wild.HP = 0
	first.Resolver().AttemptCapture(wild)
	first.Dispose()

	second := newTestGame(t, cfg, Options{})
	if second.Team().Len() != 2 {
		t.Errorf("team after restart = %d, want 2", second.Team().Len())
	}
}

func TestPressReleaseThrowsStarter(t *testing.T) {
	g := newTestGame(t, flatConfig(t), Options{})
	g.Camera().Pitch = 0.3

	if !g.PressThrow() {
		t.Fatal("PressThrow rejected")
	}
	g.run(750 * time.Millisecond)
	req, ok := g.ReleaseThrow()
	if !ok {
		t.Fatal("ReleaseThrow rejected")
	}
	if req.Payload == nil || req.Payload.SpeciesID != starterSpecies {
		t.Fatalf("payload = %+v, want starter", req.Payload)
	}
	if req.Force < 19 || req.Force > 21 {
		t.Errorf("force = %v, want about 20", req.Force)
	}
	if g.Projectiles().Count() != 1 {
		t.Errorf("projectiles = %d", g.Projectiles().Count())
	}
	if g.Team().Members()[0].Out != true {
		t.Error("thrown member not marked out")
	}
}

func TestCompanionRecallReturnsMember(t *testing.T) {
	cfg := flatConfig(t)
	cfg.World.Creatures = 0
	g := newTestGame(t, cfg, Options{})

	g.Camera().Pitch = 1.2
	g.PressThrow()
	g.ReleaseThrow()
	g.run(4 * time.Second)

	if !g.Resolver().HasCompanion() {
		t.Fatal("payload did not materialize")
	}
	if !g.Team().Members()[0].Out {
		t.Error("companion's slot not out")
	}

	if !g.Recall() {
		t.Fatal("Recall rejected")
	}
	if g.Team().Members()[0].Out {
		t.Error("recalled slot still out")
	}
	if g.Resolver().HasCompanion() {
		t.Error("companion slot not freed")
	}
}

func TestCaptureEndsCombat(t *testing.T) {
	g := newTestGame(t, flatConfig(t), Options{})
	wild := g.Registry().Wild()[0]
	starter, _ := g.Team().Selected()

	g.Resolver().ResolveCreatureHit(starter.Snapshot(), wild)
	if !g.InCombat() || !wild.InCombat {
		t.Fatal("combat not started")
	}

	wild.HP = 0
	res := g.Resolver().AttemptCapture(wild)
	if !res.Success {
		t.Fatalf("fainted capture failed: %+v", res)
	}
	if g.InCombat() {
		t.Error("combat still tracked after capture")
	}
	if g.Resolver().HasCompanion() {
		t.Error("companion not recalled after capture")
	}
	if g.Team().Len() != 2 {
		t.Errorf("team = %d, want captured creature added", g.Team().Len())
	}
	if got := g.hud.LastNotification(); got == "" {
		t.Error("no capture notification")
	}
}

func TestDelegateCapture(t *testing.T) {
	type capture struct {
		speciesID int
		name      string
		level     int
	}
	var got []capture
	g := newTestGame(t, flatConfig(t), Options{
		Delegate: func(speciesID int, name string, level int) {
			got = append(got, capture{speciesID, name, level})
		},
	})
	wild := g.Registry().Wild()[0]
	wild.HP = 0
	before := g.Registry().Len()

	g.Resolver().AttemptCapture(wild)

	if len(got) != 1 || got[0].speciesID != wild.SpeciesID || got[0].level != wild.Level {
		t.Fatalf("delegate got %+v", got)
	}
	if g.Team().Len() != 1 || len(g.Save().Storage()) != 0 {
		t.Error("delegate capture also written to the local save")
	}
	if g.Registry().Len() != before-1 {
		t.Error("captured creature still registered")
	}
}

func TestRespawnWhenEmpty(t *testing.T) {
	g := newTestGame(t, flatConfig(t), Options{})
	for _, w := range g.Registry().Wild() {
		g.Registry().Remove(w)
	}
	g.Step(g.cfg.Derived.DT)
	if g.Registry().Len() != g.cfg.World.Creatures {
		t.Errorf("wild after respawn = %d", g.Registry().Len())
	}
}

func TestHandThrowAndDrop(t *testing.T) {
	g := newTestGame(t, flatConfig(t), Options{})

	if _, ok := g.HandThrow(r3.Vec{Y: 1.5}, r3.Vec{Y: 1.5, Z: 0.02}, 100*time.Millisecond); ok {
		t.Error("slow hand thrown")
	}
	req, ok := g.HandThrow(r3.Vec{Y: 1.5}, r3.Vec{Y: 1.5, Z: 1}, 100*time.Millisecond)
	if !ok {
		t.Fatal("fast hand dropped")
	}
	if req.Payload != nil {
		t.Error("hand throw carried a payload")
	}
	if g.collector.Count(telemetry.EventDrop) != 1 || g.collector.Count(telemetry.EventThrow) != 1 {
		t.Errorf("drops=%d throws=%d", g.collector.Count(telemetry.EventDrop), g.collector.Count(telemetry.EventThrow))
	}
}

func TestAutopilotEngages(t *testing.T) {
	cfg := flatConfig(t)
	cfg.World.Creatures = 1
	var windows []telemetry.WindowStats
	g := newTestGame(t, cfg, Options{
		Autopilot:      true,
		StatsWindowSec: 5,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	g.run(30 * time.Second)

	var throws, hits int
	for _, w := range windows {
		throws += w.Throws
		hits += w.Hits
	}
	if g.pilot.Throws() == 0 || throws == 0 {
		t.Fatalf("autopilot never threw (windows=%d)", len(windows))
	}
	if hits == 0 {
		t.Errorf("no throw reached a creature in %d throws", throws)
	}
}

func TestSolveLaunch(t *testing.T) {
	cfg := config.Defaults()
	eye := r3.Vec{Y: 1.5}
	grav := -cfg.Derived.Gravity.Y

	for _, target := range []r3.Vec{{Z: 10, Y: 0.5}, {X: -12, Y: 1, Z: 5}, {X: 3, Y: 0.4, Z: -15}} {
		l, ok := SolveLaunch(eye, target, cfg)
		if !ok {
			t.Fatalf("no launch to %v", target)
		}
		if l.Force < cfg.Charge.MinForce || l.Force > cfg.Charge.MaxForce {
			t.Errorf("force %v out of range", l.Force)
		}
		dir := r3.Vec{
			X: math.Sin(l.Yaw) * math.Cos(l.Pitch),
			Y: math.Sin(l.Pitch),
			Z: math.Cos(l.Yaw) * math.Cos(l.Pitch),
		}
		origin := r3.Add(eye, r3.Scale(cfg.Throw.ForwardOffset, dir))
		d := math.Hypot(target.X-origin.X, target.Z-origin.Z)
		c := math.Cos(l.Pitch)
		y := origin.Y + d*math.Tan(l.Pitch) - grav*d*d/(2*l.Force*l.Force*c*c)
		if math.Abs(y-target.Y) > 1e-6 {
			t.Errorf("launch to %v arrives at y=%v", target, y)
		}
	}

	if _, ok := SolveLaunch(eye, r3.Vec{Z: 500}, cfg); ok {
		t.Error("found launch beyond max force range")
	}
}

func TestTeam(t *testing.T) {
	team := NewTeam(
		components.CreatureSnapshot{TeamSlot: 0, InstanceID: "a", Name: "A"},
		components.CreatureSnapshot{TeamSlot: 1, InstanceID: "b", Name: "B"},
	)
	team.MarkOut(0)
	if _, ok := team.Selected(); ok {
		t.Error("out member selectable")
	}
	team.Next()
	if s, ok := team.Selected(); !ok || s.Name != "B" {
		t.Errorf("Next selected %+v", s)
	}

	team.Sync([]components.CreatureSnapshot{
		{TeamSlot: 0, InstanceID: "a", Name: "A"},
		{TeamSlot: 1, InstanceID: "b", Name: "B"},
		{TeamSlot: 2, InstanceID: "c", Name: "C"},
	})
	if m := team.Members(); len(m) != 3 || !m[0].Out || m[2].Out {
		t.Errorf("Sync lost out flags: %+v", m)
	}

	team.SetOut(map[int]bool{2: true})
	if m := team.Members(); m[0].Out || !m[2].Out {
		t.Errorf("SetOut = %+v", m)
	}
	if team.Select(5) {
		t.Error("Select out of range accepted")
	}
}
