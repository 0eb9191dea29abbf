package encounter_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/encounter"
	"github.com/pthm-cable/throwcore/encounter/mocks"
	"github.com/pthm-cable/throwcore/fx"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

type flatGround float64

func (g flatGround) GroundHeight(r3.Vec) float64 { return float64(g) }

type view struct {
	eye, forward r3.Vec
}

func (v view) Eye() r3.Vec         { return v.eye }
func (v view) FlatForward() r3.Vec { return v.forward }

type harness struct {
	res      *encounter.Resolver
	reg      *encounter.Registry
	sched    *fx.Scheduler
	rec      *fx.Recorder
	events   []encounter.Event
	captures []encounter.CaptureRecord
}

func newHarness(t *testing.T, roll float64, path encounter.CapturePath, combat encounter.CombatStarter) *harness {
	t.Helper()
	h := &harness{
		reg:   encounter.NewRegistry(),
		sched: fx.NewScheduler(),
		rec:   fx.NewRecorder(),
	}
	if path == nil {
		path = encounter.DelegatePath(func(id int, name string, level int) {
			h.captures = append(h.captures, encounter.CaptureRecord{SpeciesID: id, SpeciesName: name, Level: level})
		})
	}
	h.res = encounter.NewResolver(encounter.Options{
		Config:    config.Defaults(),
		Registry:  h.reg,
		Ground:    flatGround(0.5),
		View:      view{eye: r3.Vec{Y: 1.5}, forward: r3.Vec{Z: 1}},
		Path:      path,
		Combat:    combat,
		Presenter: h.rec,
		Scheduler: h.sched,
		Rand:      fixedRand(roll),
		OnEvent:   func(ev encounter.Event) { h.events = append(h.events, ev) },
	})
	return h
}

func wild(id string, hp, maxHP int) *components.WildCreature {
	return &components.WildCreature{
		ID: id, SpeciesID: 5, Species: "Boulderon", Level: 7,
		HP: hp, MaxHP: maxHP, Extent: r3.Vec{X: 1, Y: 1, Z: 1},
	}
}

func TestCaptureFaintedSucceeds(t *testing.T) {
	h := newHarness(t, 0.5, nil, nil)
	w := wild("w1", 0, 100)
	w.InCombat = true
	h.reg.Add(w)

	h.res.ResolveCreatureHit(nil, w)

	if len(h.captures) != 1 {
		t.Fatalf("capture path invoked %d times, want 1", len(h.captures))
	}
	if got := h.captures[0]; got.SpeciesID != 5 || got.SpeciesName != "Boulderon" || got.Level != 7 {
		t.Errorf("capture record = %+v", got)
	}
	if w.InCombat {
		t.Error("InCombat not cleared")
	}
	if h.reg.Len() != 0 {
		t.Error("creature still in registry")
	}
	if len(h.rec.Notifications) != 0 {
		t.Error("notification fired before delay")
	}
	h.sched.Advance(100 * time.Millisecond)
	if h.rec.LastNotification() != "Boulderon was caught!" {
		t.Errorf("notification = %q", h.rec.LastNotification())
	}
}

func TestCaptureThreshold(t *testing.T) {
	// hp 50/100 gives a catch rate of 0.65
	tests := []struct {
		name string
		roll float64
		want bool
	}{
		{"well below", 0.1, true},
		{"just below", 0.6499, true},
		{"equal fails", 0.65, false},
		{"above", 0.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.roll, nil, nil)
			w := wild("w1", 50, 100)
			h.reg.Add(w)
			res := h.res.AttemptCapture(w)
			if math.Abs(res.CatchRate-0.65) > 1e-9 {
				t.Fatalf("CatchRate = %v", res.CatchRate)
			}
			if res.Success != tt.want {
				t.Errorf("Success = %v, want %v", res.Success, tt.want)
			}
			if (len(h.captures) == 1) != tt.want {
				t.Errorf("captures = %d", len(h.captures))
			}
		})
	}
}

func TestCaptureFailHops(t *testing.T) {
	h := newHarness(t, 0.99, nil, nil)
	w := wild("w1", 100, 100)
	h.reg.Add(w)

	res := h.res.AttemptCapture(w)
	if res.Success {
		t.Fatal("capture at full hp with roll 0.99 succeeded")
	}
	if w.HopOffset != 0.5 {
		t.Errorf("HopOffset = %v, want 0.5", w.HopOffset)
	}
	if w.HP != 100 || h.reg.Len() != 1 || len(h.captures) != 0 {
		t.Error("failed capture mutated state")
	}
	h.sched.Advance(299 * time.Millisecond)
	if w.HopOffset != 0.5 {
		t.Error("hop reverted early")
	}
	h.sched.Advance(300 * time.Millisecond)
	if w.HopOffset != 0 {
		t.Errorf("HopOffset = %v after hop", w.HopOffset)
	}
}

func TestCaptureWithoutPathIsLost(t *testing.T) {
	h := &harness{reg: encounter.NewRegistry(), sched: fx.NewScheduler(), rec: fx.NewRecorder()}
	h.res = encounter.NewResolver(encounter.Options{
		Registry: h.reg, Scheduler: h.sched, Presenter: h.rec, Rand: fixedRand(0),
	})
	w := wild("w1", 0, 100)
	h.reg.Add(w)
	if !h.res.AttemptCapture(w).Success {
		t.Fatal("capture failed")
	}
	if h.reg.Len() != 0 {
		t.Error("creature not removed")
	}
}

func TestLocalSavePath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockTeamStore(ctrl)
	gomock.InOrder(
		store.EXPECT().CreateCreatureInstance(gomock.Any(), 5, 7).Return("inst-1", nil),
		store.EXPECT().AddToTeam(gomock.Any(), "inst-1").Return(false, nil),
		store.EXPECT().Persist(gomock.Any()).Return(errors.New("disk full")),
	)

	rec := fx.NewRecorder()
	ended := 0
	path := &encounter.LocalSavePath{
		Store:       store,
		Notifier:    rec,
		OnCombatEnd: func(reason string) { ended++ },
	}

	h := newHarness(t, 0.1, path, nil)
	w := wild("w1", 10, 100)
	h.reg.Add(w)
	if !h.res.AttemptCapture(w).Success {
		t.Fatal("capture failed")
	}
	if rec.LastNotification() != "Boulderon was sent to storage." {
		t.Errorf("notification = %q", rec.LastNotification())
	}
	if ended != 1 {
		t.Errorf("OnCombatEnd called %d times, want 1", ended)
	}
	if len(h.captures) != 0 {
		t.Error("delegate path fired alongside local save path")
	}
}

func TestLocalSavePathCreateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockTeamStore(ctrl)
	store.EXPECT().CreateCreatureInstance(gomock.Any(), 1, 3).Return("", errors.New("boom"))

	path := &encounter.LocalSavePath{Store: store}
	err := path.CompleteCapture(context.Background(), encounter.CaptureRecord{SpeciesID: 1, Level: 3})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCombatStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	combat := mocks.NewMockCombatStarter(ctrl)

	h := newHarness(t, 0.5, nil, combat)
	w := wild("w1", 40, 40)
	h.reg.Add(w)
	payload := &components.CreatureSnapshot{TeamSlot: 2, SpeciesID: 1, Name: "Sproutle", HP: 20, MaxHP: 20}

	// a companion already out from an earlier bounce gets replaced
	h.res.ResolveGroundBounce(&components.CreatureSnapshot{SpeciesID: 3}, r3.Vec{X: 9})
	old := h.res.Companion()
	if old == nil {
		t.Fatal("bounce did not materialize")
	}

	var got *encounter.Companion
	combat.EXPECT().
		StartCombat(payload, w, gomock.Any()).
		Times(1).
		Do(func(_ *components.CreatureSnapshot, _ *components.WildCreature, c *encounter.Companion) {
			got = c
		})

	h.res.ResolveCreatureHit(payload, w)

	if !w.InCombat {
		t.Error("wild creature not in combat")
	}
	if !old.Disposed() {
		t.Error("previous companion not disposed")
	}
	if got == nil || got != h.res.Companion() {
		t.Fatal("hook not given the active companion")
	}
	want := r3.Vec{X: 0, Y: 0.5, Z: 3}
	if r3.Norm(r3.Sub(got.Position, want)) > 1e-9 {
		t.Errorf("companion at %v, want %v", got.Position, want)
	}
	if !got.InCombat {
		t.Error("companion not marked in combat")
	}
	if h.reg.Len() != 1 {
		t.Error("combat removed the wild creature")
	}
}

func TestGroundBounceMaterialize(t *testing.T) {
	h := newHarness(t, 0.5, nil, nil)
	h.res.ResolveGroundBounce(nil, r3.Vec{})
	if h.res.HasCompanion() {
		t.Fatal("empty device materialized a companion")
	}

	h.res.ResolveGroundBounce(&components.CreatureSnapshot{SpeciesID: 999}, r3.Vec{X: 1, Y: 0.15})
	c := h.res.Companion()
	if c == nil {
		t.Fatal("no companion")
	}
	if c.Creature.Name != "Unknown" {
		t.Errorf("name = %q, want Unknown fallback", c.Creature.Name)
	}
	if len(h.rec.Lights) != 1 {
		t.Errorf("lights = %d, want release flourish", len(h.rec.Lights))
	}
	h.sched.Advance(500 * time.Millisecond)
	if len(h.rec.Lights) != 0 {
		t.Error("flourish light not removed")
	}

	// a second payload does not replace the active companion
	h.res.ResolveGroundBounce(&components.CreatureSnapshot{SpeciesID: 1}, r3.Vec{})
	if h.res.Companion() != c {
		t.Error("active companion replaced by bounce")
	}
}

func TestRecall(t *testing.T) {
	h := newHarness(t, 0.5, nil, nil)
	if _, ok := h.res.Recall(); ok {
		t.Fatal("Recall with no companion returned ok")
	}
	h.res.ResolveGroundBounce(&components.CreatureSnapshot{TeamSlot: 1, Name: "Sproutle"}, r3.Vec{})
	c := h.res.Companion()

	snap, ok := h.res.Recall()
	if !ok || snap.TeamSlot != 1 {
		t.Fatalf("Recall() = %+v, %v", snap, ok)
	}
	if h.res.HasCompanion() {
		t.Error("slot not freed")
	}
	if c.Disposed() {
		t.Error("disposed before flourish ended")
	}
	h.sched.Advance(500 * time.Millisecond)
	if !c.Disposed() {
		t.Error("not disposed after recall delay")
	}
}

func TestDisposeClearsSlot(t *testing.T) {
	h := newHarness(t, 0.5, nil, nil)
	h.res.ResolveGroundBounce(&components.CreatureSnapshot{Name: "Sproutle"}, r3.Vec{})
	h.res.Companion().Dispose()
	if h.res.HasCompanion() {
		t.Error("external dispose left companion in slot")
	}
	h.res.Dispose()
}

func TestEndCombat(t *testing.T) {
	ctrl := gomock.NewController(t)
	combat := mocks.NewMockCombatStarter(ctrl)
	combat.EXPECT().StartCombat(gomock.Any(), gomock.Any(), gomock.Any())

	h := newHarness(t, 0.5, nil, combat)
	w := wild("w1", 40, 40)
	h.res.StartCombat(&components.CreatureSnapshot{Name: "Sproutle"}, w)
	h.res.EndCombat(w)
	if w.InCombat || h.res.Companion().InCombat {
		t.Error("combat flags not cleared")
	}
}
