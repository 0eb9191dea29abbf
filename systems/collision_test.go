package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
)

func TestCreatureRadius(t *testing.T) {
	tests := []struct {
		name   string
		extent r3.Vec
		want   float64
	}{
		{"small uses floor", r3.Vec{X: 1, Y: 1, Z: 1}, 1.5},
		{"wide x", r3.Vec{X: 5, Y: 1, Z: 2}, 2.5},
		{"wide z", r3.Vec{X: 2, Y: 1, Z: 4}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &components.WildCreature{Extent: tt.extent}
			if got := CreatureRadius(w, 1.5); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CreatureRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHitsCreature(t *testing.T) {
	cfg := config.Defaults().Collision
	w := &components.WildCreature{Position: r3.Vec{}, Extent: r3.Vec{X: 1, Y: 2, Z: 1}}
	// combined radius 0.15 + 1.5 = 1.65, height band |y-1| < 2
	tests := []struct {
		name string
		pos  r3.Vec
		want bool
	}{
		{"center", r3.Vec{Y: 1}, true},
		{"edge inside", r3.Vec{X: 1.64, Y: 1}, true},
		{"edge outside", r3.Vec{X: 1.65, Y: 1}, false},
		{"diagonal", r3.Vec{X: 1.2, Y: 1, Z: 1.2}, false},
		{"too high", r3.Vec{Y: 3}, false},
		{"just below top band", r3.Vec{Y: 2.99}, true},
		{"below feet", r3.Vec{Y: -0.99}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitsCreature(tt.pos, 0.15, w, cfg); got != tt.want {
				t.Errorf("HitsCreature(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestFindCreatureHitRegistryOrder(t *testing.T) {
	cfg := config.Defaults().Collision
	far := &components.WildCreature{ID: "far", Position: r3.Vec{X: 1}, Extent: r3.Vec{X: 1, Y: 1, Z: 1}}
	near := &components.WildCreature{ID: "near", Position: r3.Vec{}, Extent: r3.Vec{X: 1, Y: 1, Z: 1}}
	got := FindCreatureHit(r3.Vec{Y: 0.5}, 0.15, []*components.WildCreature{nil, far, near}, cfg)
	if got == nil || got.ID != "far" {
		t.Errorf("got %v, want first in registry order", got)
	}
	if FindCreatureHit(r3.Vec{X: 10}, 0.15, []*components.WildCreature{near}, cfg) != nil {
		t.Error("expected miss")
	}
}
