package encounter

import (
	"math"
	"testing"
)

func TestCatchRate(t *testing.T) {
	tests := []struct {
		name      string
		hp, maxHP int
		want      float64
	}{
		{"full hp", 100, 100, 0.3},
		{"fainted", 0, 100, 1.0},
		{"half", 50, 100, 0.65},
		{"no max hp", 10, 0, 0.3},
		{"negative hp clamps", -10, 100, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CatchRate(tt.hp, tt.maxHP, 0.3, 0.7); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CatchRate(%d, %d) = %v, want %v", tt.hp, tt.maxHP, got, tt.want)
			}
		})
	}
}

func TestCatchRateBounded(t *testing.T) {
	for hp := 0; hp <= 100; hp++ {
		r := CatchRate(hp, 100, 0.3, 0.7)
		if r < 0.3-1e-12 || r > 1+1e-12 {
			t.Fatalf("CatchRate(%d) = %v out of [0.3, 1]", hp, r)
		}
	}
}
