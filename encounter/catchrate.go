// Package encounter resolves what a projectile does when it lands: combat,
// capture or companion release. It owns the single active companion slot.
package encounter

// CatchRate returns base + weight*(1 - hp/maxHP), with the ratio clamped to
// [0,1]. A creature without max hp counts as unhurt.
func CatchRate(hp, maxHP int, base, weight float64) float64 {
	ratio := 1.0
	if maxHP > 0 {
		ratio = float64(hp) / float64(maxHP)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return base + weight*(1-ratio)
}

// Rand is the random source for capture rolls. Float64 returns a value in [0,1).
type Rand interface {
	Float64() float64
}
