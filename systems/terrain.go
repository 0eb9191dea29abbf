package systems

import (
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/config"
)

// Heightfield is procedural rolling terrain sampled on a square grid centered
// at the origin.
type Heightfield struct {
	noise      opensimplex.Noise
	size       float64
	resolution int
	amplitude  float64
	scale      float64
}

// NewHeightfield creates terrain from world settings.
func NewHeightfield(cfg config.WorldConfig) *Heightfield {
	res := cfg.Resolution
	if res < 1 {
		res = 1
	}
	return &Heightfield{
		noise:      opensimplex.New(cfg.Seed),
		size:       cfg.Size,
		resolution: res,
		amplitude:  cfg.Amplitude,
		scale:      cfg.NoiseScale,
	}
}

// Sample returns the raw noise height at (x, z).
func (h *Heightfield) Sample(x, z float64) float64 {
	return h.noise.Eval2(x*h.scale, z*h.scale) * h.amplitude
}

// Half returns half the terrain edge length.
func (h *Heightfield) Half() float64 {
	return h.size / 2
}

func (h *Heightfield) vertex(i, j int) r3.Vec {
	step := h.size / float64(h.resolution)
	x := -h.Half() + float64(i)*step
	z := -h.Half() + float64(j)*step
	return r3.Vec{X: x, Y: h.Sample(x, z), Z: z}
}

// Surface triangulates the grid into a named scene surface.
func (h *Heightfield) Surface(name string) *Surface {
	tris := make([]r3.Triangle, 0, h.resolution*h.resolution*2)
	for j := 0; j < h.resolution; j++ {
		for i := 0; i < h.resolution; i++ {
			a := h.vertex(i, j)
			b := h.vertex(i+1, j)
			c := h.vertex(i+1, j+1)
			d := h.vertex(i, j+1)
			tris = append(tris, r3.Triangle{a, b, c}, r3.Triangle{a, c, d})
		}
	}
	return NewSurface(name, "", tris)
}
