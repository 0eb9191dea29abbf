package systems

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is a named triangle mesh in the scene.
type Surface struct {
	Name       string
	ParentName string
	Triangles  []r3.Triangle
	Bounds     r3.Box
}

// NewSurface builds a surface and computes its bounds.
func NewSurface(name, parent string, tris []r3.Triangle) *Surface {
	s := &Surface{Name: name, ParentName: parent, Triangles: tris}
	s.computeBounds()
	return s
}

func (s *Surface) computeBounds() {
	if len(s.Triangles) == 0 {
		s.Bounds = r3.Box{}
		return
	}
	b := r3.Box{Min: s.Triangles[0][0], Max: s.Triangles[0][0]}
	for _, t := range s.Triangles {
		for _, v := range t {
			b.Min = r3.Vec{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)}
			b.Max = r3.Vec{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)}
		}
	}
	s.Bounds = b
}

// Ray is a half-line. Dir must be unit length.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// RayHit is a ray/surface intersection.
type RayHit struct {
	Surface  *Surface
	Distance float64
	Point    r3.Vec
}

// Scene is the read-only view of the 3D scene the throw simulation needs.
type Scene interface {
	Surfaces() []*Surface
	// CastRay returns every hit within far, nearest first.
	CastRay(ray Ray, far float64) []RayHit
}

// MeshScene is a flat list of surfaces tested by brute force.
type MeshScene struct {
	surfaces []*Surface
}

// NewMeshScene creates a scene from surfaces.
func NewMeshScene(surfaces ...*Surface) *MeshScene {
	return &MeshScene{surfaces: surfaces}
}

// Add appends a surface to the scene.
func (m *MeshScene) Add(s *Surface) {
	m.surfaces = append(m.surfaces, s)
}

// Surfaces returns the scene surfaces.
func (m *MeshScene) Surfaces() []*Surface {
	return m.surfaces
}

// CastRay implements Scene.
func (m *MeshScene) CastRay(ray Ray, far float64) []RayHit {
	return castRay(m.surfaces, ray, far)
}

// castRay intersects ray with surfaces and sorts hits near to far.
func castRay(surfaces []*Surface, ray Ray, far float64) []RayHit {
	var hits []RayHit
	for _, s := range surfaces {
		if !rayBox(ray, s.Bounds, far) {
			continue
		}
		best := math.Inf(1)
		for _, tri := range s.Triangles {
			if d, ok := rayTriangle(ray, tri); ok && d <= far && d < best {
				best = d
			}
		}
		if !math.IsInf(best, 1) {
			hits = append(hits, RayHit{Surface: s, Distance: best, Point: ray.At(best)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// rayBox is the slab test. Boxes are inflated slightly so flat surfaces
// (zero thickness on one axis) still pass.
func rayBox(ray Ray, b r3.Box, far float64) bool {
	const pad = 1e-6
	tmin, tmax := 0.0, far
	o := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	d := [3]float64{ray.Dir.X, ray.Dir.Y, ray.Dir.Z}
	lo := [3]float64{b.Min.X - pad, b.Min.Y - pad, b.Min.Z - pad}
	hi := [3]float64{b.Max.X + pad, b.Max.Y + pad, b.Max.Z + pad}
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

// rayTriangle is Möller–Trumbore, two-sided.
func rayTriangle(ray Ray, tri r3.Triangle) (float64, bool) {
	const eps = 1e-9
	e1 := r3.Sub(tri[1], tri[0])
	e2 := r3.Sub(tri[2], tri[0])
	p := r3.Cross(ray.Dir, e2)
	det := r3.Dot(e1, p)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := r3.Sub(ray.Origin, tri[0])
	u := r3.Dot(s, p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, e1)
	v := r3.Dot(ray.Dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := r3.Dot(e2, q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// FlatQuad returns a horizontal square surface of the given half size at height y.
func FlatQuad(name string, center r3.Vec, half float64) *Surface {
	a := r3.Vec{X: center.X - half, Y: center.Y, Z: center.Z - half}
	b := r3.Vec{X: center.X + half, Y: center.Y, Z: center.Z - half}
	c := r3.Vec{X: center.X + half, Y: center.Y, Z: center.Z + half}
	d := r3.Vec{X: center.X - half, Y: center.Y, Z: center.Z + half}
	return NewSurface(name, "", []r3.Triangle{{a, b, c}, {a, c, d}})
}
