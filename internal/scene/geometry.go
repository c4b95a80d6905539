package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type GeometryKind int

const (
	GeometryFloor GeometryKind = iota
	GeometrySphere
	GeometryBox
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryFloor:
		return "floor"
	case GeometrySphere:
		return "sphere"
	case GeometryBox:
		return "box"
	}
	return "unknown"
}

// Geometry is a shape in node-local space. Intersect takes a local ray whose
// direction may be unnormalized and returns the smallest parameter t >= 0.
type Geometry interface {
	Kind() GeometryKind
	Intersect(r Ray) (float64, bool)
}

// Floor is the infinite plane y = 0.
type Floor struct {
	Reflectivity float64
}

func (Floor) Kind() GeometryKind { return GeometryFloor }

func (Floor) Intersect(r Ray) (float64, bool) {
	if r.Dir.Y() == 0 {
		return 0, false
	}
	t := -r.Origin.Y() / r.Dir.Y()
	return t, t >= 0
}

type Sphere struct {
	Radius float64
}

func (Sphere) Kind() GeometryKind { return GeometrySphere }

func (s Sphere) Intersect(r Ray) (float64, bool) {
	a := r.Dir.Dot(r.Dir)
	if a == 0 {
		return 0, false
	}
	b := 2 * r.Origin.Dot(r.Dir)
	c := r.Origin.Dot(r.Origin) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}

// Box is centered on the origin with full extents Width x Height x Length.
type Box struct {
	Width, Height, Length float64
}

func (Box) Kind() GeometryKind { return GeometryBox }

func (b Box) HalfExtents() mgl64.Vec3 {
	return mgl64.Vec3{b.Width/2, b.Height/2, b.Length/2}
}

// Intersect uses the slab method.
func (b Box) Intersect(r Ray) (float64, bool) {
	h := b.HalfExtents()
	tmin, tmax := math.Inf(-1), math.Inf(1)
	o, d, e := r.Origin, r.Dir, h
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < -e[i] || o[i] > e[i] {
				return 0, false
			}
			continue
		}
		t1 := (-e[i] - o[i]) / d[i]
		t2 := (e[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}
