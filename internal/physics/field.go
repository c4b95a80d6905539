package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/scene"
)

// source is a field captured at the start of a step. Owners are not moved by
// the integrator, so their position is fixed for the whole step.
type source struct {
	owner scene.NodeID
	pos   mgl64.Vec3
	field *scene.Field
}

// RadialAcceleration is the pull of a radial gravity field centered at center on
// a body at p: strength / max(d, minDistance)^falloff, directed at the center.
func RadialAcceleration(f *scene.Field, center, p mgl64.Vec3) mgl64.Vec3 {
	d := center.Sub(p)
	r := d.Len()
	if r == 0 || !f.Active() {
		return mgl64.Vec3{}
	}
	mag := f.Strength
	if f.Falloff != 0 {
		mag /= math.Pow(math.Max(r, f.MinDistance), f.Falloff)
	}
	return d.Mul(mag / r)
}

// accelerationAt sums gravity and every active field not owned by node.
func (w *World) accelerationAt(node scene.NodeID, p mgl64.Vec3) mgl64.Vec3 {
	a := w.gravity
	for _, s := range w.sources {
		if s.owner == node {
			continue
		}
		switch s.field.Kind {
		case scene.FieldRadialGravity:
			a = a.Add(RadialAcceleration(s.field, s.pos, p))
		}
	}
	return a
}
