package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/scene"
)

var up = mgl64.Vec3{0, 1, 0}

// ContactEvent reports two bodies touching at the end of a step. Normal points
// from A to B; Depth is positive when the shapes interpenetrate.
type ContactEvent struct {
	A, B   scene.NodeID
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
	Step   int
	// Began is set on the first step of an uninterrupted contact.
	Began bool
}

// Involves reports whether id is one side of the contact.
func (e ContactEvent) Involves(id scene.NodeID) bool { return e.A == id || e.B == id }

type pairKey struct{ lo, hi scene.NodeID }

func keyOf(a, b scene.NodeID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

type placed struct {
	node *scene.Node
	pos  mgl64.Vec3
}

// sphereAgainst measures a sphere at p against other. The normal points from
// other toward the sphere.
func sphereAgainst(p mgl64.Vec3, r float64, other placed) (point, normal mgl64.Vec3, depth float64, ok bool) {
	shape := other.node.Body.Shape
	switch shape.Kind {
	case scene.ShapeSphere:
		d := p.Sub(other.pos)
		dist := d.Len()
		normal = up
		if dist > 0 {
			normal = d.Mul(1 / dist)
		}
		return other.pos.Add(normal.Mul(shape.Radius)), normal, r + shape.Radius - dist, true
	case scene.ShapePlane:
		// planes are horizontal through their node origin
		return mgl64.Vec3{p.X(), other.pos.Y(), p.Z()}, up, r - (p.Y() - other.pos.Y()), true
	case scene.ShapeBox:
		lo := other.pos.Sub(shape.HalfExtents)
		hi := other.pos.Add(shape.HalfExtents)
		q := mgl64.Vec3{clamp(p.X(), lo.X(), hi.X()), clamp(p.Y(), lo.Y(), hi.Y()), clamp(p.Z(), lo.Z(), hi.Z())}
		d := p.Sub(q)
		dist := d.Len()
		if dist > 0 {
			return q, d.Mul(1 / dist), r - dist, true
		}
		// center inside the box: leave through the nearest face
		local := p.Sub(other.pos)
		normal, gap := insideExit(local, shape.HalfExtents)
		return p.Add(normal.Mul(gap)), normal, r + gap, true
	}
	return
}

func insideExit(local, half mgl64.Vec3) (mgl64.Vec3, float64) {
	best, normal := half.X()-math.Abs(local.X()), mgl64.Vec3{sign(local.X()), 0, 0}
	if g := half.Y() - math.Abs(local.Y()); g < best {
		best, normal = g, mgl64.Vec3{0, sign(local.Y()), 0}
	}
	if g := half.Z() - math.Abs(local.Z()); g < best {
		best, normal = g, mgl64.Vec3{0, 0, sign(local.Z())}
	}
	return normal, best
}

// measure computes the contact between two placed bodies with the normal
// pointing from a to b. Pairs without a sphere are not measured.
func measure(a, b placed) (point, normal mgl64.Vec3, depth float64, ok bool) {
	if a.node.Body.Shape.Kind == scene.ShapeSphere {
		point, normal, depth, ok = sphereAgainst(a.pos, a.node.Body.Shape.Radius, b)
		if a.node.Body.Shape.Kind == b.node.Body.Shape.Kind {
			// sphere pairs report the point on a's surface
			point = a.pos.Sub(normal.Mul(a.node.Body.Shape.Radius))
		}
		return point, normal.Mul(-1), depth, ok
	}
	if b.node.Body.Shape.Kind == scene.ShapeSphere {
		return sphereAgainst(b.pos, b.node.Body.Shape.Radius, a)
	}
	return
}

// resolve pushes dynamic spheres out of kinematic planes and boxes and removes
// the velocity component driving them inward.
func (w *World) resolve() {
	var static []placed
	w.graph.Walk(func(n *scene.Node) bool {
		if n.Body != nil && n.Body.Kind == scene.Kinematic && n.Body.Shape.Kind != scene.ShapeSphere {
			static = append(static, placed{n, w.graph.WorldPosition(n.ID)})
		}
		return true
	})
	if len(static) == 0 {
		return
	}

	for _, id := range w.bodies {
		body := w.graph.Node(id).Body
		if body.Shape.Kind != scene.ShapeSphere {
			continue
		}
		p := w.graph.WorldPosition(id)
		for _, s := range static {
			_, n, depth, ok := sphereAgainst(p, body.Shape.Radius, s)
			if !ok || depth <= 0 {
				continue
			}
			p = p.Add(n.Mul(depth))
			if vn := body.Velocity.Dot(n); vn < 0 {
				body.Velocity = body.Velocity.Sub(n.Mul(vn))
			}
		}
		w.graph.SetWorldPosition(id, p)
	}
}

// touchSlack sets swept spheres this far into each other so the end-of-step
// measurement sees them touching.
const touchSlack = 1e-9

// timeOfImpact finds the first fraction t in [0, 1] at which the separation
// d0 + t*(d1-d0) shrinks to r. Motions that start or end within r are left to
// the end-of-step test.
func timeOfImpact(d0, d1 mgl64.Vec3, r float64) (float64, bool) {
	if d0.Len() <= r || d1.Len() <= r {
		return 0, false
	}
	e := d1.Sub(d0)
	a := e.Dot(e)
	if a == 0 {
		return 0, false
	}
	b := 2 * d0.Dot(e)
	c := d0.Dot(d0) - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	return t, t >= 0 && t <= 1
}

// sweep rewinds each dynamic sphere that crossed another sphere during the
// step to the pose where the two first touched. Velocities are kept.
func (w *World) sweep() {
	type sphere struct {
		id       scene.NodeID
		body     *scene.Body
		from, to mgl64.Vec3
	}
	moved := make(map[scene.NodeID]mgl64.Vec3, len(w.bodies))
	for i, id := range w.bodies {
		moved[id] = w.start[i]
	}
	var spheres []sphere
	w.graph.Walk(func(n *scene.Node) bool {
		if n.Body == nil || n.Body.Shape.Kind != scene.ShapeSphere {
			return true
		}
		to := w.graph.WorldPosition(n.ID)
		from, ok := moved[n.ID]
		if !ok {
			from = to
		}
		spheres = append(spheres, sphere{n.ID, n.Body, from, to})
		return true
	})

	for _, a := range spheres {
		if a.body.Kind != scene.Dynamic {
			continue
		}
		first := 1.0
		for _, b := range spheres {
			if b.id == a.id || !scene.CanContact(a.body, b.body) {
				continue
			}
			r := a.body.Shape.Radius + b.body.Shape.Radius - touchSlack
			if t, ok := timeOfImpact(a.from.Sub(b.from), a.to.Sub(b.to), r); ok && t < first {
				first = t
			}
		}
		if first < 1 {
			w.graph.SetWorldPosition(a.id, a.from.Add(a.to.Sub(a.from).Mul(first)))
			dynamo.Logger().Debug("swept contact", "node", w.graph.Node(a.id).Name, "step", w.steps, "fraction", first)
		}
	}
}

// detect queues a contact for every attached pair that involves a dynamic body,
// passes the mask test, and overlaps within the contact slop.
func (w *World) detect() {
	var all []placed
	w.graph.Walk(func(n *scene.Node) bool {
		if n.Body != nil {
			all = append(all, placed{n, w.graph.WorldPosition(n.ID)})
		}
		return true
	})

	touching := make(map[pairKey]struct{}, len(w.active))
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.node.Body.Kind != scene.Dynamic && b.node.Body.Kind != scene.Dynamic {
				continue
			}
			if !scene.CanContact(a.node.Body, b.node.Body) {
				continue
			}
			point, normal, depth, ok := measure(a, b)
			if !ok || depth < -w.slop {
				continue
			}

			key := keyOf(a.node.ID, b.node.ID)
			_, was := w.active[key]
			touching[key] = struct{}{}
			ev := ContactEvent{
				A: a.node.ID, B: b.node.ID,
				Point: point, Normal: normal, Depth: depth,
				Step: w.steps, Began: !was,
			}
			if ev.Began {
				dynamo.Logger().Debug("contact began",
					"a", a.node.Name, "b", b.node.Name, "step", w.steps, "depth", depth)
			}
			w.queue = append(w.queue, ev)
		}
	}
	w.active = touching
}

func clamp(v, lo, hi float64) float64 { return max(lo, min(v, hi)) }

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
