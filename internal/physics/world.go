package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/integrators"
	"github.com/san-kum/scenesim/internal/scene"
)

// World advances the bodies of one scene graph. It is not safe for
// concurrent use.
type World struct {
	graph   *scene.Graph
	integ   dynamo.Integrator
	gravity mgl64.Vec3
	slop    float64

	time  float64
	steps int

	// rebuilt at the start of every step
	bodies  []scene.NodeID
	start   []mgl64.Vec3
	sources []source

	queue  []ContactEvent
	active map[pairKey]struct{}
}

// NewWorld binds a world to graph. A nil integrator selects velocity Verlet.
func NewWorld(g *scene.Graph, cfg config.PhysicsConfig, integ dynamo.Integrator) *World {
	if integ == nil {
		integ = integrators.NewVerlet()
	}
	return &World{
		graph:   g,
		integ:   integ,
		gravity: cfg.Gravity,
		slop:    cfg.ContactSlop,
		active:  make(map[pairKey]struct{}),
	}
}

func (w *World) Time() float64 { return w.time }
func (w *World) Steps() int    { return w.steps }

func (w *World) Integrator() string { return w.integ.Name() }

// StateDim is six values per dynamic body gathered for the current step.
func (w *World) StateDim() int { return 6 * len(w.bodies) }

// Derive returns d/dt of the [positions..., velocities...] state.
func (w *World) Derive(x dynamo.State, t float64) dynamo.State {
	n := len(w.bodies)
	half := 3 * n
	dx := make(dynamo.State, len(x))
	copy(dx[:half], x[half:])
	for i, id := range w.bodies {
		p := mgl64.Vec3{x[3*i], x[3*i+1], x[3*i+2]}
		a := w.accelerationAt(id, p)
		dx[half+3*i] = a.X()
		dx[half+3*i+1] = a.Y()
		dx[half+3*i+2] = a.Z()
	}
	return dx
}

// Step integrates every attached dynamic body by dt, rewinds spheres that
// would pass through another sphere to their first touch, keeps bodies out
// of kinematic planes and boxes, and queues the contacts found afterwards.
func (w *World) Step(dt float64) error {
	w.gather()

	if len(w.bodies) > 0 {
		x := w.state()
		next := w.integ.Step(w, x, w.time, dt)
		if !next.IsValid() {
			return &dynamo.SimulationError{Step: w.steps, Time: w.time, Wrapped: dynamo.ErrInvalidState}
		}
		w.store(next)
		w.sweep()
		w.resolve()
	}

	w.time += dt
	w.steps++
	w.detect()
	return nil
}

func (w *World) gather() {
	w.bodies = w.bodies[:0]
	w.sources = w.sources[:0]
	w.graph.Walk(func(n *scene.Node) bool {
		if n.Body != nil && n.Body.Kind == scene.Dynamic {
			w.bodies = append(w.bodies, n.ID)
		}
		if n.Field.Active() {
			w.sources = append(w.sources, source{owner: n.ID, pos: w.graph.WorldPosition(n.ID), field: n.Field})
		}
		return true
	})
}

func (w *World) state() dynamo.State {
	n := len(w.bodies)
	x := make(dynamo.State, 6*n)
	w.start = w.start[:0]
	for i, id := range w.bodies {
		p := w.graph.WorldPosition(id)
		w.start = append(w.start, p)
		v := w.graph.Node(id).Body.Velocity
		x[3*i], x[3*i+1], x[3*i+2] = p.X(), p.Y(), p.Z()
		x[3*n+3*i], x[3*n+3*i+1], x[3*n+3*i+2] = v.X(), v.Y(), v.Z()
	}
	return x
}

func (w *World) store(x dynamo.State) {
	n := len(w.bodies)
	for i, id := range w.bodies {
		w.graph.SetWorldPosition(id, mgl64.Vec3{x[3*i], x[3*i+1], x[3*i+2]})
		w.graph.Node(id).Body.Velocity = mgl64.Vec3{x[3*n+3*i], x[3*n+3*i+1], x[3*n+3*i+2]}
	}
}

// Samples reports every attached body in walk order.
func (w *World) Samples() []dynamo.BodySample {
	var out []dynamo.BodySample
	w.graph.Walk(func(n *scene.Node) bool {
		if n.Body == nil {
			return true
		}
		out = append(out, dynamo.BodySample{
			Node:     int(n.ID),
			Name:     n.Name,
			Dynamic:  n.Body.Kind == scene.Dynamic,
			Mass:     n.Body.Mass,
			Position: w.graph.WorldPosition(n.ID),
			Velocity: n.Body.Velocity,
		})
		return true
	})
	return out
}

// Pending is the number of queued contact events.
func (w *World) Pending() int { return len(w.queue) }

// Drain returns the queued contact events in detection order and clears the queue.
func (w *World) Drain() []ContactEvent {
	out := w.queue
	w.queue = nil
	return out
}
