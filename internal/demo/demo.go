// Package demo wires the scene, input, trigger, physics, animation and effects
// into the tap-to-explode application.
package demo

import (
	"fmt"

	"github.com/san-kum/scenesim/internal/anim"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/effects"
	"github.com/san-kum/scenesim/internal/input"
	"github.com/san-kum/scenesim/internal/integrators"
	"github.com/san-kum/scenesim/internal/physics"
	"github.com/san-kum/scenesim/internal/reactor"
	"github.com/san-kum/scenesim/internal/scene"
	"github.com/san-kum/scenesim/internal/trigger"
)

// Demo is the whole application state. It is driven from a single goroutine.
type Demo struct {
	cfg      *config.Config
	graph    *scene.Graph
	handles  scene.Handles
	world    *physics.World
	input    *input.Handler
	trigger  *trigger.Controller
	reactor  *reactor.Reactor
	animator *anim.Animator
	library  *effects.Library

	effects []scene.NodeID
	events  []dynamo.Event

	triggeredAt float64
	collided    bool
	collidedAt  float64
}

type Option func(*options)

type options struct {
	integrator dynamo.Integrator
	library    *effects.Library
}

// WithIntegrator replaces the integrator named by the configuration.
func WithIntegrator(i dynamo.Integrator) Option {
	return func(o *options) { o.integrator = i }
}

// WithLibrary replaces the effect library loaded from the configuration.
func WithLibrary(l *effects.Library) Option {
	return func(o *options) { o.library = l }
}

// TapResult is what a tap hit and whether it fired the trigger.
type TapResult struct {
	Point     input.Point
	Hits      []input.Hit
	Triggered bool
}

// Nearest returns the first hit, if any.
func (r TapResult) Nearest() (input.Hit, bool) {
	if len(r.Hits) == 0 {
		return input.Hit{}, false
	}
	return r.Hits[0], true
}

func New(cfg *config.Config, opts ...Option) (*Demo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.integrator == nil {
		integ, err := integrators.Get(cfg.Physics.Integrator)
		if err != nil {
			return nil, err
		}
		o.integrator = integ
	}
	if o.library == nil {
		o.library = effects.NewLibrary()
		if cfg.Effect.Dir != "" {
			if err := o.library.LoadDir(cfg.Effect.Dir); err != nil {
				return nil, fmt.Errorf("load effects: %w", err)
			}
		}
	}

	cfg = cfg.Clone()
	g, h := scene.Build(cfg)
	d := &Demo{
		cfg:      cfg,
		graph:    g,
		handles:  h,
		world:    physics.NewWorld(g, cfg.Physics, o.integrator),
		input:    input.NewHandler(g, h.Camera, cfg.Viewport.Width, cfg.Viewport.Height),
		animator: anim.New(),
		library:  o.library,
	}
	d.trigger = trigger.New(g, d.animator, h.Button, h.Sphere1, cfg)
	d.reactor = reactor.New(g, o.library, h.Sphere1, h.Sphere2, cfg.Effect.Name, cfg.Effect.Seed)
	d.reactor.OnReact = d.onCollision
	return d, nil
}

func (d *Demo) Config() *config.Config      { return d.cfg }
func (d *Demo) Graph() *scene.Graph         { return d.graph }
func (d *Demo) Handles() scene.Handles      { return d.handles }
func (d *Demo) Input() *input.Handler       { return d.input }
func (d *Demo) World() *physics.World       { return d.world }
func (d *Demo) Library() *effects.Library   { return d.library }
func (d *Demo) TriggerState() trigger.State { return d.trigger.State() }
func (d *Demo) Time() float64               { return d.world.Time() }
func (d *Demo) Collided() bool              { return d.collided }
func (d *Demo) Events() []dynamo.Event      { return d.events }
func (d *Demo) Frame() dynamo.Frame         { return d.frame() }
func (d *Demo) Animating() bool             { return d.animator.Active() > 0 }
func (d *Demo) EffectNodes() []scene.NodeID { return append([]scene.NodeID(nil), d.effects...) }
func (d *Demo) Field() *scene.Field         { return d.graph.Node(d.handles.Sphere1).Field }
func (d *Demo) Resize(width, height int)    { d.input.Resize(width, height) }
func (d *Demo) View(width, height int) *scene.View {
	return d.graph.View(d.handles.Camera, float64(width), float64(height))
}

// Tap hit-tests the screen point and hands the nearest hit to the trigger.
func (d *Demo) Tap(x, y float64) TapResult {
	p := input.Point{X: x, Y: y}
	res := TapResult{Point: p, Hits: d.input.HitTest(p)}

	var names []string
	for _, h := range res.Hits {
		names = append(names, h.Name)
	}
	d.record(dynamo.EventTap, names, fmt.Sprintf("%.0f,%.0f", x, y))

	if nearest, ok := res.Nearest(); ok && d.trigger.HandleHit(nearest.Node) {
		res.Triggered = true
		d.triggeredAt = d.world.Time()
		d.record(dynamo.EventTrigger, []string{nearest.Name}, fmt.Sprintf("strength=%g", d.Field().Strength))
	}
	return res
}

// TapNode taps the screen point where id's origin is drawn. Nodes that are
// detached or off screen produce an empty result.
func (d *Demo) TapNode(id scene.NodeID) TapResult {
	p, ok := d.input.ScreenPoint(id)
	if !ok {
		return TapResult{Hits: []input.Hit{}}
	}
	return d.Tap(p.X, p.Y)
}

// Step advances animation, physics, collision handling and effects by dt.
func (d *Demo) Step(dt float64) error {
	d.animator.Advance(dt)

	if err := d.world.Step(dt); err != nil {
		return err
	}
	for _, ev := range d.world.Drain() {
		if ev.Began {
			a, b := d.graph.Node(ev.A), d.graph.Node(ev.B)
			d.record(dynamo.EventContact, []string{a.Name, b.Name}, fmt.Sprintf("depth=%.4f", ev.Depth))
		}
		d.reactor.React(ev)
	}

	d.advanceEffects(dt)
	return nil
}

func (d *Demo) advanceEffects(dt float64) {
	live := d.effects[:0]
	for _, id := range d.effects {
		n := d.graph.Node(id)
		if !d.graph.Attached(id) || n.Particles == nil {
			continue
		}
		n.Particles.Advance(dt)
		if n.Particles.Done() && d.cfg.Effect.Reap {
			d.graph.Remove(id)
			d.record(dynamo.EventRemove, []string{n.Name}, "effect finished")
			continue
		}
		live = append(live, id)
	}
	d.effects = live
}

func (d *Demo) onCollision(ev physics.ContactEvent, out reactor.Outcome) {
	d.collided = true
	d.collidedAt = d.world.Time()

	if out.Err != nil {
		d.record(dynamo.EventEffectMissing, nil, out.Err.Error())
	} else {
		d.effects = append(d.effects, out.Effect)
		d.record(dynamo.EventEffect, []string{out.Emitter.Name()},
			fmt.Sprintf("at %.2f,%.2f,%.2f", ev.Point.X(), ev.Point.Y(), ev.Point.Z()))
	}
	for _, id := range out.Removed {
		d.record(dynamo.EventRemove, []string{d.graph.Node(id).Name}, "collision")
	}
}

func (d *Demo) record(kind dynamo.EventKind, nodes []string, detail string) {
	d.events = append(d.events, dynamo.Event{
		Time:   d.world.Time(),
		Step:   d.world.Steps(),
		Kind:   kind,
		Nodes:  nodes,
		Detail: detail,
	})
}

func (d *Demo) frame() dynamo.Frame {
	return dynamo.Frame{
		Step:   d.world.Steps(),
		Time:   d.world.Time(),
		Nodes:  d.graph.Count(),
		Bodies: d.world.Samples(),
	}
}
