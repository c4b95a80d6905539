// Package anim runs timed linear tweens on scene nodes and materials.
package anim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/scene"
)

type tween interface {
	// advance moves the tween by dt and reports whether it has finished.
	advance(dt float64) bool
}

// Animator owns the running tweens. Tweens advance in the order they were
// scheduled and are dropped once they reach their end value.
type Animator struct {
	tweens []tween
}

func New() *Animator {
	return &Animator{}
}

// ColorTo fades m's diffuse color to `to` over duration seconds.
func (a *Animator) ColorTo(m *scene.Material, to dynamo.Color, duration float64) {
	a.schedule(&colorTween{m: m, from: m.Diffuse, to: to, clock: clock{duration: duration}})
}

// MoveBy translates node by delta over duration seconds. Each advance applies
// only the increment since the previous one, so it composes with other motion.
func (a *Animator) MoveBy(g *scene.Graph, node scene.NodeID, delta mgl64.Vec3, duration float64) {
	a.schedule(&moveTween{g: g, node: node, delta: delta, clock: clock{duration: duration}})
}

func (a *Animator) schedule(t tween) {
	if t.advance(0) {
		return
	}
	a.tweens = append(a.tweens, t)
}

// Advance moves every running tween forward by dt.
func (a *Animator) Advance(dt float64) {
	live := a.tweens[:0]
	for _, t := range a.tweens {
		if !t.advance(dt) {
			live = append(live, t)
		}
	}
	clear(a.tweens[len(live):])
	a.tweens = live
}

// Active is the number of running tweens.
func (a *Animator) Active() int { return len(a.tweens) }

type clock struct {
	elapsed, duration float64
}

// tick returns the eased fraction after dt and whether the end was reached.
func (c *clock) tick(dt float64) (float64, bool) {
	if c.duration <= 0 {
		return 1, true
	}
	c.elapsed += dt
	if c.elapsed >= c.duration {
		return 1, true
	}
	return c.elapsed / c.duration, false
}

type colorTween struct {
	clock
	m        *scene.Material
	from, to dynamo.Color
}

func (t *colorTween) advance(dt float64) bool {
	f, done := t.tick(dt)
	if done {
		t.m.Diffuse = t.to
		return true
	}
	t.m.Diffuse = t.from.Lerp(t.to, f)
	return false
}

type moveTween struct {
	clock
	g       *scene.Graph
	node    scene.NodeID
	delta   mgl64.Vec3
	applied float64
}

func (t *moveTween) advance(dt float64) bool {
	f, done := t.tick(dt)
	n := t.g.Node(t.node)
	if n == nil {
		return true
	}
	n.Transform.Position = n.Transform.Position.Add(t.delta.Mul(f - t.applied))
	t.applied = f
	return done
}
