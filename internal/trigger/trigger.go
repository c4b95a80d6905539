// Package trigger arms the demo button and fires the gravity field when it is hit.
package trigger

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/anim"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/scene"
)

type State int

const (
	Armed State = iota
	Triggered
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Triggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Controller is a one-shot switch: the first hit on the button presses it and
// switches the field on. It never re-arms.
type Controller struct {
	graph    *scene.Graph
	animator *anim.Animator
	button   scene.NodeID
	target   scene.NodeID
	cfg      config.Config
	state    State
}

// New wires a controller for button that drives the field on target.
func New(g *scene.Graph, a *anim.Animator, button, target scene.NodeID, cfg *config.Config) *Controller {
	return &Controller{graph: g, animator: a, button: button, target: target, cfg: *cfg}
}

func (c *Controller) State() State { return c.state }

// HandleHit reacts to a tap on node and reports whether it fired the trigger.
func (c *Controller) HandleHit(node scene.NodeID) bool {
	if c.state != Armed || node != c.button {
		return false
	}
	c.state = Triggered

	btn := c.graph.Node(c.button)
	b := c.cfg.Button
	if btn.Material != nil {
		c.animator.ColorTo(btn.Material, b.Highlight, b.PressDuration)
	}
	c.animator.MoveBy(c.graph, c.button, mgl64.Vec3{0, -b.PressDepth, 0}, b.PressDuration)

	if t := c.graph.Node(c.target); t != nil && t.Field != nil {
		t.Field.Strength = c.cfg.Field.TriggerStrength
	}

	dynamo.Logger().Info("trigger fired",
		"button", btn.Name, "strength", c.cfg.Field.TriggerStrength)
	return true
}
