// Package reactor turns the contact between the two demo spheres into an
// explosion and removes them from the scene.
package reactor

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/effects"
	"github.com/san-kum/scenesim/internal/physics"
	"github.com/san-kum/scenesim/internal/scene"
)

// EffectNodeName names the nodes the reactor creates for spawned effects.
const EffectNodeName = "effect"

// Outcome describes what one accepted contact did to the scene.
type Outcome struct {
	Effect  scene.NodeID // InvalidNode when the effect could not be spawned
	Emitter *effects.Emitter
	Removed []scene.NodeID
	Err     error
}

// Reactor watches for contact between one specific pair of nodes.
type Reactor struct {
	graph   *scene.Graph
	library *effects.Library
	first   scene.NodeID
	second  scene.NodeID
	effect  string
	seed    int64

	// OnReact, when set, is called after every accepted contact.
	OnReact func(ev physics.ContactEvent, out Outcome)
}

func New(g *scene.Graph, lib *effects.Library, first, second scene.NodeID, effect string, seed int64) *Reactor {
	return &Reactor{graph: g, library: lib, first: first, second: second, effect: effect, seed: seed}
}

func (r *Reactor) matches(ev physics.ContactEvent) bool {
	return (ev.A == r.first && ev.B == r.second) || (ev.A == r.second && ev.B == r.first)
}

// React handles one contact. It reports true only when the watched pair was
// still in the scene; the effect is placed at ev.A and both nodes are removed.
// A missing effect is logged and skipped.
func (r *Reactor) React(ev physics.ContactEvent) bool {
	if !r.matches(ev) || !r.graph.Attached(r.first) || !r.graph.Attached(r.second) {
		return false
	}

	out := Outcome{Effect: scene.InvalidNode}
	at := r.graph.WorldPosition(ev.A)
	em, err := r.library.Spawn(r.effect, r.seed)
	if err == nil {
		out.Effect, out.Emitter = r.attach(em, at)
	} else {
		out.Err = err
		log := dynamo.Logger().Warn
		if !errors.Is(err, dynamo.ErrEffectNotFound) {
			log = dynamo.Logger().Error
		}
		log("particle effect unavailable", "effect", r.effect, "err", err)
	}

	for _, id := range []scene.NodeID{r.first, r.second} {
		r.graph.Remove(id)
		out.Removed = append(out.Removed, id)
	}
	dynamo.Logger().Info("spheres collided",
		"a", r.graph.Node(ev.A).Name, "b", r.graph.Node(ev.B).Name, "step", ev.Step)

	if r.OnReact != nil {
		r.OnReact(ev, out)
	}
	return true
}

func (r *Reactor) attach(em *effects.Emitter, at mgl64.Vec3) (scene.NodeID, *effects.Emitter) {
	id := r.graph.NewNode(EffectNodeName)
	n := r.graph.Node(id)
	n.Particles = em
	n.Transform.Position = at
	// id was allocated above, so this cannot fail
	_ = r.graph.AddChild(id)
	return id, em
}
