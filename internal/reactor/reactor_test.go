package reactor

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/effects"
	"github.com/san-kum/scenesim/internal/physics"
	"github.com/san-kum/scenesim/internal/scene"
)

func setup(effect string) (*Reactor, *scene.Graph, scene.Handles) {
	cfg := config.DefaultConfig()
	g, h := scene.Build(cfg)
	return New(g, effects.NewLibrary(), h.Sphere1, h.Sphere2, effect, 1), g, h
}

func TestSpherePairExplodes(t *testing.T) {
	g := NewWithT(t)
	r, graph, h := setup("Explosion")
	at := graph.WorldPosition(h.Sphere2)

	var got Outcome
	r.OnReact = func(_ physics.ContactEvent, out Outcome) { got = out }

	g.Expect(r.React(physics.ContactEvent{A: h.Sphere2, B: h.Sphere1})).To(BeTrue())
	g.Expect(graph.Attached(h.Sphere1)).To(BeFalse())
	g.Expect(graph.Attached(h.Sphere2)).To(BeFalse())
	g.Expect(graph.Count()).To(Equal(5))

	g.Expect(got.Err).NotTo(HaveOccurred())
	g.Expect(got.Removed).To(ConsistOf(h.Sphere1, h.Sphere2))
	fx := graph.Node(got.Effect)
	g.Expect(fx.Name).To(Equal(EffectNodeName))
	g.Expect(fx.Particles.Name()).To(Equal("Explosion"))
	g.Expect(graph.WorldPosition(got.Effect)).To(Equal(at))
	g.Expect(graph.Attached(got.Effect)).To(BeTrue())

	g.Expect(r.React(physics.ContactEvent{A: h.Sphere1, B: h.Sphere2})).To(BeFalse(), "already removed")
	g.Expect(graph.Count()).To(Equal(5))
}

func TestOtherPairsAreIgnored(t *testing.T) {
	r, graph, h := setup("Explosion")
	pairs := []physics.ContactEvent{
		{A: h.Ground, B: h.Sphere2},
		{A: h.Sphere1, B: h.Ground},
		{A: h.Sphere1, B: h.Sphere1},
		{A: h.Button, B: h.Sphere2},
	}
	for _, ev := range pairs {
		if r.React(ev) {
			t.Errorf("pair %d/%d should be ignored", ev.A, ev.B)
		}
	}
	if graph.Count() != 6 {
		t.Errorf("graph changed: %d nodes", graph.Count())
	}
}

func TestMissingEffectStillRemovesSpheres(t *testing.T) {
	g := NewWithT(t)
	r, graph, h := setup("Nope")

	var got Outcome
	r.OnReact = func(_ physics.ContactEvent, out Outcome) { got = out }

	g.Expect(r.React(physics.ContactEvent{A: h.Sphere1, B: h.Sphere2})).To(BeTrue())
	g.Expect(errors.Is(got.Err, dynamo.ErrEffectNotFound)).To(BeTrue())
	g.Expect(got.Effect).To(Equal(scene.InvalidNode))
	g.Expect(graph.Count()).To(Equal(4))
	_, ok := graph.Find(EffectNodeName)
	g.Expect(ok).To(BeFalse())
}
