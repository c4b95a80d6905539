package anim

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/scene"
)

func TestColorTo(t *testing.T) {
	g := NewWithT(t)
	m := &scene.Material{Diffuse: dynamo.Red}
	a := New()
	a.ColorTo(m, dynamo.White, 0.5)
	g.Expect(a.Active()).To(Equal(1))

	a.Advance(0.25)
	g.Expect(m.Diffuse.G).To(BeNumerically("~", 0.5, 1e-12))
	g.Expect(m.Diffuse.R).To(BeNumerically("~", 1, 1e-12))

	a.Advance(0.3)
	g.Expect(m.Diffuse).To(Equal(dynamo.White))
	g.Expect(a.Active()).To(BeZero())
}

func TestMoveByComposes(t *testing.T) {
	g := NewWithT(t)
	graph := scene.New()
	id := graph.NewNode("box")
	graph.Node(id).Transform.Position = mgl64.Vec3{0, 0.5, 15}

	a := New()
	a.MoveBy(graph, id, mgl64.Vec3{0, -0.8, 0}, 0.5)
	for range 10 {
		a.Advance(0.1)
		graph.Node(id).Transform.Position[0] += 1
	}

	p := graph.Node(id).Transform.Position
	g.Expect(p.X()).To(BeNumerically("~", 10, 1e-12))
	g.Expect(p.Y()).To(BeNumerically("~", -0.3, 1e-12))
	g.Expect(a.Active()).To(BeZero())
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	m := &scene.Material{Diffuse: dynamo.Red}
	graph := scene.New()
	id := graph.NewNode("n")

	a := New()
	a.ColorTo(m, dynamo.Blue, 0)
	a.MoveBy(graph, id, mgl64.Vec3{1, 2, 3}, 0)

	if a.Active() != 0 {
		t.Errorf("zero-length tweens should not be scheduled, active=%d", a.Active())
	}
	if m.Diffuse != dynamo.Blue {
		t.Errorf("color should jump to the end value, got %v", m.Diffuse)
	}
	if graph.Node(id).Transform.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("move should jump to the end value, got %+v", graph.Node(id).Transform.Position)
	}
}

func TestUnknownNodeDropsTween(t *testing.T) {
	a := New()
	a.MoveBy(scene.New(), scene.NodeID(7), mgl64.Vec3{0, 1, 0}, 1)
	if a.Active() != 0 {
		t.Error("tween on a missing node should finish at once")
	}
}
