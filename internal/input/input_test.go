package input

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/scene"
)

func demoHandler() (*Handler, *scene.Graph, scene.Handles) {
	cfg := config.DefaultConfig()
	g, h := scene.Build(cfg)
	return NewHandler(g, h.Camera, cfg.Viewport.Width, cfg.Viewport.Height), g, h
}

func TestSkyHasNoHits(t *testing.T) {
	g := NewWithT(t)
	handler, _, _ := demoHandler()

	hits := handler.HitTest(Point{640, 0})
	g.Expect(hits).NotTo(BeNil())
	g.Expect(hits).To(BeEmpty())

	_, ok := handler.Nearest(Point{640, 0})
	g.Expect(ok).To(BeFalse())
}

func TestTapOnNodesHitsThemFirst(t *testing.T) {
	handler, _, h := demoHandler()

	for _, id := range []scene.NodeID{h.Button, h.Sphere1, h.Sphere2} {
		p, ok := handler.ScreenPoint(id)
		if !ok {
			t.Fatalf("node %d not on screen", id)
		}
		hits := handler.HitTest(p)
		if len(hits) < 2 {
			t.Fatalf("tap on %d: expected the node and the ground behind it, got %+v", id, hits)
		}
		if hits[0].Node != id {
			t.Errorf("nearest hit is %s, want node %d", hits[0].Name, id)
		}
		if hits[len(hits)-1].Node != h.Ground {
			t.Errorf("farthest hit should be the ground, got %s", hits[len(hits)-1].Name)
		}
		for i := 1; i < len(hits); i++ {
			if hits[i].Distance < hits[i-1].Distance {
				t.Errorf("hits not ordered: %+v", hits)
			}
		}
	}
}

func TestGroundHitLiesOnPlane(t *testing.T) {
	g := NewWithT(t)
	handler, _, h := demoHandler()

	hit, ok := handler.Nearest(Point{640, 700})
	g.Expect(ok).To(BeTrue())
	g.Expect(hit.Node).To(Equal(h.Ground))
	g.Expect(hit.Point.Y()).To(BeNumerically("~", 0, 1e-9))
	g.Expect(hit.Distance).To(BeNumerically(">", 0))
}

func TestRemovedNodesAreNotHit(t *testing.T) {
	g := NewWithT(t)
	handler, graph, h := demoHandler()
	p, ok := handler.ScreenPoint(h.Sphere1)
	g.Expect(ok).To(BeTrue())

	graph.Remove(h.Sphere1)
	hit, ok := handler.Nearest(p)
	g.Expect(ok).To(BeTrue())
	g.Expect(hit.Node).To(Equal(h.Ground))

	_, ok = handler.ScreenPoint(h.Sphere1)
	g.Expect(ok).To(BeFalse())

	graph.Remove(h.Camera)
	g.Expect(handler.HitTest(p)).To(BeEmpty())
}

func TestFlattenedNodesAreNotHit(t *testing.T) {
	g := NewWithT(t)
	handler, graph, h := demoHandler()
	p, ok := handler.ScreenPoint(h.Sphere2)
	g.Expect(ok).To(BeTrue())

	graph.Node(h.Sphere2).Transform.Scale = mgl64.Vec3{}
	for _, hit := range handler.HitTest(p) {
		g.Expect(hit.Node).NotTo(Equal(h.Sphere2))
		g.Expect(math.IsNaN(hit.Distance)).To(BeFalse())
	}
}

func TestRotatedButtonStillHit(t *testing.T) {
	g := NewWithT(t)
	handler, graph, h := demoHandler()
	graph.Node(h.Button).Transform.Rotation = mgl64.Vec3{0, math.Pi / 4, 0}

	p, ok := handler.ScreenPoint(h.Button)
	g.Expect(ok).To(BeTrue())
	hit, ok := handler.Nearest(p)
	g.Expect(ok).To(BeTrue())
	g.Expect(hit.Node).To(Equal(h.Button))
}
