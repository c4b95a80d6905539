package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/effects"
	"github.com/san-kum/scenesim/internal/scene"
)

// Edge is a world-space segment. Start == End draws a point; Radius > 0 draws
// a screen-facing circle of that world radius around Start.
type Edge struct {
	Start, End mgl64.Vec3
	Radius     float64
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                          { return &Wireframe{Edges: make([]Edge, 0, 64)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3)           { w.Edges = append(w.Edges, Edge{Start: s, End: e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)             { w.Edges = append(w.Edges, Edge{Start: p, End: p}) }
func (w *Wireframe) AddCircle(c mgl64.Vec3, r float64) { w.Edges = append(w.Edges, Edge{Start: c, End: c, Radius: r}) }
func (w *Wireframe) Clear()                             { w.Edges = w.Edges[:0] }

type projected struct {
	x1, y1, x2, y2 int
	r              int
	depth          float64
}

// Render3D draws the wireframe through the view, farthest edges first. The
// view should be sized to the canvas in dots. Edges with an endpoint outside
// the clip range are skipped.
func Render3D(c *Canvas, w *Wireframe, view *scene.View) {
	if c == nil || w == nil || view == nil {
		return
	}
	proj := make([]projected, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, _ := view.Project(e.Start)
		x2, y2, d2, _ := view.Project(e.End)
		if !inClip(view, d1) || !inClip(view, d2) {
			continue
		}
		p := projected{
			x1: int(x1), y1: int(y1), x2: int(x2), y2: int(y2),
			depth: (d1 + d2) / 2,
		}
		if e.Radius > 0 {
			p.r = int(math.Round(e.Radius * view.PixelsPerUnit(d1)))
		}
		proj = append(proj, p)
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		switch {
		case e.r > 0:
			c.DrawCircle(e.x1, e.y1, e.r)
		case e.x1 == e.x2 && e.y1 == e.y2:
			c.Set(e.x1, e.y1)
		default:
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

func inClip(v *scene.View, depth float64) bool { return depth >= v.Near && depth <= v.Far }

// SceneWireframe outlines every attached node of the graph: floors as a grid
// of the given half extent, boxes by their twelve edges, spheres as circles
// and particle systems as points.
func SceneWireframe(g *scene.Graph, extent, spacing float64) *Wireframe {
	w := NewWireframe()
	g.Walk(func(n *scene.Node) bool {
		switch geo := n.Geometry.(type) {
		case scene.Floor:
			addGrid(w, g.WorldPosition(n.ID).Y(), extent, spacing)
		case scene.Box:
			addBox(w, g, n.ID, geo.HalfExtents())
		case scene.Sphere:
			s := n.Transform.Scale
			w.AddCircle(g.WorldPosition(n.ID), geo.Radius*max(s.X(), s.Y(), s.Z()))
			w.AddPoint(g.WorldPosition(n.ID))
		}
		if em, ok := n.Particles.(*effects.Emitter); ok {
			origin := g.WorldPosition(n.ID)
			for _, p := range em.Particles() {
				w.AddPoint(origin.Add(p.Position))
			}
		}
		return true
	})
	return w
}

func addGrid(w *Wireframe, y, extent, spacing float64) {
	if spacing <= 0 {
		spacing = extent
	}
	for v := -extent; v <= extent+1e-9; v += spacing {
		w.AddEdge(mgl64.Vec3{v, y, -extent}, mgl64.Vec3{v, y, extent})
		w.AddEdge(mgl64.Vec3{-extent, y, v}, mgl64.Vec3{extent, y, v})
	}
}

func addBox(w *Wireframe, g *scene.Graph, id scene.NodeID, h mgl64.Vec3) {
	corners := [8]mgl64.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	extents := mgl64.Diag3(h)
	var v [8]mgl64.Vec3
	for i, c := range corners {
		v[i] = g.WorldTransformPoint(id, extents.Mul3x1(c))
	}
	for _, e := range [12][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}} {
		w.AddEdge(v[e[0]], v[e[1]])
	}
}
