// Package input turns screen taps into ordered scene hits.
package input

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/scene"
)

// Point is a screen position in pixels, origin top-left.
type Point struct {
	X, Y float64
}

// Hit is one node intersected by a tap ray.
type Hit struct {
	Node     scene.NodeID
	Name     string
	Distance float64
	Point    mgl64.Vec3
}

// Handler casts taps through one camera of a graph.
type Handler struct {
	graph         *scene.Graph
	camera        scene.NodeID
	width, height float64
}

func NewHandler(g *scene.Graph, camera scene.NodeID, width, height int) *Handler {
	return &Handler{graph: g, camera: camera, width: float64(width), height: float64(height)}
}

// Resize changes the viewport the tap coordinates refer to.
func (h *Handler) Resize(width, height int) {
	h.width, h.height = float64(width), float64(height)
}

func (h *Handler) Viewport() (width, height int) { return int(h.width), int(h.height) }

// HitTest returns every attached node with geometry under p, nearest first.
// Equal distances keep NodeID order. The result is empty, never nil, when
// nothing is hit or the camera is gone.
func (h *Handler) HitTest(p Point) []Hit {
	hits := []Hit{}
	view := h.graph.View(h.camera, h.width, h.height)
	if view == nil || !h.graph.Attached(h.camera) {
		return hits
	}
	ray := view.Ray(p.X, p.Y)

	h.graph.Walk(func(n *scene.Node) bool {
		if n.Geometry == nil {
			return true
		}
		local, ok := h.graph.LocalRay(n.ID, ray)
		if !ok {
			return true
		}
		t, ok := n.Geometry.Intersect(local)
		if !ok || t > view.Far {
			return true
		}
		hits = append(hits, Hit{Node: n.ID, Name: n.Name, Distance: t, Point: ray.At(t)})
		return true
	})

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Node < hits[j].Node
	})
	return hits
}

// Nearest returns the closest hit under p.
func (h *Handler) Nearest(p Point) (Hit, bool) {
	hits := h.HitTest(p)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// ScreenPoint projects id's world position into the viewport.
func (h *Handler) ScreenPoint(id scene.NodeID) (Point, bool) {
	view := h.graph.View(h.camera, h.width, h.height)
	if view == nil || !h.graph.Attached(id) {
		return Point{}, false
	}
	x, y, _, ok := view.Project(h.graph.WorldPosition(id))
	return Point{x, y}, ok
}
