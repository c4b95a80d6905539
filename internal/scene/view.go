package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	worldUp = mgl64.Vec3{0, 1, 0}
	forward = mgl64.Vec3{0, 0, -1}
)

// View is a perspective lens placed in the world, sized to a viewport in pixels
// with the origin at the top left.
type View struct {
	Eye, Target, Up mgl64.Vec3
	FOV             float64 // vertical, degrees
	Near, Far       float64
	Width, Height   float64

	modelview, projection mgl64.Mat4
	tanHalf               float64
}

// NewView builds the look-at and perspective matrices. A target on the eye
// looks down -Z, and an up vector parallel to the view axis is replaced.
func NewView(eye, target, up mgl64.Vec3, fov, near, far, width, height float64) *View {
	v := &View{Eye: eye, Target: target, Up: up, FOV: fov, Near: near, Far: far, Width: width, Height: height}
	dir := target.Sub(eye)
	if dir.Len() == 0 {
		dir = forward
		target = eye.Add(dir)
	}
	if dir.Cross(up).Len() == 0 {
		up = forward
		if dir.Cross(up).Len() == 0 {
			up = worldUp
		}
	}
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = width / height
	}
	v.modelview = mgl64.LookAtV(eye, target, up)
	v.projection = mgl64.Perspective(mgl64.DegToRad(fov), aspect, near, far)
	v.tanHalf = math.Tan(mgl64.DegToRad(fov) / 2)
	return v
}

func (v *View) viewport() (w, h int) { return int(v.Width), int(v.Height) }

// Ray returns the world ray through pixel (x, y). A degenerate viewport
// yields the view axis.
func (v *View) Ray(x, y float64) Ray {
	w, h := v.viewport()
	axis := mgl64.TransformNormal(forward, v.modelview.Inv()).Normalize()
	if w <= 0 || h <= 0 {
		return Ray{Origin: v.Eye, Dir: axis}
	}
	near, err := mgl64.UnProject(mgl64.Vec3{x, v.Height - y, 0}, v.modelview, v.projection, 0, 0, w, h)
	if err != nil {
		return Ray{Origin: v.Eye, Dir: axis}
	}
	return Ray{Origin: v.Eye, Dir: near.Sub(v.Eye).Normalize()}
}

// Depth is the distance of p along the view axis, negative behind the eye.
func (v *View) Depth(p mgl64.Vec3) float64 {
	return -mgl64.TransformCoordinate(p, v.modelview).Z()
}

// Project maps a world point to pixel coordinates. depth is the distance along
// the view axis; ok is false when the point is outside the clip range or the viewport.
func (v *View) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	depth = v.Depth(p)
	if depth < v.Near || depth > v.Far {
		return 0, 0, depth, false
	}
	w, h := v.viewport()
	win := mgl64.Project(p, v.modelview, v.projection, 0, 0, w, h)
	x, y = win.X(), v.Height-win.Y()
	ok = x >= 0 && x < v.Width && y >= 0 && y < v.Height
	return x, y, depth, ok
}

// View builds the lens of the camera attached to id for a viewport of w x h pixels.
// It returns nil when id carries no camera.
func (g *Graph) View(id NodeID, w, h float64) *View {
	n := g.Node(id)
	if n == nil || n.Camera == nil {
		return nil
	}
	eye := g.WorldPosition(id)
	var target mgl64.Vec3
	if n.LookAt != InvalidNode && g.Node(n.LookAt) != nil {
		target = g.WorldPosition(n.LookAt)
	} else {
		target = eye.Add(n.Transform.Rotation3().Mul3x1(forward))
	}
	return NewView(eye, target, worldUp, n.Camera.FOV, n.Camera.Near, n.Camera.Far, w, h)
}

// PixelsPerUnit is the on-screen size of one world unit at the given depth.
func (v *View) PixelsPerUnit(depth float64) float64 {
	if depth <= 0 || v.tanHalf == 0 {
		return 0
	}
	return v.Height / (2 * depth * v.tanHalf)
}
