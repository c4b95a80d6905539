package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/effects"
	"github.com/san-kum/scenesim/internal/scene"
)

const floorSize = 200

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func color(c dynamo.Color) rl.Color {
	r, g, b, a := c.RGBA8()
	return rl.NewColor(r, g, b, a)
}

func materialColor(n *scene.Node) rl.Color {
	if n.Material == nil {
		return rl.LightGray
	}
	return color(n.Material.Diffuse)
}

// CustomGrid draws grid lines on the plane y.
func CustomGrid(y float32, slices int, spacing float32) {
	halfSize := float32(slices) * spacing / 2
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, y, -halfSize), rl.NewVector3(pos, y, halfSize), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-halfSize, y, pos), rl.NewVector3(halfSize, y, pos), ColGrid)
	}
}

// drawScene draws every attached node the way its geometry, light or
// particle system describes it.
func (a *App) drawScene() {
	g := a.Demo.Graph()
	rl.BeginMode3D(a.Camera)
	g.Walk(func(n *scene.Node) bool {
		pos := g.WorldPosition(n.ID)
		s := n.Transform.Scale
		switch geo := n.Geometry.(type) {
		case scene.Floor:
			rl.DrawPlane(vec(pos), rl.NewVector2(floorSize, floorSize), materialColor(n))
			CustomGrid(float32(pos.Y())+0.01, 40, 5)
		case scene.Box:
			w, h, l := float32(geo.Width*s.X()), float32(geo.Height*s.Y()), float32(geo.Length*s.Z())
			rl.DrawCube(vec(pos), w, h, l, materialColor(n))
			rl.DrawCubeWires(vec(pos), w, h, l, ColBg)
		case scene.Sphere:
			r := float32(geo.Radius * max(s.X(), s.Y(), s.Z()))
			rl.DrawSphere(vec(pos), r, materialColor(n))
			rl.DrawSphereWires(vec(pos), r*1.01, 8, 12, rl.ColorAlpha(ColBg, 0.3))
		}
		if n.Light != nil && n.Light.Kind == scene.LightSpot {
			rl.DrawCubeWires(vec(pos), 0.5, 0.5, 0.5, color(n.Light.Color))
		}
		if em, ok := n.Particles.(*effects.Emitter); ok {
			drawParticles(pos, em)
		}
		return true
	})
	rl.EndMode3D()
}

// drawParticles fades each particle out over its lifetime.
func drawParticles(origin mgl64.Vec3, em *effects.Emitter) {
	for _, p := range em.Particles() {
		fade := float32(1)
		if p.Lifetime > 0 {
			fade = float32(1 - p.Age/p.Lifetime)
		}
		rl.DrawSphereEx(vec(origin.Add(p.Position)), float32(p.Size), 4, 4, rl.ColorAlpha(color(p.Color), fade))
	}
}
