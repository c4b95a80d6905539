package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/dynamo"
)

// Node names used by the demo scene.
const (
	NameCamera  = "camera"
	NameGround  = "ground"
	NameLight   = "light"
	NameButton  = "button"
	NameSphere1 = "sphere1"
	NameSphere2 = "sphere2"
)

// Handles are the ids of the demo scene's well-known nodes.
type Handles struct {
	Camera  NodeID
	Ground  NodeID
	Light   NodeID
	Button  NodeID
	Sphere1 NodeID
	Sphere2 NodeID
}

// Build constructs the demo scene from cfg: a floor, a camera and a spot light
// aimed at it, a box button, and two spheres. Sphere 1 is kinematic and carries
// an inert radial gravity field; sphere 2 is dynamic.
func Build(cfg *config.Config) (*Graph, Handles) {
	g := New()
	var h Handles

	h.Ground = g.NewNode(NameGround)
	ground := g.Node(h.Ground)
	ground.Geometry = Floor{Reflectivity: cfg.Ground.Reflectivity}
	ground.Material = &Material{Diffuse: cfg.Ground.Color}
	ground.Body = NewBody(Kinematic, ground)

	h.Camera = g.NewNode(NameCamera)
	cam := g.Node(h.Camera)
	cam.Camera = &Camera{FOV: cfg.Camera.FOV, Near: cfg.Camera.Near, Far: cfg.Camera.Far}
	cam.Transform.Position = cfg.Camera.Position
	cam.LookAt = h.Ground
	cam.Light = &Light{Kind: LightAmbient, Color: cfg.Camera.Ambient}

	h.Light = g.NewNode(NameLight)
	light := g.Node(h.Light)
	light.Light = &Light{
		Kind:        LightSpot,
		Color:       dynamo.White,
		CastsShadow: cfg.Light.CastsShadow,
		InnerAngle:  cfg.Light.InnerAngle,
		OuterAngle:  cfg.Light.OuterAngle,
		Far:         cfg.Light.Far,
	}
	light.Transform.Position = cfg.Light.Position
	light.LookAt = h.Ground

	h.Sphere1 = newSphere(g, NameSphere1, cfg, cfg.Spheres.First, Kinematic)
	s1 := g.Node(h.Sphere1)
	s1.Field = NewRadialGravity(cfg.Field.InitialStrength, cfg.Field.Falloff, cfg.Field.MinDistance)

	h.Sphere2 = newSphere(g, NameSphere2, cfg, cfg.Spheres.Second, Dynamic)

	h.Button = g.NewNode(NameButton)
	btn := g.Node(h.Button)
	btn.Geometry = Box{Width: cfg.Button.Size.X(), Height: cfg.Button.Size.Y(), Length: cfg.Button.Size.Z()}
	btn.Material = &Material{Diffuse: cfg.Button.Color}
	btn.Transform.Position = cfg.Button.Position

	for _, id := range []NodeID{h.Camera, h.Ground, h.Light, h.Button, h.Sphere1, h.Sphere2} {
		// ids come from this graph, so attaching under root cannot fail
		_ = g.AddChild(id)
	}
	return g, h
}

func newSphere(g *Graph, name string, cfg *config.Config, pos mgl64.Vec3, kind BodyKind) NodeID {
	id := g.NewNode(name)
	n := g.Node(id)
	n.Geometry = Sphere{Radius: cfg.Spheres.Radius}
	n.Material = &Material{Diffuse: cfg.Spheres.Color}
	n.Transform.Position = pos
	n.Body = NewBody(kind, n)
	n.Body.Mass = cfg.Spheres.Mass
	n.Body.Category = cfg.Physics.SphereMask
	n.Body.ContactTest = cfg.Physics.SphereMask
	return id
}
