package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

// NodeID addresses a node in the graph arena. IDs are never reused.
type NodeID int

const (
	Root        NodeID = 0
	InvalidNode NodeID = -1
)

type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3 // Euler angles, radians, applied X then Y then Z
	Scale    mgl64.Vec3
}

func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Rotation3 is the rotation part of the transform.
func (t Transform) Rotation3() mgl64.Mat3 {
	r := t.Rotation
	return mgl64.Rotate3DZ(r.Z()).Mul3(mgl64.Rotate3DY(r.Y())).Mul3(mgl64.Rotate3DX(r.X()))
}

// Matrix maps the node's local space to its parent's space.
func (t Transform) Matrix() mgl64.Mat4 {
	p, r, s := t.Position, t.Rotation, t.Scale
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(mgl64.HomogRotate3DZ(r.Z())).
		Mul4(mgl64.HomogRotate3DY(r.Y())).
		Mul4(mgl64.HomogRotate3DX(r.X())).
		Mul4(mgl64.Scale3D(s.X(), s.Y(), s.Z()))
}

// Apply maps a point from the node's local space to its parent's space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, t.Matrix())
}

type Material struct {
	Diffuse dynamo.Color
}

type LightKind int

const (
	LightAmbient LightKind = iota
	LightSpot
)

func (k LightKind) String() string {
	if k == LightSpot {
		return "spot"
	}
	return "ambient"
}

type Light struct {
	Kind        LightKind
	Color       dynamo.Color
	CastsShadow bool
	InnerAngle  float64
	OuterAngle  float64
	Far         float64
}

type Camera struct {
	FOV  float64 // vertical, degrees
	Near float64
	Far  float64
}

// ParticleSystem is a transient emitter attached to a node.
type ParticleSystem interface {
	Name() string
	Advance(dt float64)
	Done() bool
}

type Node struct {
	ID        NodeID
	Name      string
	Transform Transform
	Geometry  Geometry
	Material  *Material
	Body      *Body
	Field     *Field
	Light     *Light
	Camera    *Camera
	Particles ParticleSystem
	// LookAt orients the node toward another node; InvalidNode when unconstrained.
	LookAt NodeID

	parent   NodeID
	children []NodeID
}

func (n *Node) Parent() NodeID { return n.parent }
