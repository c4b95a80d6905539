package scene

import "github.com/go-gl/mathgl/mgl64"

type BodyKind int

const (
	// Kinematic bodies move only when code moves their node.
	Kinematic BodyKind = iota
	// Dynamic bodies are driven by the simulation.
	Dynamic
)

func (k BodyKind) String() string {
	if k == Dynamic {
		return "dynamic"
	}
	return "kinematic"
}

// Default category bits, matching the usual engine convention.
const (
	DefaultCategory uint32 = 1 << 0
	StaticCategory  uint32 = 1 << 1
)

type ShapeKind int

const (
	ShapePlane ShapeKind = iota
	ShapeSphere
	ShapeBox
)

// Shape is the collision volume derived from a node's geometry and scale
// when the body is created. It is not revalidated afterwards.
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents mgl64.Vec3
}

// ShapeFor derives a collision shape from geometry. Non-uniform scale on a
// sphere uses the largest axis.
func ShapeFor(geo Geometry, scale mgl64.Vec3) Shape {
	switch g := geo.(type) {
	case Sphere:
		s := max(scale.X(), scale.Y(), scale.Z())
		return Shape{Kind: ShapeSphere, Radius: g.Radius * s}
	case Box:
		return Shape{Kind: ShapeBox, HalfExtents: mgl64.Diag3(scale).Mul3x1(g.HalfExtents())}
	default:
		return Shape{Kind: ShapePlane}
	}
}

type Body struct {
	Kind        BodyKind
	Shape       Shape
	Mass        float64
	Velocity    mgl64.Vec3
	Category    uint32
	ContactTest uint32
}

// NewBody creates a body whose shape is taken from the node's geometry.
// Nodes without geometry get a plane shape.
func NewBody(kind BodyKind, n *Node) *Body {
	b := &Body{
		Kind:  kind,
		Shape: ShapeFor(n.Geometry, n.Transform.Scale),
		Mass:  1,
	}
	if kind == Dynamic {
		b.Category = DefaultCategory
	} else {
		b.Category = StaticCategory
	}
	return b
}

// CanContact reports whether either body's contact-test mask selects the other's category.
func CanContact(a, b *Body) bool {
	return a.Category&b.ContactTest != 0 || b.Category&a.ContactTest != 0
}

type FieldKind int

const (
	FieldRadialGravity FieldKind = iota
)

// Field generates a force on dynamic bodies other than its own node.
type Field struct {
	Kind     FieldKind
	Strength float64
	// Falloff is the distance exponent; MinDistance bounds the singularity.
	Falloff     float64
	MinDistance float64
}

func NewRadialGravity(strength, falloff, minDistance float64) *Field {
	return &Field{Kind: FieldRadialGravity, Strength: strength, Falloff: falloff, MinDistance: minDistance}
}

// Active reports whether the field currently exerts any force.
func (f *Field) Active() bool { return f != nil && f.Strength != 0 }
