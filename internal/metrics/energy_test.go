package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

func frame(p2, v2 mgl64.Vec3) dynamo.Frame {
	return dynamo.Frame{Bodies: []dynamo.BodySample{
		{Name: "sphere1", Mass: 1, Position: mgl64.Vec3{-15, 1.5, 0}},
		{Name: "sphere2", Dynamic: true, Mass: 2, Position: p2, Velocity: v2},
	}}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(frame(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 4, 0}))
	m.Observe(frame(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}))

	// 1/2 * 2 * 25 averaged with 0
	if math.Abs(m.Value()-12.5) > 1e-9 {
		t.Errorf("expected mean energy 12.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestKinematicBodiesCarryNoEnergy(t *testing.T) {
	f := dynamo.Frame{Bodies: []dynamo.BodySample{{Mass: 5, Velocity: mgl64.Vec3{10, 0, 0}}}}
	if e := FrameEnergy(f); e != 0 {
		t.Errorf("kinematic body counted: %f", e)
	}
}

func TestSeparation(t *testing.T) {
	m := NewSeparation("sphere1", "sphere2")
	if m.Value() != 0 {
		t.Error("expected zero before observing")
	}

	m.Observe(frame(mgl64.Vec3{15, 1.5, 0}, mgl64.Vec3{}))
	m.Observe(frame(mgl64.Vec3{-12, 1.5, 0}, mgl64.Vec3{}))
	m.Observe(frame(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{}))
	m.Observe(dynamo.Frame{})

	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected min separation 3, got %f", m.Value())
	}
}

func TestPeakSpeed(t *testing.T) {
	m := NewPeakSpeed()
	m.Observe(frame(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}))
	m.Observe(frame(mgl64.Vec3{}, mgl64.Vec3{0, 6, 8}))
	m.Observe(frame(mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}))
	if m.Value() != 10 {
		t.Errorf("expected peak 10, got %f", m.Value())
	}
	if len(Default("a", "b")) != 3 {
		t.Error("expected three default metrics")
	}
}
