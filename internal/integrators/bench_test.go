package integrators

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

// pairSystem mimics the physics world: one body pulled toward a fixed point.
type pairSystem struct{}

func (pairSystem) StateDim() int { return 6 }
func (pairSystem) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, 6)
	copy(dx[:3], x[3:])
	d := mgl64.Vec3{-x[0], -x[1], -x[2]}
	r := d.Len()
	if r < 1 {
		r = 1
	}
	a := d.Normalize().Mul(750 / (r * r))
	dx[3], dx[4], dx[5] = a.X(), a.Y(), a.Z()
	return dx
}

func benchmark(b *testing.B, integ dynamo.Integrator) {
	sys := pairSystem{}
	x := dynamo.State{30, 0, 0, 0, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 1.0/60)
		if x[0] < 1 {
			x = dynamo.State{30, 0, 0, 0, 0, 0}
		}
	}
}

func BenchmarkEuler(b *testing.B)    { benchmark(b, NewEuler()) }
func BenchmarkVerlet(b *testing.B)   { benchmark(b, NewVerlet()) }
func BenchmarkLeapfrog(b *testing.B) { benchmark(b, NewLeapfrog()) }
func BenchmarkRK4(b *testing.B)      { benchmark(b, NewRK4()) }
