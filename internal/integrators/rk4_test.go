package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/scenesim/internal/dynamo"
)

// oscillator is x'' = -x laid out as [x, v].
type oscillator struct{}

func (oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (oscillator) StateDim() int { return 2 }

// freeFall is y'' = -g laid out as [y, v].
type freeFall struct{ g float64 }

func (f freeFall) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -f.g}
}

func (freeFall) StateDim() int { return 2 }

func run(integ dynamo.Integrator, sys dynamo.System, x dynamo.State, dt float64, steps int) dynamo.State {
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dt := 0.01
	steps := 100
	x := run(NewRK4(), oscillator{}, dynamo.State{1.0, 0.0}, dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestIntegratorsConverge(t *testing.T) {
	tests := []struct {
		name string
		tol  float64
	}{
		{"euler", 2e-2},
		{"symplectic", 2e-2},
		{"verlet", 1e-3},
		{"leapfrog", 1e-3},
		{"rk4", 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ, err := Get(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if integ.Name() != tt.name {
				t.Errorf("name mismatch: %s", integ.Name())
			}
			x := run(integ, oscillator{}, dynamo.State{1, 0}, 0.001, 1000)
			if math.Abs(x[0]-math.Cos(1)) > tt.tol {
				t.Errorf("x(1)=%.6f, want %.6f within %g", x[0], math.Cos(1), tt.tol)
			}
		})
	}
}

func TestVerletExactForConstantAcceleration(t *testing.T) {
	x := run(NewVerlet(), freeFall{g: 9.8}, dynamo.State{10, 0}, 0.1, 10)
	want := 10 - 0.5*9.8
	if math.Abs(x[0]-want) > 1e-9 {
		t.Errorf("y(1)=%.9f, want %.9f", x[0], want)
	}
	if math.Abs(x[1]+9.8) > 1e-9 {
		t.Errorf("v(1)=%.9f, want -9.8", x[1])
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("midpoint")
	if !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}
