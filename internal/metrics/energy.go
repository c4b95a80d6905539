package metrics

import "github.com/san-kum/scenesim/internal/dynamo"

// KineticEnergy is the mean total kinetic energy of the dynamic bodies over
// the observed frames.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f dynamo.Frame) {
	e.totalEnergy += FrameEnergy(f)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// FrameEnergy sums 1/2 m v^2 over the dynamic bodies of f.
func FrameEnergy(f dynamo.Frame) float64 {
	total := 0.0
	for _, b := range f.Bodies {
		if !b.Dynamic {
			continue
		}
		v := b.Velocity.Len()
		total += 0.5 * b.Mass * v * v
	}
	return total
}
