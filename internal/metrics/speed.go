package metrics

import "github.com/san-kum/scenesim/internal/dynamo"

// PeakSpeed is the highest speed any dynamic body reached.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(f dynamo.Frame) {
	for _, b := range f.Bodies {
		if b.Dynamic {
			p.peak = max(p.peak, b.Velocity.Len())
		}
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// Default returns the metrics recorded for every demo run.
func Default(a, b string) []dynamo.Metric {
	return []dynamo.Metric{NewSeparation(a, b), NewPeakSpeed(), NewKineticEnergy()}
}
