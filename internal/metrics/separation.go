package metrics

import (
	"math"

	"github.com/san-kum/scenesim/internal/dynamo"
)

// Separation tracks the closest the centers of two named bodies came. Frames
// missing either body are skipped.
type Separation struct {
	name    string
	a, b    string
	min     float64
	samples int
}

func NewSeparation(a, b string) *Separation {
	return &Separation{name: "min_separation", a: a, b: b, min: math.Inf(1)}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(f dynamo.Frame) {
	d, ok := Distance(f, s.a, s.b)
	if !ok {
		return
	}
	s.min = math.Min(s.min, d)
	s.samples++
}

// Value is the minimum distance seen, or 0 before any frame had both bodies.
func (s *Separation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.min
}

func (s *Separation) Reset() {
	s.min = math.Inf(1)
	s.samples = 0
}

// Distance is the distance between two named bodies of a frame.
func Distance(f dynamo.Frame, a, b string) (float64, bool) {
	ba, ok := f.Body(a)
	if !ok {
		return 0, false
	}
	bb, ok := f.Body(b)
	if !ok {
		return 0, false
	}
	return ba.Position.Sub(bb.Position).Len(), true
}
