package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Name() string
	Step(sys System, x State, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// BodySample is the simulated state of one attached body at a frame.
type BodySample struct {
	Node     int        `json:"node"`
	Name     string     `json:"name"`
	Dynamic  bool       `json:"dynamic"`
	Mass     float64    `json:"mass"`
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
}

// Frame is a snapshot taken after every simulation step.
type Frame struct {
	Step   int          `json:"step"`
	Time   float64      `json:"time"`
	Nodes  int          `json:"nodes,omitempty"`
	Bodies []BodySample `json:"bodies"`
}

// Body returns the sample for the named node.
func (f Frame) Body(name string) (BodySample, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodySample{}, false
}

type EventKind string

const (
	EventTap           EventKind = "tap"
	EventTrigger       EventKind = "trigger"
	EventContact       EventKind = "contact"
	EventEffect        EventKind = "effect"
	EventEffectMissing EventKind = "effect_missing"
	EventRemove        EventKind = "remove"
)

// Event is one entry of a run's event log.
type Event struct {
	Time   float64   `json:"time"`
	Step   int       `json:"step"`
	Kind   EventKind `json:"kind"`
	Nodes  []string  `json:"nodes,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

type Result struct {
	Frames      []Frame
	Events      []Event
	Metrics     map[string]float64
	StepsTaken  int
	Triggered   bool
	TriggeredAt float64
	Collided    bool
	CollidedAt  float64
	FinalNodes  int
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
