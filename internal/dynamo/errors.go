package dynamo

import "errors"

// Domain errors for scene and simulation operations.
var (
	// ErrUnknownNode indicates a NodeID that was never allocated by the graph.
	ErrUnknownNode = errors.New("dynamo: unknown node")

	// ErrCycle indicates an attach that would make a node its own ancestor.
	ErrCycle = errors.New("dynamo: attach would create a cycle")

	// ErrEffectNotFound indicates a particle effect name missing from the library.
	ErrEffectNotFound = errors.New("dynamo: particle effect not found")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("dynamo: run canceled by context")

	// ErrUnknownIntegrator indicates an integrator name with no registered stepper.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownPreset indicates a preset name with no registered configuration.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrInvalidState indicates a body state that went NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return SimError{Time: e.Time, Step: e.Step, Message: e.Wrapped.Error()}.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
