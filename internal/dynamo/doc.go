// Package dynamo provides the shared primitives of the scene simulation.
//
// The package defines the value types every other package speaks:
//
//   - [Color]: RGBA material colors with YAML encoding
//   - [State], [System], [Integrator]: ODE stepping used by the physics world
//   - [Frame], [Event], [Result]: what a run records
//   - [Metric], [Observer]: per-frame hooks
//
// It also owns the sentinel errors and the package-wide [Logger].
//
// # Thread Safety
//
// Nothing here is synchronized except [SetLogger] / [Logger]. A scene and
// everything attached to it is driven from a single goroutine.
package dynamo
