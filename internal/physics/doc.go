// Package physics steps the bodies of a scene graph.
//
// A [World] gathers every attached dynamic body into one state vector laid out
// as [positions..., velocities...] and advances it with a [dynamo.Integrator].
// Dynamic bodies feel gravity plus every active [scene.Field]; kinematic bodies
// only move when code moves their node.
//
// After integrating, the world keeps dynamic spheres out of kinematic planes
// and boxes, then queues a [ContactEvent] for every overlapping pair whose
// masks select each other. The queue is drained by the caller once per step:
//
//	if err := world.Step(dt); err != nil {
//	    return err
//	}
//	for _, ev := range world.Drain() {
//	    reactor.React(ev)
//	}
package physics
