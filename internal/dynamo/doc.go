// Package dynamo provides core primitives shared by the frame-stepped simulators.
//
// The package defines the small vocabulary every simulator speaks:
//
//   - [State]: flattened snapshot of a simulator's observable values
//   - [Stepper]: a simulator advanced one frame at a time
//   - [PointIntegrator]: per-point motion update rule
//   - [Metric], [Observer]: per-frame observation hooks
//   - [Config], [Result]: run parameters and recorded output
//
// # Example
//
//	net := spring.NewNetwork()
//	sim := sim.New()
//	result, _ := sim.Run(ctx, net, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Steppers are NOT thread-safe and are always driven from a single goroutine.
// sim.Ensemble builds a fresh stepper per run, so no state is shared between runs.
package dynamo
