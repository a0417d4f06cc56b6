// Package sim drives a [physics.System] tick by tick.
//
// The package wraps the particle system with the pieces a run needs:
//
//   - [Simulator]: steps the system, feeds metrics and observers
//   - [Metric]: scalar summary accumulated over a run
//   - [Observer]: per-tick hook for live views and streams
//   - [Config]: run length, workers, recording and validation switches
//   - [Ensemble]: independent runs over a range of seeds
//
// # Example
//
//	sys, _ := physics.NewSystem(geometry.Default(), physics.DefaultSampler(), 25, rng)
//	s := sim.New(sys)
//	s.AddMetric(metrics.NewKineticEnergy())
//	result, _ := s.Run(ctx, sim.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. With Config.Workers > 1 a single
// tick is split across goroutines, but ticks themselves run in sequence.
// For parallel runs use [Ensemble], which builds one system per seed.
package sim
