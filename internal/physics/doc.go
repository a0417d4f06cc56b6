// Package physics implements the particle system bouncing around inside the
// containment cylinder.
//
// The core is [Update], a free function that advances one [Particle] by a
// single tick:
//
//   - position += velocity (one tick per frame, no time step)
//   - specular reflection off the curved wall, with the position clamped
//     back onto the wall
//   - reflection off the top and bottom caps
//
// Side and cap checks are independent, so a particle near a rim can be
// clamped on both in the same tick.
//
// [System] owns a fixed population created by a [Sampler]. It has no
// concurrency of its own; [System.StepRange] touches only the particles in
// its range, so disjoint ranges may be stepped from separate goroutines.
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	sys, _ := physics.NewSystem(geometry.Default(), physics.DefaultSampler(), 25, rng)
//	for tick := 0; tick < 600; tick++ {
//	    sys.Step()
//	    draw(sys.Frame(tick))
//	}
package physics
