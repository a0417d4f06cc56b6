// Package geometry defines the containment constants the particle system
// lives in.
//
// The inner container is a cylinder centred at the origin whose axis is the
// Y axis. The outer container is a sphere enclosing the cylinder:
//
//	outer = sqrt(R² + (H/2)²) + margin
//
// Particles are treated as spheres of a shared radius, so the region their
// centres may occupy is the cylinder shrunk by that radius on every face.
// [Containment.InnerRadius] and [Containment.InnerHalfHeight] describe that
// shrunk region.
package geometry
