// Package analysis provides statistics over particle populations.
//
// [RadialDensity] bins positions into concentric bands around the cylinder
// axis and normalises each band by its area, which is how the initial
// sampling is checked for uniform areal density: with the square-root radius
// correction every band's relative density is close to 1, while naive linear
// radius sampling piles particles up near the axis.
package analysis
