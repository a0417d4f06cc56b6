// Package viz renders the particle system in the terminal.
//
//   - [Canvas]: braille pixel grid with per-cell colour
//   - [Camera] and [Motion]: perspective projection on a scripted spin and zoom
//   - [Trail]: fading intensity buffer standing in for a translucent overlay
//   - [Scene]: draws frames with both wireframes and the trail
//   - [Model]: the Bubble Tea live view
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Respawn from the configured seed
//	T     - Cycle colour themes
//	G     - Toggle GIF recording (written to cylsim.gif)
//	+/-   - Zoom
//	?     - Help overlay
package viz
