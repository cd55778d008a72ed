// Package viz renders orbits and solar paths in the terminal.
//
// [Canvas] is a braille dot grid used by the plot commands; [LiveModel] is
// a Bubble Tea program that steps the three integration schemes side by
// side from the same initial state.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	+/-   - Steps per frame
//	Q     - Quit
package viz
