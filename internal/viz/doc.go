// Package viz draws gravsim runs in the terminal and as SVG.
//
// Particles and the domains of the upper octree levels are projected through
// a [Camera] onto a Braille [Canvas]. [Model] is a Bubble Tea program that
// steps a simulator on every tick; [Picker] chooses a preset before a run.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step
//	B     - Toggle node boxes
//	[ ]   - Box depth
//	HJKL  - Rotate
//	+ -   - Zoom
//	T     - Cycle color themes
//	P     - Save an SVG snapshot
//	?     - Help overlay
package viz
