// Package viz hosts the web in a terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulator with a HUD panel
//   - [Canvas]: braille surface the renderer draws into
//   - a preset menu with a small parameter editor in front of the live view
//
// Mouse motion over the canvas moves the pointer, a left click presses it
// and terminal focus changes enter and leave the surface.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the web
//	P     - Ripple from the centre
//	W     - Toggle wind
//	T     - Cycle palettes
//	G     - Toggle GIF recording
//	?     - Show help
//
// # Recording
//
// G records the braille frames; the GIF is written to [GIFPath] when
// recording stops.
package viz
