// Package viz renders collision scenes in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [Scene]: maps world coordinates onto a canvas; boxes are filled
//     rectangles and circles filled discs
//   - [Model]: Bubble Tea program that polls an engine snapshot every frame
//     and stops the engine once the run duration has elapsed
//
// # Key Bindings
//
//	Q - Stop the engine and quit
//	T - Cycle color themes
//	G - Toggle GIF recording
//	? - Show help overlay
package viz
