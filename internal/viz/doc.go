// Package viz renders the demo in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live scene, stepped on a timer and tapped with the mouse
//   - [Canvas]: Braille-based pixel canvas; one dot is one viewport pixel
//   - [Render3D]: wireframe projection through the scene camera
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Click - Tap the scene under the cursor
//	B     - Tap the button
//	Space - Pause/Resume simulation
//	.     - Single step while paused
//	R     - Reset to initial state
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
