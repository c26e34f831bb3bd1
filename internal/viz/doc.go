// Package viz provides a terminal visualization of a running sparse fit.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live fitting view, one solver step per tick
//   - [Canvas]: Braille-based pixel canvas for the phase portrait
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	Space  - Pause/Resume fitting
//	R      - Restart the fit from scratch
//	Up/K   - Raise the threshold
//	Down/J - Lower the threshold
//	Tab    - Cycle phase portrait axes
//	T      - Cycle color themes
//	?      - Show help overlay
//
// Threshold changes apply from the next solver step; restart to let a
// looser threshold revive already-discarded terms.
package viz
