// Package terminal is the terminal layer of the emv editor.
//
// It owns the controlling device, switches it into raw mode for the lifetime
// of a session and restores the captured attributes exactly once on every
// exit path, including panics. On top of the device it provides:
//   - Window geometry probing with an 80x24 fallback
//   - A buffered ANSI renderer that flushes with a single write loop
//   - A pull-based input decoder for xterm (CSI and SS3, including modifier
//     parameters), rxvt modified keys and linux console function keys
//   - Opt-in SIGWINCH and termination signal helpers for the host
//
// The package emits ANSI sequences directly and does not consult terminfo.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
