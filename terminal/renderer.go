package terminal

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// DefaultBanner is drawn one third of the way down an otherwise empty screen
const DefaultBanner = "emv editor -- version 0.1"

// maxWriteStalls bounds consecutive zero-progress writes before Flush gives up
const maxWriteStalls = 64

// Renderer accumulates a frame in memory and emits it with Flush.
// Nothing reaches the device until Flush is called.
// A Renderer is owned by a single goroutine.
type Renderer struct {
	w      io.Writer
	geom   GeometrySource
	buf    []byte
	banner string
	mouse  MouseMode
}

// NewRenderer returns a renderer writing to w and clamping against geom
func NewRenderer(w io.Writer, geom GeometrySource) *Renderer {
	return &Renderer{
		w:      w,
		geom:   geom,
		buf:    make([]byte, 0, 4096),
		banner: DefaultBanner,
	}
}

// SetBanner replaces the welcome text. An empty banner draws plain tilde rows.
func (r *Renderer) SetBanner(banner string) {
	r.banner = banner
}

// Bytes returns the pending output. The slice is valid until the next call
// that modifies the renderer.
func (r *Renderer) Bytes() []byte {
	return r.buf
}

// Len returns the number of pending bytes
func (r *Renderer) Len() int {
	return len(r.buf)
}

// Reset discards pending output
func (r *Renderer) Reset() {
	r.buf = r.buf[:0]
}

// Write appends p verbatim, making the renderer usable as an io.Writer for
// text that must be interleaved with the frame
func (r *Renderer) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	return len(p), nil
}

// ClearScreen appends erase-display followed by cursor home
func (r *Renderer) ClearScreen() {
	r.buf = append(r.buf, seqClearScreen...)
	r.buf = append(r.buf, seqCursorHome...)
}

// CursorHome moves the cursor to row 1, column 1
func (r *Renderer) CursorHome() {
	r.buf = append(r.buf, seqCursorHome...)
}

// HideCursor makes the cursor invisible
func (r *Renderer) HideCursor() {
	r.buf = append(r.buf, seqCursorHide...)
}

// ShowCursor makes the cursor visible
func (r *Renderer) ShowCursor() {
	r.buf = append(r.buf, seqCursorShow...)
}

// DrawRows appends g.Rows lines, each starting with '~' and ending with an
// erase-to-end-of-line. The banner sits on row g.Rows/3, centered and never
// wider than the row allows. Rows are joined by CR LF with no trailing one,
// so the final row never scrolls the screen.
func (r *Renderer) DrawRows(g Geometry) {
	if g.Rows < 1 {
		g.Rows = 1
	}
	if g.Cols < 1 {
		g.Cols = 1
	}
	bannerRow := g.Rows / 3

	for y := 0; y < g.Rows; y++ {
		r.buf = append(r.buf, '~')
		// One column is taken by the tilde; a banner that does not fit is skipped
		if y == bannerRow && r.banner != "" {
			if width := displayWidth(r.banner); width <= g.Cols-1 {
				pad := min((g.Cols-width)/2, g.Cols-1-width)
				r.buf = appendSpaces(r.buf, pad)
				r.buf = append(r.buf, r.banner...)
			}
		}
		r.buf = append(r.buf, seqEraseLine...)
		if y < g.Rows-1 {
			r.buf = append(r.buf, seqNewline...)
		}
	}
}

// geometry returns the source's size, or DefaultGeometry when the source
// reports an empty screen
func (r *Renderer) geometry() Geometry {
	if g := r.geom.Geometry(); g.Valid() {
		return g
	}
	return DefaultGeometry
}

// clamp limits a 1-based position to the current geometry
func (r *Renderer) clamp(row, col int) (int, int) {
	g := r.geometry()
	return max(1, min(row, g.Rows)), max(1, min(col, g.Cols))
}

// MoveCursor positions the cursor at a 1-based row and column, clamped to
// the current geometry
func (r *Renderer) MoveCursor(row, col int) {
	row, col = r.clamp(row, col)
	r.buf = appendCursorPos(r.buf, row, col)
}

// DrawText writes text at the start of a 1-based row, truncated to the row
// width, and erases the rest of the line
func (r *Renderer) DrawText(row int, text string) {
	row, _ = r.clamp(row, 1)
	r.buf = appendCursorPos(r.buf, row, 1)
	text, _ = truncateWidth(text, r.geometry().Cols)
	r.buf = append(r.buf, text...)
	r.buf = append(r.buf, seqEraseLine...)
}

// Refresh appends a complete redraw and flushes it: hide cursor, home,
// rows, home, show cursor
func (r *Renderer) Refresh() error {
	r.HideCursor()
	r.CursorHome()
	r.DrawRows(r.geometry())
	r.CursorHome()
	r.ShowCursor()
	return r.Flush()
}

// MouseMode returns the tracking mode last requested
func (r *Renderer) MouseMode() MouseMode {
	return r.mouse
}

// SetMouseMode appends the sequences that move the terminal from the current
// tracking mode to mode
func (r *Renderer) SetMouseMode(mode MouseMode) {
	old := r.mouse
	r.mouse = mode

	// Disable modes no longer needed (reverse order of enable)
	if old&MouseModeMotion != 0 && mode&MouseModeMotion == 0 {
		r.buf = append(r.buf, seqMouseMotionOff...)
	}
	if old&MouseModeDrag != 0 && mode&MouseModeDrag == 0 {
		r.buf = append(r.buf, seqMouseDragOff...)
	}
	if old&MouseModeClick != 0 && mode&MouseModeClick == 0 {
		r.buf = append(r.buf, seqMouseClickOff...)
	}
	if mode == MouseModeNone && old != MouseModeNone {
		r.buf = append(r.buf, seqMouseSGROff...)
	}

	// SGR coordinates first, then click, drag, motion
	if mode != MouseModeNone && old == MouseModeNone {
		r.buf = append(r.buf, seqMouseSGROn...)
	}
	if mode&MouseModeClick != 0 && old&MouseModeClick == 0 {
		r.buf = append(r.buf, seqMouseClickOn...)
	}
	if mode&MouseModeDrag != 0 && old&MouseModeDrag == 0 {
		r.buf = append(r.buf, seqMouseDragOn...)
	}
	if mode&MouseModeMotion != 0 && old&MouseModeMotion == 0 {
		r.buf = append(r.buf, seqMouseMotionOn...)
	}
}

// Flush writes all pending output. Short writes, EINTR and EAGAIN are
// retried. On a hard error the unwritten suffix stays pending and the error
// wraps ErrWrite. An empty buffer performs no write.
func (r *Renderer) Flush() error {
	written := 0
	stalls := 0
	for written < len(r.buf) {
		n, err := r.w.Write(r.buf[written:])
		if n > 0 {
			written += n
			stalls = 0
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
				if n <= 0 {
					stalls++
				}
				if stalls < maxWriteStalls {
					continue
				}
			}
			r.keep(written)
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		if n <= 0 {
			stalls++
			if stalls >= maxWriteStalls {
				r.keep(written)
				return fmt.Errorf("%w: %w", ErrWrite, io.ErrNoProgress)
			}
		}
	}
	r.buf = r.buf[:0]
	return nil
}

// keep drops the first n pending bytes
func (r *Renderer) keep(n int) {
	r.buf = r.buf[:copy(r.buf, r.buf[n:])]
}
