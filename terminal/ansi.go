package terminal

import "strconv"

// Pre-allocated escape sequences
var (
	csi            = []byte("\x1b[")
	seqClearScreen = []byte("\x1b[2J")
	seqCursorHome  = []byte("\x1b[H")
	seqEraseLine   = []byte("\x1b[K")
	seqCursorHide  = []byte("\x1b[?25l")
	seqCursorShow  = []byte("\x1b[?25h")
	seqResetStyle  = []byte("\x1b[0m")
	seqNewline     = []byte("\r\n")

	// Mouse tracking (SGR extended coordinates in 1006)
	seqMouseClickOn   = []byte("\x1b[?1000h")
	seqMouseClickOff  = []byte("\x1b[?1000l")
	seqMouseDragOn    = []byte("\x1b[?1002h")
	seqMouseDragOff   = []byte("\x1b[?1002l")
	seqMouseMotionOn  = []byte("\x1b[?1003h")
	seqMouseMotionOff = []byte("\x1b[?1003l")
	seqMouseSGROn     = []byte("\x1b[?1006h")
	seqMouseSGROff    = []byte("\x1b[?1006l")
)

// appendCursorPos appends CSI row;col H, both 1-based
func appendCursorPos(buf []byte, row, col int) []byte {
	buf = append(buf, csi...)
	buf = strconv.AppendInt(buf, int64(row), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col), 10)
	return append(buf, 'H')
}

// appendSpaces appends n spaces
func appendSpaces(buf []byte, n int) []byte {
	for ; n > 0; n-- {
		buf = append(buf, ' ')
	}
	return buf
}
