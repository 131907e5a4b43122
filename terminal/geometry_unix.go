//go:build unix

package terminal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// QueryGeometry asks the device for its window size. A zero-sized answer is
// treated the same as a failed query.
func QueryGeometry(dev *Device) (Geometry, error) {
	ws, err := unix.IoctlGetWinsize(dev.Fd(), unix.TIOCGWINSZ)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %w", ErrGeometryUnavailable, err)
	}
	g := Geometry{Rows: int(ws.Row), Cols: int(ws.Col)}
	if !g.Valid() {
		return Geometry{}, fmt.Errorf("%w: reported %dx%d", ErrGeometryUnavailable, g.Cols, g.Rows)
	}
	return g, nil
}
