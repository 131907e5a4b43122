package terminal

import "errors"

// Sentinel errors; concrete failures wrap one of these together with the OS cause
var (
	ErrDeviceUnavailable   = errors.New("terminal device unavailable")
	ErrAttributeQuery      = errors.New("terminal attribute query failed")
	ErrAttributeSet        = errors.New("terminal attribute set failed")
	ErrGeometryUnavailable = errors.New("terminal geometry unavailable")
	ErrWrite               = errors.New("terminal write failed")
	ErrClosed              = errors.New("terminal session closed")
)
