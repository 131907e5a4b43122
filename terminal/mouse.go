package terminal

import (
	"strconv"
	"strings"
)

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
	MouseBtnWheelLeft
	MouseBtnWheelRight
)

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

// MouseMode controls which mouse events are reported (bitmask)
type MouseMode uint8

const (
	MouseModeNone   MouseMode = 0
	MouseModeClick  MouseMode = 1 << 0 // Press/release events
	MouseModeDrag   MouseMode = 1 << 1 // Drag events (button held + motion)
	MouseModeMotion MouseMode = 1 << 2 // All motion events
)

// Mouse is a decoded mouse report. X and Y are 0-based cell coordinates.
type Mouse struct {
	Button MouseButton
	Action MouseAction
	X, Y   int
	Mod    Modifier
}

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "left"
	case MouseBtnMiddle:
		return "middle"
	case MouseBtnRight:
		return "right"
	case MouseBtnWheelUp:
		return "wheel_up"
	case MouseBtnWheelDown:
		return "wheel_down"
	case MouseBtnWheelLeft:
		return "wheel_left"
	case MouseBtnWheelRight:
		return "wheel_right"
	default:
		return "none"
	}
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "press"
	case MouseActionRelease:
		return "release"
	case MouseActionMove:
		return "move"
	case MouseActionDrag:
		return "drag"
	default:
		return "none"
	}
}

// String returns e.g. "ctrl_left press 10,4"
func (m Mouse) String() string {
	var sb strings.Builder
	for _, p := range modifierPrefixes {
		if m.Mod&p.mod != 0 {
			sb.WriteString(p.prefix)
		}
	}
	sb.WriteString(m.Button.String())
	sb.WriteByte(' ')
	sb.WriteString(m.Action.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(m.X))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(m.Y))
	return sb.String()
}

// decodeMouseButton interprets the xterm button byte (already minus 32 for
// legacy encodings). release is set for SGR 'm' reports.
func decodeMouseButton(b int, release bool) Mouse {
	var m Mouse
	if b&4 != 0 {
		m.Mod |= ModShift
	}
	if b&8 != 0 {
		m.Mod |= ModAlt
	}
	if b&16 != 0 {
		m.Mod |= ModCtrl
	}
	motion := b&32 != 0

	if b&64 != 0 {
		switch b & 3 {
		case 0:
			m.Button = MouseBtnWheelUp
		case 1:
			m.Button = MouseBtnWheelDown
		case 2:
			m.Button = MouseBtnWheelLeft
		case 3:
			m.Button = MouseBtnWheelRight
		}
		m.Action = MouseActionPress
		return m
	}

	switch b & 3 {
	case 0:
		m.Button = MouseBtnLeft
	case 1:
		m.Button = MouseBtnMiddle
	case 2:
		m.Button = MouseBtnRight
	case 3:
		// Legacy release, or motion with no button held
		m.Button = MouseBtnNone
	}

	switch {
	case motion && m.Button == MouseBtnNone:
		m.Action = MouseActionMove
	case motion:
		m.Action = MouseActionDrag
	case release || m.Button == MouseBtnNone:
		m.Action = MouseActionRelease
	default:
		m.Action = MouseActionPress
	}
	return m
}
