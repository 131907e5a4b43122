// Package tcellkey converts decoded terminal input into tcell events, for
// hosts whose key handling is written against tcell.
package tcellkey

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/emv/terminal"
)

// namedKeys maps payload-free codes to tcell keys
var namedKeys = map[terminal.KeyCode]tcell.Key{
	terminal.KeyEsc:       tcell.KeyEscape,
	terminal.KeyBackspace: tcell.KeyBackspace,
	terminal.KeyBackTab:   tcell.KeyBacktab,
	terminal.KeyInsert:    tcell.KeyInsert,
	terminal.KeyDelete:    tcell.KeyDelete,
	terminal.KeyHome:      tcell.KeyHome,
	terminal.KeyEnd:       tcell.KeyEnd,
	terminal.KeyPageUp:    tcell.KeyPgUp,
	terminal.KeyPageDown:  tcell.KeyPgDn,
	terminal.KeyUp:        tcell.KeyUp,
	terminal.KeyDown:      tcell.KeyDown,
	terminal.KeyLeft:      tcell.KeyLeft,
	terminal.KeyRight:     tcell.KeyRight,
}

// ctrlSymbols maps Ctrl+'4'..'7' to their tcell names
var ctrlSymbols = map[rune]tcell.Key{
	'4': tcell.KeyCtrlBackslash,
	'5': tcell.KeyCtrlRightSq,
	'6': tcell.KeyCtrlCarat,
	'7': tcell.KeyCtrlUnderscore,
}

// Mod converts a modifier set
func Mod(m terminal.Modifier) tcell.ModMask {
	var mask tcell.ModMask
	if m&terminal.ModShift != 0 {
		mask |= tcell.ModShift
	}
	if m&terminal.ModAlt != 0 {
		mask |= tcell.ModAlt
	}
	if m&terminal.ModCtrl != 0 {
		mask |= tcell.ModCtrl
	}
	return mask
}

// Key converts a key press. The second result is false for KeyNone.
func Key(k terminal.Key) (*tcell.EventKey, bool) {
	base, mod := splitKey(k)
	mask := Mod(mod)

	switch base.Code {
	case terminal.KeyChar:
		switch base.Rune {
		case '\n':
			return tcell.NewEventKey(tcell.KeyEnter, '\r', mask), true
		case '\t':
			return tcell.NewEventKey(tcell.KeyTab, '\t', mask), true
		}
		if mod&terminal.ModCtrl != 0 {
			r := base.Rune
			if r >= 'a' && r <= 'z' {
				return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(r-'a'), r, mask), true
			}
			if key, ok := ctrlSymbols[r]; ok {
				return tcell.NewEventKey(key, r, mask), true
			}
		}
		return tcell.NewEventKey(tcell.KeyRune, base.Rune, mask), true

	case terminal.KeyF:
		if base.Fn < 1 || base.Fn > 12 {
			return nil, false
		}
		return tcell.NewEventKey(tcell.KeyF1+tcell.Key(base.Fn-1), 0, mask), true

	case terminal.KeyNull:
		return tcell.NewEventKey(tcell.KeyCtrlSpace, ' ', mask|tcell.ModCtrl), true
	}

	if key, ok := namedKeys[base.Code]; ok {
		return tcell.NewEventKey(key, 0, mask), true
	}
	return nil, false
}

// splitKey reduces k to an unmodified code plus the full modifier set,
// so arrow variants and Alt/Ctrl characters share the generic path
func splitKey(k terminal.Key) (terminal.Key, terminal.Modifier) {
	mod := k.Modifiers()
	switch k.Code {
	case terminal.KeyAlt, terminal.KeyCtrl:
		return terminal.Char(k.Rune), mod
	case terminal.KeyShiftUp, terminal.KeyAltUp, terminal.KeyCtrlUp:
		return terminal.Named(terminal.KeyUp), mod
	case terminal.KeyShiftDown, terminal.KeyAltDown, terminal.KeyCtrlDown:
		return terminal.Named(terminal.KeyDown), mod
	case terminal.KeyShiftLeft, terminal.KeyAltLeft, terminal.KeyCtrlLeft:
		return terminal.Named(terminal.KeyLeft), mod
	case terminal.KeyShiftRight, terminal.KeyAltRight, terminal.KeyCtrlRight:
		return terminal.Named(terminal.KeyRight), mod
	case terminal.KeyCtrlHome:
		return terminal.Named(terminal.KeyHome), mod
	case terminal.KeyCtrlEnd:
		return terminal.Named(terminal.KeyEnd), mod
	}
	k.Mod = terminal.ModNone
	return k, mod
}

// Button converts a mouse report into a tcell button mask. Releases and
// motion without a held button map to ButtonNone, matching tcell's own
// reporting.
func Button(m terminal.Mouse) tcell.ButtonMask {
	if m.Action == terminal.MouseActionRelease || m.Action == terminal.MouseActionMove {
		return tcell.ButtonNone
	}
	switch m.Button {
	case terminal.MouseBtnLeft:
		return tcell.Button1
	case terminal.MouseBtnRight:
		return tcell.Button2
	case terminal.MouseBtnMiddle:
		return tcell.Button3
	case terminal.MouseBtnWheelUp:
		return tcell.WheelUp
	case terminal.MouseBtnWheelDown:
		return tcell.WheelDown
	case terminal.MouseBtnWheelLeft:
		return tcell.WheelLeft
	case terminal.MouseBtnWheelRight:
		return tcell.WheelRight
	default:
		return tcell.ButtonNone
	}
}

// Mouse converts a mouse report
func Mouse(m terminal.Mouse) *tcell.EventMouse {
	return tcell.NewEventMouse(m.X, m.Y, Button(m), Mod(m.Mod))
}

// Event converts any decoded event. Unsupported input yields nil.
func Event(ev terminal.Event) tcell.Event {
	switch ev.Type {
	case terminal.EventKey:
		if k, ok := Key(ev.Key); ok {
			return k
		}
	case terminal.EventMouse:
		return Mouse(ev.Mouse)
	}
	return nil
}
