package terminal

// tildeKeys maps the numeric parameter of CSI n ~ sequences
var tildeKeys = map[int]Key{
	1:  Named(KeyHome), // linux console, rxvt
	2:  Named(KeyInsert),
	3:  Named(KeyDelete),
	4:  Named(KeyEnd), // linux console
	5:  Named(KeyPageUp),
	6:  Named(KeyPageDown),
	7:  Named(KeyHome), // rxvt
	8:  Named(KeyEnd),  // rxvt
	11: FKey(1),
	12: FKey(2),
	13: FKey(3),
	14: FKey(4),
	15: FKey(5),
	17: FKey(6),
	18: FKey(7),
	19: FKey(8),
	20: FKey(9),
	21: FKey(10),
	23: FKey(11),
	24: FKey(12),
}

// rxvtArrows maps the lowercase finals rxvt uses for modified arrows:
// ESC [ a..d with Shift, ESC O a..d with Ctrl
var rxvtArrows = map[byte]Key{
	'a': Named(KeyUp),
	'b': Named(KeyDown),
	'c': Named(KeyRight),
	'd': Named(KeyLeft),
}

// rxvtSuffix maps the terminators of CSI n ~ style keys to the modifier they
// add. rxvt replaces '~' with '$', '^' or '@' instead of sending a parameter.
var rxvtSuffix = map[byte]Modifier{
	'~': ModNone,
	'$': ModShift,
	'^': ModCtrl,
	'@': ModCtrl | ModShift,
}

// xtermModifier decodes the second CSI parameter, 1 + bitmask of
// Shift(1) Alt(2) Ctrl(4) Meta(8). Meta is folded into Alt.
func xtermModifier(v int) (Modifier, bool) {
	if v <= 1 {
		return ModNone, true
	}
	bits := v - 1
	if bits > 15 {
		return ModNone, false
	}
	var mod Modifier
	if bits&1 != 0 {
		mod |= ModShift
	}
	if bits&(2|8) != 0 {
		mod |= ModAlt
	}
	if bits&4 != 0 {
		mod |= ModCtrl
	}
	return mod, true
}

// lookupCSI resolves a CSI key sequence from its parsed parameters and final byte
func lookupCSI(p []int, final byte) (Key, bool) {
	if len(p) > 2 {
		return Key{}, false
	}
	mod := ModNone
	if len(p) == 2 {
		m, ok := xtermModifier(p[1])
		if !ok {
			return Key{}, false
		}
		mod = m
	}

	switch final {
	case '~', '$', '^', '@':
		if len(p) == 0 || (final != '~' && len(p) != 1) {
			return Key{}, false
		}
		k, ok := tildeKeys[p[0]]
		if !ok {
			return Key{}, false
		}
		return k.WithModifier(mod | rxvtSuffix[final]), true

	case 'a', 'b', 'c', 'd':
		if len(p) != 0 {
			return Key{}, false
		}
		return rxvtArrows[final].WithModifier(ModShift), true

	case 'Z':
		if len(p) != 0 {
			return Key{}, false
		}
		return Named(KeyBackTab), true
	}

	// CSI A..D, H, F and P..S take no leading parameter other than 1
	k, ok := ss3Keys[final]
	if !ok || (len(p) > 0 && p[0] > 1) {
		return Key{}, false
	}
	return k.WithModifier(mod), true
}
