package terminal

import "unicode/utf8"

// Longest control sequence accepted before the bytes are reported as unsupported
const maxSequenceLen = 32

// decode parses one event from the front of data, which must be non-empty.
// It returns the number of bytes consumed, or 0 when data holds only the
// prefix of a longer sequence. With final set no more bytes will follow, so
// every prefix is resolved and the result is always positive.
func decode(data []byte, final bool) (int, Event) {
	b := data[0]
	switch {
	case b == 0x1b:
		return decodeEscape(data, final)
	case b < utf8.RuneSelf:
		return 1, keyEvent(decodeByte(b))
	default:
		return decodeUTF8(data, final)
	}
}

// decodeByte maps a single ASCII byte other than ESC
func decodeByte(b byte) Key {
	switch {
	case b == 0x00:
		return Named(KeyNull)
	case b == '\r' || b == '\n':
		return Char('\n')
	case b == '\t':
		return Char('\t')
	case b == 0x7f || b == 0x08:
		return Named(KeyBackspace)
	case b >= 0x01 && b <= 0x1a:
		return Ctrl(rune('a' + b - 0x01))
	case b >= 0x1c && b <= 0x1f:
		return Ctrl(rune('4' + b - 0x1c))
	default:
		return Char(rune(b))
	}
}

// decodeUTF8 decodes a multi-byte character. Invalid lead or continuation
// bytes are reported one at a time as unsupported.
func decodeUTF8(data []byte, final bool) (int, Event) {
	if !utf8.FullRune(data) && !final {
		return 0, Event{}
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size <= 1 {
		return 1, unsupportedEvent()
	}
	return size, keyEvent(Char(r))
}

// decodeEscape handles everything starting with ESC
func decodeEscape(data []byte, final bool) (int, Event) {
	if len(data) == 1 {
		if final {
			return 1, keyEvent(Named(KeyEsc))
		}
		return 0, Event{}
	}

	c := data[1]
	switch {
	case c == '[':
		return decodeCSI(data, final)
	case c == 'O':
		return decodeSS3(data, final)
	case c == 0x1b:
		// The second ESC starts its own event
		return 1, keyEvent(Named(KeyEsc))
	case c >= utf8.RuneSelf:
		if !utf8.FullRune(data[1:]) && !final {
			return 0, Event{}
		}
		r, size := utf8.DecodeRune(data[1:])
		if r == utf8.RuneError && size <= 1 {
			return 1, keyEvent(Named(KeyEsc))
		}
		return 1 + size, keyEvent(Alt(r))
	default:
		return 2, keyEvent(decodeByte(c).WithModifier(ModAlt))
	}
}

// ss3Keys maps the final byte shared by SS3 and parameterless CSI forms
var ss3Keys = map[byte]Key{
	'A': Named(KeyUp),
	'B': Named(KeyDown),
	'C': Named(KeyRight),
	'D': Named(KeyLeft),
	'H': Named(KeyHome),
	'F': Named(KeyEnd),
	'P': FKey(1),
	'Q': FKey(2),
	'R': FKey(3),
	'S': FKey(4),
}

// decodeSS3 handles ESC O x and the parameterised ESC O 5 P / ESC O 1;5P
// forms some terminals send for modified keys
func decodeSS3(data []byte, final bool) (int, Event) {
	if len(data) < 3 {
		if final {
			return 2, keyEvent(Alt('O'))
		}
		return 0, Event{}
	}

	c := data[2]
	switch {
	case c < 0x20 || c >= 0x7f:
		// Not a sequence byte; leave it for the next event
		return 2, keyEvent(Alt('O'))
	case c >= 0x30 && c <= 0x3f:
		n, ok := frameSequence(data, final)
		switch {
		case n == 0:
			return 0, Event{}
		case !ok:
			return n, unsupportedEvent()
		}
		return n, ss3Event(data[2:n-1], data[n-1])
	}

	if k, ok := ss3Keys[c]; ok {
		return 3, keyEvent(k)
	}
	if k, ok := rxvtArrows[c]; ok {
		return 3, keyEvent(k.WithModifier(ModCtrl))
	}
	return 3, unsupportedEvent()
}

// ss3Event resolves an SS3 sequence carrying a modifier parameter
func ss3Event(params []byte, final byte) Event {
	k, ok := ss3Keys[final]
	if !ok {
		return unsupportedEvent()
	}
	p, ok := parseParams(params)
	if !ok || len(p) == 0 || len(p) > 2 || (len(p) == 2 && p[0] > 1) {
		return unsupportedEvent()
	}
	mod, ok := xtermModifier(p[len(p)-1])
	if !ok {
		return unsupportedEvent()
	}
	return keyEvent(k.WithModifier(mod))
}

// decodeCSI handles ESC [ ...
func decodeCSI(data []byte, final bool) (int, Event) {
	if len(data) < 3 {
		if final {
			return 2, keyEvent(Alt('['))
		}
		return 0, Event{}
	}

	switch data[2] {
	case '<':
		return decodeSGRMouse(data, final)
	case 'M':
		return decodeX10Mouse(data, final)
	case '[':
		return decodeLinuxFn(data, final)
	}

	n, ok := frameSequence(data, final)
	switch {
	case n == 0:
		return 0, Event{}
	case !ok:
		return n, unsupportedEvent()
	}
	return n, csiEvent(data[2:n-1], data[n-1])
}

// frameSequence scans the parameter and intermediate bytes that follow a
// two byte introducer. When ok is set, data[:n] is a complete sequence whose
// last byte is the final byte. Otherwise n bytes form an unsupported prefix,
// or n is 0 and more input is needed.
//
// rxvt terminates shifted keys with '$' (ESC [ 2 $), which is otherwise an
// intermediate byte; it is accepted as final directly after digits.
func frameSequence(data []byte, final bool) (n int, ok bool) {
	i := 2
	for ; i < len(data) && i < maxSequenceLen; i++ {
		c := data[i]
		switch {
		case c >= 0x40 && c <= 0x7e:
			return i + 1, true
		case c == '$' && i > 2 && allDigits(data[2:i]):
			return i + 1, true
		case c >= 0x20 && c <= 0x3f:
			// Parameter or intermediate byte
		default:
			return i, false
		}
	}
	if i >= maxSequenceLen || final {
		return i, false
	}
	return 0, false
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// csiEvent resolves a complete CSI sequence given its parameter bytes and final byte
func csiEvent(params []byte, final byte) Event {
	p, ok := parseParams(params)
	if !ok {
		return unsupportedEvent()
	}

	// rxvt mouse: CSI Cb ; Cx ; Cy M
	if final == 'M' && len(p) == 3 {
		m := decodeMouseButton(p[0]-32, false)
		m.X, m.Y = p[1]-1, p[2]-1
		return mouseEvent(m)
	}

	if k, ok := lookupCSI(p, final); ok {
		return keyEvent(k)
	}
	return unsupportedEvent()
}

// decodeLinuxFn handles the linux console ESC [ [ A..E function keys
func decodeLinuxFn(data []byte, final bool) (int, Event) {
	if len(data) < 4 {
		if final {
			return len(data), unsupportedEvent()
		}
		return 0, Event{}
	}
	if c := data[3]; c >= 'A' && c <= 'E' {
		return 4, keyEvent(FKey(int(c-'A') + 1))
	}
	return 4, unsupportedEvent()
}

// decodeX10Mouse handles ESC [ M Cb Cx Cy, each offset by 32
func decodeX10Mouse(data []byte, final bool) (int, Event) {
	if len(data) < 6 {
		if final {
			return len(data), unsupportedEvent()
		}
		return 0, Event{}
	}
	m := decodeMouseButton(int(data[3])-32, false)
	m.X = int(data[4]) - 32 - 1
	m.Y = int(data[5]) - 32 - 1
	return 6, mouseEvent(m)
}

// decodeSGRMouse handles ESC [ < Cb ; Cx ; Cy (M|m)
func decodeSGRMouse(data []byte, final bool) (int, Event) {
	i := 3
	for ; i < len(data) && i < maxSequenceLen; i++ {
		c := data[i]
		switch {
		case c == 'M' || c == 'm':
			p, ok := parseParams(data[3:i])
			if !ok || len(p) != 3 {
				return i + 1, unsupportedEvent()
			}
			m := decodeMouseButton(p[0], c == 'm')
			m.X, m.Y = p[1]-1, p[2]-1
			return i + 1, mouseEvent(m)
		case c >= '0' && c <= '9', c == ';':
		default:
			return i, unsupportedEvent()
		}
	}
	if i >= maxSequenceLen || final {
		return i, unsupportedEvent()
	}
	return 0, Event{}
}

// parseParams splits semicolon separated decimal parameters. Empty fields
// are zero. Any other byte (private markers, intermediates) rejects the set.
func parseParams(b []byte) ([]int, bool) {
	if len(b) == 0 {
		return nil, true
	}
	params := make([]int, 1, 4)
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			last := &params[len(params)-1]
			if *last < 1<<20 {
				*last = *last*10 + int(c-'0')
			}
		case c == ';':
			params = append(params, 0)
		default:
			return nil, false
		}
	}
	return params, true
}
