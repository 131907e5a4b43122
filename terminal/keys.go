package terminal

import "unicode"

// KeyCode identifies a decoded key. Char, Alt and Ctrl carry their character
// in Key.Rune; KeyF carries its number in Key.Fn.
type KeyCode uint8

const (
	KeyNone KeyCode = iota
	KeyChar         // Printable character, also '\n' for Enter and '\t' for Tab
	KeyAlt          // Character typed with Alt (ESC prefix)
	KeyCtrl         // Ctrl+letter or Ctrl+'4'..'7'; Rune is lower-case
	KeyF            // Function key F1..F12
	KeyNull         // NUL byte, usually Ctrl+Space
	KeyEsc
	KeyBackspace
	KeyBackTab
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Arrow keys with exactly one modifier held
	KeyShiftUp
	KeyShiftDown
	KeyShiftLeft
	KeyShiftRight
	KeyAltUp
	KeyAltDown
	KeyAltLeft
	KeyAltRight
	KeyCtrlUp
	KeyCtrlDown
	KeyCtrlLeft
	KeyCtrlRight

	KeyCtrlHome
	KeyCtrlEnd
)

// Modifier is a set of held modifier keys, using the xterm bit layout
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl

	ModNone Modifier = 0
)

// Key is a decoded keypress. Keys are comparable with ==.
// Mod carries modifiers that no dedicated KeyCode covers, such as
// Ctrl+Shift+Up or Shift+F5.
type Key struct {
	Code KeyCode
	Rune rune
	Fn   uint8
	Mod  Modifier
}

// Char returns the key for a plain character
func Char(r rune) Key {
	return Key{Code: KeyChar, Rune: r}
}

// Alt returns the key for r typed with Alt held
func Alt(r rune) Key {
	return Key{Code: KeyAlt, Rune: r}
}

// Ctrl returns the key for r typed with Ctrl held
func Ctrl(r rune) Key {
	return Key{Code: KeyCtrl, Rune: unicode.ToLower(r)}
}

// FKey returns function key Fn
func FKey(n int) Key {
	return Key{Code: KeyF, Fn: uint8(n)}
}

// Named returns the key for a code without payload, such as KeyUp
func Named(code KeyCode) Key {
	return Key{Code: code}
}

type variantKey struct {
	base KeyCode
	mod  Modifier
}

// variants maps a base key plus a single modifier to its dedicated code
var variants = map[variantKey]KeyCode{
	{KeyUp, ModShift}:    KeyShiftUp,
	{KeyDown, ModShift}:  KeyShiftDown,
	{KeyLeft, ModShift}:  KeyShiftLeft,
	{KeyRight, ModShift}: KeyShiftRight,
	{KeyUp, ModAlt}:      KeyAltUp,
	{KeyDown, ModAlt}:    KeyAltDown,
	{KeyLeft, ModAlt}:    KeyAltLeft,
	{KeyRight, ModAlt}:   KeyAltRight,
	{KeyUp, ModCtrl}:     KeyCtrlUp,
	{KeyDown, ModCtrl}:   KeyCtrlDown,
	{KeyLeft, ModCtrl}:   KeyCtrlLeft,
	{KeyRight, ModCtrl}:  KeyCtrlRight,
	{KeyHome, ModCtrl}:   KeyCtrlHome,
	{KeyEnd, ModCtrl}:    KeyCtrlEnd,
}

// variantBase is the reverse of variants
var variantBase = func() map[KeyCode]variantKey {
	m := make(map[KeyCode]variantKey, len(variants))
	for vk, code := range variants {
		m[code] = vk
	}
	return m
}()

// split separates a key into its unmodified form and the full modifier set
func (k Key) split() (Key, Modifier) {
	switch k.Code {
	case KeyAlt:
		return Char(k.Rune), k.Mod | ModAlt
	case KeyCtrl:
		return Char(k.Rune), k.Mod | ModCtrl
	}
	if vk, ok := variantBase[k.Code]; ok {
		return Key{Code: vk.base}, k.Mod | vk.mod
	}
	mod := k.Mod
	k.Mod = ModNone
	return k, mod
}

// join applies mod to an unmodified key, preferring dedicated codes
func join(base Key, mod Modifier) Key {
	if base.Code == KeyChar {
		switch {
		case mod&ModCtrl != 0:
			k := Ctrl(base.Rune)
			k.Mod = mod &^ ModCtrl
			return k
		case mod&ModAlt != 0:
			k := Alt(base.Rune)
			k.Mod = mod &^ ModAlt
			return k
		}
		base.Mod = mod
		return base
	}
	if code, ok := variants[variantKey{base.Code, mod}]; ok {
		return Key{Code: code}
	}
	base.Mod = mod
	return base
}

// WithModifier returns k with mod added
func (k Key) WithModifier(mod Modifier) Key {
	base, held := k.split()
	return join(base, held|mod)
}

// Modifiers returns every modifier held for k, including the ones implied by
// its code
func (k Key) Modifiers() Modifier {
	_, mod := k.split()
	return mod
}
