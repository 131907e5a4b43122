package terminal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// codeToName maps payload-free key codes to canonical config names
var codeToName = map[KeyCode]string{
	KeyNull:      "null",
	KeyEsc:       "esc",
	KeyBackspace: "backspace",
	KeyBackTab:   "backtab",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "page_up",
	KeyPageDown:  "page_down",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
}

// nameToKey is the reverse lookup, including aliases
var nameToKey = func() map[string]Key {
	m := make(map[string]Key, len(codeToName)+6)
	for code, name := range codeToName {
		m[name] = Named(code)
	}
	m["escape"] = Named(KeyEsc)
	m["pgup"] = Named(KeyPageUp)
	m["pgdn"] = Named(KeyPageDown)
	m["enter"] = Char('\n')
	m["tab"] = Char('\t')
	m["space"] = Char(' ')
	return m
}()

// modifierPrefixes lists name prefixes in canonical order
var modifierPrefixes = []struct {
	prefix string
	mod    Modifier
}{
	{"ctrl_", ModCtrl},
	{"alt_", ModAlt},
	{"shift_", ModShift},
}

func charName(r rune) string {
	switch r {
	case '\n':
		return "enter"
	case '\t':
		return "tab"
	case ' ':
		return "space"
	}
	return string(r)
}

// String returns the canonical name, e.g. "q", "ctrl_q", "alt_x", "f5",
// "ctrl_up" or "ctrl_shift_home". ParseKeyName accepts every such name.
func (k Key) String() string {
	base, mod := k.split()

	var sb strings.Builder
	for _, p := range modifierPrefixes {
		if mod&p.mod != 0 {
			sb.WriteString(p.prefix)
		}
	}

	switch base.Code {
	case KeyChar:
		sb.WriteString(charName(base.Rune))
	case KeyF:
		sb.WriteByte('f')
		sb.WriteString(strconv.Itoa(int(base.Fn)))
	default:
		name, ok := codeToName[base.Code]
		if !ok {
			name = "none"
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// ParseKeyName resolves a key name such as "q", "ctrl_q", "alt_enter",
// "f12" or "ctrl_right". Modifier prefixes may appear in any order.
// Single characters are case-sensitive; everything else is not.
func ParseKeyName(name string) (Key, error) {
	if name == "" {
		return Key{}, fmt.Errorf("empty key name")
	}

	rest := name
	var mod Modifier
	for {
		matched := false
		for _, p := range modifierPrefixes {
			if len(rest) > len(p.prefix) && strings.EqualFold(rest[:len(p.prefix)], p.prefix) {
				mod |= p.mod
				rest = rest[len(p.prefix):]
				matched = true
			}
		}
		if !matched {
			break
		}
	}

	base, err := parseBaseKey(rest)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: %w", name, err)
	}
	return join(base, mod), nil
}

func parseBaseKey(s string) (Key, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return Char(r), nil
	}

	lower := strings.ToLower(s)
	if k, ok := nameToKey[lower]; ok {
		return k, nil
	}
	if len(lower) > 1 && lower[0] == 'f' {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 12 {
			return FKey(n), nil
		}
	}
	return Key{}, fmt.Errorf("unknown key")
}
