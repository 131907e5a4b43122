package terminal

import (
	"encoding/hex"
)

// EventType discriminates Event
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventUnsupported
)

// Event is one decoded input unit. Raw always holds the exact bytes the
// event was decoded from, so concatenating Raw across a stream reproduces
// the input.
type Event struct {
	Type  EventType
	Key   Key
	Mouse Mouse
	Raw   []byte
}

// String returns a short description for logs and diagnostics
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		return "key " + e.Key.String()
	case EventMouse:
		return "mouse " + e.Mouse.String()
	default:
		return "unsupported " + hex.EncodeToString(e.Raw)
	}
}

func keyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

func mouseEvent(m Mouse) Event {
	return Event{Type: EventMouse, Mouse: m}
}

func unsupportedEvent() Event {
	return Event{Type: EventUnsupported}
}
