// Command input-test shows every decoded key and mouse event together with
// its raw bytes and tcell name. Drag the [X] with the left button; Ctrl+C or
// Ctrl+Q quits.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/emv/terminal"
	"github.com/lixenwraith/emv/terminal/tcellkey"
)

const maxLog = 10

type state struct {
	eventLog   []string
	objX, objY int // 1-based position of the draggable object
	dragging   bool
}

func (s *state) addLog(line string) {
	if len(s.eventLog) >= maxLog {
		copy(s.eventLog, s.eventLog[1:])
		s.eventLog = s.eventLog[:maxLog-1]
	}
	s.eventLog = append(s.eventLog, line)
}

func main() {
	opts := terminal.Options{
		NoBanner:  true,
		MouseMode: terminal.MouseModeClick | terminal.MouseModeDrag | terminal.MouseModeMotion,
	}
	err := terminal.Run(opts, func(t *terminal.Terminal) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		t.WatchResize(ctx, nil)

		g := t.Geometry()
		s := &state{objX: g.Cols / 2, objY: g.Rows / 2}

		if err := render(t, s); err != nil {
			return err
		}
		for ev := range t.Events() {
			if ev.Type == terminal.EventKey && (ev.Key == terminal.Ctrl('c') || ev.Key == terminal.Ctrl('q')) {
				t.Renderer().ClearScreen()
				return t.Renderer().Flush()
			}
			handle(t, s, ev)
			if err := render(t, s); err != nil {
				return err
			}
		}
		return t.Decoder().Err()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "input-test: %v\n", err)
		os.Exit(1)
	}
}

func handle(t *terminal.Terminal, s *state, ev terminal.Event) {
	s.addLog(formatEvent(ev))
	if ev.Type != terminal.EventMouse {
		return
	}

	m := ev.Mouse
	x, y := m.X+1, m.Y+1
	switch m.Action {
	case terminal.MouseActionPress:
		if m.Button == terminal.MouseBtnLeft && x >= s.objX && x < s.objX+3 && y == s.objY {
			s.dragging = true
		}
	case terminal.MouseActionRelease:
		s.dragging = false
	case terminal.MouseActionDrag:
		if s.dragging {
			g := t.Geometry()
			s.objX = min(max(x, 1), g.Cols-2)
			s.objY = min(max(y, 3), g.Rows-2)
		}
	}
}

func render(t *terminal.Terminal, s *state) error {
	r := t.Renderer()
	g := t.Geometry()

	r.HideCursor()
	r.ClearScreen()
	r.DrawText(1, "Input Test - press keys, move the mouse, drag the [X] - Ctrl+C to quit")
	r.DrawText(2, strings.Repeat("-", g.Cols))
	for i, line := range s.eventLog {
		if 3+i >= g.Rows-1 {
			break
		}
		r.DrawText(3+i, " "+line)
	}

	r.MoveCursor(s.objY, s.objX)
	if s.dragging {
		r.Write([]byte("\x1b[1m[X]\x1b[0m"))
	} else {
		r.Write([]byte("[X]"))
	}

	r.DrawText(g.Rows, fmt.Sprintf("Size: %dx%d | Object: (%d,%d) | Dragging: %v", g.Cols, g.Rows, s.objX, s.objY, s.dragging))
	r.ShowCursor()
	return r.Flush()
}

func formatEvent(ev terminal.Event) string {
	raw := fmt.Sprintf("%q", ev.Raw)
	switch tev := tcellkey.Event(ev).(type) {
	case *tcell.EventKey:
		return fmt.Sprintf("%-28s tcell=%-16s raw=%s", ev.String(), tev.Name(), raw)
	case *tcell.EventMouse:
		return fmt.Sprintf("%-28s buttons=%-5d raw=%s", ev.String(), tev.Buttons(), raw)
	default:
		return fmt.Sprintf("%-28s raw=%s", ev.String(), raw)
	}
}
