//go:build unix

package terminal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
)

// readOutput reads exactly n bytes the terminal side wrote
func readOutput(t *testing.T, r io.Reader, n int) string {
	t.Helper()
	ch := make(chan string, 1)
	go func() {
		buf := make([]byte, n)
		k, _ := io.ReadFull(r, buf)
		ch <- string(buf[:k])
	}()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for %d bytes of output", n)
		return ""
	}
}

// attachPTY attaches a terminal to a fresh pty and returns a second handle
// on the same device for inspecting its attributes after Close
func attachPTY(t *testing.T, opts Options) (*os.File, *Terminal, *Device) {
	t.Helper()
	ptmx, dev := openPTY(t)
	probe, err := OpenDevice(dev.Name())
	if err != nil {
		t.Skipf("reopen %s: %v", dev.Name(), err)
	}
	t.Cleanup(func() { probe.Close() })

	term, err := Attach(dev, opts)
	if err != nil {
		t.Fatalf("Expected attach to succeed, got %v", err)
	}
	t.Cleanup(func() { term.Close() })
	return ptmx, term, probe
}

// TestAttachEntersRawMode verifies Attach activates and Close restores
func TestAttachEntersRawMode(t *testing.T) {
	_, term, probe := attachPTY(t, Options{})
	before := term.Session().Original()

	if !mustAttributes(t, probe).IsRaw() {
		t.Error("Expected raw mode while attached")
	}
	if err := term.Close(); err != nil {
		t.Fatalf("Expected clean close, got %v", err)
	}
	if !mustAttributes(t, probe).Equal(before) {
		t.Error("Expected original attributes after Close")
	}
	if err := term.Close(); err != nil {
		t.Errorf("Expected second Close to repeat the first result, got %v", err)
	}
}

// TestRunRestoresOnPanic verifies a panic propagates after the device is restored
func TestRunRestoresOnPanic(t *testing.T) {
	_, term, probe := attachPTY(t, Options{})
	before := term.Session().Original()

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("Expected panic \"boom\", got %v", r)
			}
		}()
		term.Run(func(*Terminal) error {
			panic("boom")
		})
	}()

	if !mustAttributes(t, probe).Equal(before) {
		t.Error("Expected original attributes after panic")
	}
}

// TestRunReturnsError verifies fn's error is returned and the device restored
func TestRunReturnsError(t *testing.T) {
	_, term, probe := attachPTY(t, Options{})
	before := term.Session().Original()
	wantErr := errors.New("quit")

	err := term.Run(func(*Terminal) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected %v, got %v", wantErr, err)
	}
	if !mustAttributes(t, probe).Equal(before) {
		t.Error("Expected original attributes after Run")
	}
}

// TestAttachNotTerminal verifies attach fails cleanly on a regular file
func TestAttachNotTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Attach(NewDevice(f), Options{})
	if !errors.Is(err, ErrAttributeQuery) {
		t.Errorf("Expected ErrAttributeQuery, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "not a terminal") {
		t.Errorf("Expected error to name the non-terminal device, got %v", err)
	}
	if err := f.Close(); err == nil {
		t.Error("Expected Attach to have closed the device")
	}
}

// TestMouseModeLifecycle verifies mouse reporting is enabled on attach and disabled on close
func TestMouseModeLifecycle(t *testing.T) {
	ptmx, term, _ := attachPTY(t, Options{MouseMode: MouseModeClick})

	enable := "\x1b[?1006h\x1b[?1000h"
	if got := readOutput(t, ptmx, len(enable)); got != enable {
		t.Errorf("Expected %q, got %q", enable, got)
	}

	if err := term.Close(); err != nil {
		t.Fatal(err)
	}
	disable := "\x1b[?1000l\x1b[?1006l\x1b[?25h"
	if got := readOutput(t, ptmx, len(disable)); got != disable {
		t.Errorf("Expected %q, got %q", disable, got)
	}
}

// TestTerminalEvents verifies input written to the pty is decoded
func TestTerminalEvents(t *testing.T) {
	ptmx, term, _ := attachPTY(t, Options{})

	if _, err := ptmx.Write([]byte("\x1b[1;5Cq\x1b[<0;3;4M")); err != nil {
		t.Fatal(err)
	}

	want := []Event{
		{Type: EventKey, Key: Named(KeyCtrlRight)},
		{Type: EventKey, Key: Char('q')},
		{Type: EventMouse, Mouse: Mouse{Button: MouseBtnLeft, Action: MouseActionPress, X: 2, Y: 3}},
	}
	i := 0
	for ev := range term.Events() {
		if ev.Type != want[i].Type || ev.Key != want[i].Key || ev.Mouse != want[i].Mouse {
			t.Errorf("Event %d: expected %v, got %v", i, want[i], ev)
		}
		i++
		if i == len(want) {
			break
		}
	}
}

// TestTerminalLoneEscape verifies a lone ESC on a real device resolves after the timeout
func TestTerminalLoneEscape(t *testing.T) {
	ptmx, term, _ := attachPTY(t, Options{EscapeTimeout: 20 * time.Millisecond})

	if _, err := ptmx.Write([]byte{0x1b}); err != nil {
		t.Fatal(err)
	}
	ev, ok := term.Decoder().Next()
	if !ok || ev.Key != Named(KeyEsc) {
		t.Errorf("Expected esc, got %v ok=%v", ev, ok)
	}
}

// TestTerminalRefresh verifies a refresh reaches the device with the probed geometry
func TestTerminalRefresh(t *testing.T) {
	ptmx, dev := openPTY(t)
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 2, Cols: 10}); err != nil {
		t.Skipf("setsize: %v", err)
	}
	term, err := Attach(dev, Options{NoBanner: true})
	if err != nil {
		t.Fatal(err)
	}
	defer term.Close()

	if g := term.Geometry(); g != (Geometry{Rows: 2, Cols: 10}) {
		t.Errorf("Expected 2x10, got %+v", g)
	}
	if err := term.Renderer().Refresh(); err != nil {
		t.Fatal(err)
	}
	want := "\x1b[?25l\x1b[H~\x1b[K\r\n~\x1b[K\x1b[H\x1b[?25h"
	if got := readOutput(t, ptmx, len(want)); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestWatchResize verifies SIGWINCH refreshes the cached geometry
func TestWatchResize(t *testing.T) {
	ptmx, term, _ := attachPTY(t, Options{})
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 20, Cols: 60}); err != nil {
		t.Skipf("setsize: %v", err)
	}
	term.Geometry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resized := make(chan Geometry, 1)
	term.WatchResize(ctx, func(g Geometry) {
		select {
		case resized <- g:
		default:
		}
	})

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 42, Cols: 90}); err != nil {
		t.Fatal(err)
	}
	syscall.Kill(os.Getpid(), syscall.SIGWINCH)

	select {
	case g := <-resized:
		if g != (Geometry{Rows: 42, Cols: 90}) {
			t.Errorf("Expected 42x90, got %+v", g)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for resize callback")
	}
	if g := term.Geometry(); g != (Geometry{Rows: 42, Cols: 90}) {
		t.Errorf("Expected cached 42x90, got %+v", g)
	}
}

// TestRestoreOnSignal verifies a termination signal restores the device before exiting
func TestRestoreOnSignal(t *testing.T) {
	_, term, probe := attachPTY(t, Options{})
	before := term.Session().Original()

	codes := make(chan int, 1)
	exit = func(code int) { codes <- code }
	defer func() { exit = os.Exit }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	term.RestoreOnSignal(ctx, syscall.SIGUSR1)
	syscall.Kill(os.Getpid(), syscall.SIGUSR1)

	select {
	case code := <-codes:
		if want := 128 + int(syscall.SIGUSR1); code != want {
			t.Errorf("Expected exit code %d, got %d", want, code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for signal handler")
	}
	if !mustAttributes(t, probe).Equal(before) {
		t.Error("Expected original attributes after signal")
	}
}

// TestGoHandlesCrash verifies a panicking goroutine restores the device and exits 1
func TestGoHandlesCrash(t *testing.T) {
	_, term, probe := attachPTY(t, Options{})
	before := term.Session().Original()

	codes := make(chan int, 1)
	exit = func(code int) { codes <- code }
	defer func() { exit = os.Exit }()

	term.Go(func() { panic("worker failed") })

	select {
	case code := <-codes:
		if code != 1 {
			t.Errorf("Expected exit code 1, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for crash handler")
	}
	if !mustAttributes(t, probe).Equal(before) {
		t.Error("Expected original attributes after crash")
	}
}
