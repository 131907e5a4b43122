//go:build unix

package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

// exit is replaced in tests
var exit = os.Exit

// EmergencyReset writes the sequences that undo mouse tracking, cursor
// hiding and styling. It does not touch line discipline settings.
func EmergencyReset(w io.Writer) {
	w.Write(seqMouseMotionOff)
	w.Write(seqMouseDragOff)
	w.Write(seqMouseClickOff)
	w.Write(seqMouseSGROff)
	w.Write(seqCursorShow)
	w.Write(seqResetStyle)
}

// emergencyRestore puts the device back into a usable state from any
// goroutine. Pending renderer output is abandoned.
func (t *Terminal) emergencyRestore() {
	EmergencyReset(t.session.Device())
	t.session.Restore()
}

// HandleCrash restores the terminal, prints the panic with its stack to
// stderr and exits with status 1. Deferred at the top of goroutines that
// must not leave the terminal in raw mode:
//
//	defer func() {
//		if r := recover(); r != nil {
//			t.HandleCrash(r)
//		}
//	}()
func (t *Terminal) HandleCrash(r any) {
	t.emergencyRestore()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	exit(1)
}

// Go runs fn on a new goroutine with crash handling
func (t *Terminal) Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.HandleCrash(r)
			}
		}()
		fn()
	}()
}

// RestoreOnSignal restores the terminal and exits with 128+signal when one
// of sigs arrives before ctx is done. With no sigs it watches SIGHUP, SIGINT,
// SIGQUIT and SIGTERM. Raw mode disables the keyboard signal keys, so this
// mostly matters for signals sent by other processes.
func (t *Terminal) RestoreOnSignal(ctx context.Context, sigs ...os.Signal) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM}
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-ctx.Done():
		case sig := <-sigCh:
			t.emergencyRestore()
			code := 1
			if s, ok := sig.(syscall.Signal); ok {
				code = 128 + int(s)
			}
			exit(code)
		}
	}()
}
