//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Attributes is a snapshot of a device's line discipline settings
type Attributes struct {
	termios unix.Termios
}

// Equal reports whether two snapshots carry identical settings
func (a Attributes) Equal(b Attributes) bool {
	return a.termios == b.termios
}

// IsRaw reports whether echo, canonical mode, signal keys and output
// post-processing are all disabled
func (a Attributes) IsRaw() bool {
	t := a.termios
	return t.Lflag&(unix.ECHO|unix.ICANON|unix.ISIG|unix.IEXTEN) == 0 &&
		t.Iflag&(unix.IXON|unix.ICRNL) == 0 &&
		t.Oflag&unix.OPOST == 0 &&
		t.Cflag&unix.CSIZE == unix.CS8
}

// Raw derives the raw-mode settings from a snapshot, the same transform as cfmakeraw(3)
func (a Attributes) Raw() Attributes {
	t := a.termios
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return Attributes{termios: t}
}

// ReadAttributes queries the current settings of dev
func ReadAttributes(dev *Device) (Attributes, error) {
	t, err := unix.IoctlGetTermios(dev.Fd(), ioctlReadTermios)
	if err != nil {
		return Attributes{}, fmt.Errorf("%w: %w", ErrAttributeQuery, err)
	}
	return Attributes{termios: *t}, nil
}

func writeAttributes(dev *Device, a Attributes) error {
	t := a.termios
	if err := unix.IoctlSetTermios(dev.Fd(), ioctlWriteTermios, &t); err != nil {
		return fmt.Errorf("%w: %w", ErrAttributeSet, err)
	}
	return nil
}

// RawSession owns a device between Begin and Restore. The attributes captured
// by Begin are written back exactly once, whichever exit path gets there first.
type RawSession struct {
	dev  *Device
	orig Attributes

	// Guarded by the owning goroutine; only Restore may run elsewhere
	raw bool

	restoreOnce sync.Once
	restored    atomic.Bool
}

// Begin captures the current attributes of dev. The device is not modified.
func Begin(dev *Device) (*RawSession, error) {
	orig, err := ReadAttributes(dev)
	if err != nil {
		return nil, err
	}
	return &RawSession{dev: dev, orig: orig}, nil
}

// Device returns the session's device
func (s *RawSession) Device() *Device {
	return s.dev
}

// Original returns the attributes captured by Begin
func (s *RawSession) Original() Attributes {
	return s.orig
}

// IsRaw reports whether the session currently holds the device in raw mode
func (s *RawSession) IsRaw() bool {
	return s.raw && !s.restored.Load()
}

// Activate applies raw mode. Calling it while already raw is a no-op.
// On failure the captured attributes are written back before returning.
func (s *RawSession) Activate() error {
	if s.restored.Load() {
		return ErrClosed
	}
	if s.raw {
		return nil
	}
	if err := writeAttributes(s.dev, s.orig.Raw()); err != nil {
		// Some drivers apply a subset before failing
		if rerr := writeAttributes(s.dev, s.orig); rerr != nil {
			slog.Debug("terminal rollback failed", "device", s.dev.Name(), "error", rerr)
		}
		return err
	}
	s.raw = true
	return nil
}

// Suspend writes the captured attributes back without ending the session.
// Calling it while not raw is a no-op.
func (s *RawSession) Suspend() error {
	if s.restored.Load() {
		return ErrClosed
	}
	if !s.raw {
		return nil
	}
	if err := writeAttributes(s.dev, s.orig); err != nil {
		return err
	}
	s.raw = false
	return nil
}

// Restore writes the captured attributes back and ends the session.
// Only the first call has an effect; failures are logged, never returned,
// so it is safe from deferred calls, panic handlers and signal goroutines.
func (s *RawSession) Restore() {
	s.restoreOnce.Do(func() {
		s.restored.Store(true)
		if err := writeAttributes(s.dev, s.orig); err != nil {
			slog.Debug("terminal restore failed", "device", s.dev.Name(), "error", err)
		}
	})
}

// Close restores the device and closes it
func (s *RawSession) Close() error {
	s.Restore()
	return s.dev.Close()
}

// Exec runs cmd with the original attributes in effect and re-enters raw mode
// afterwards if the session was raw. Unset stdio streams are bound to the device.
func (s *RawSession) Exec(cmd *exec.Cmd) error {
	wasRaw := s.raw
	if err := s.Suspend(); err != nil {
		return err
	}
	if cmd.Stdin == nil {
		cmd.Stdin = s.dev.f
	}
	if cmd.Stdout == nil {
		cmd.Stdout = s.dev.f
	}
	if cmd.Stderr == nil {
		cmd.Stderr = s.dev.f
	}
	runErr := cmd.Run()
	if wasRaw {
		if err := s.Activate(); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}
