//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DefaultDevicePath is the controlling terminal, used even when stdio is redirected
const DefaultDevicePath = "/dev/tty"

// Device is an open, readable and writable handle to a terminal.
// Read and Write go straight to the file descriptor so partial writes and
// EINTR are visible to callers instead of being hidden by the runtime poller.
type Device struct {
	f    *os.File
	fd   int
	name string
}

// OpenDevice opens path for reading and writing. An empty path opens the
// controlling terminal.
func OpenDevice(path string) (*Device, error) {
	if path == "" {
		path = DefaultDevicePath
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	return NewDevice(f), nil
}

// NewDevice wraps an already open file. The device takes ownership of f.
func NewDevice(f *os.File) *Device {
	// Fd switches the descriptor to blocking mode, which the raw read loop expects
	return &Device{f: f, fd: int(f.Fd()), name: f.Name()}
}

// Fd returns the underlying file descriptor
func (d *Device) Fd() int {
	return d.fd
}

// Name returns the path the device was opened with
func (d *Device) Name() string {
	return d.name
}

// IsTerminal reports whether the descriptor refers to a terminal
func (d *Device) IsTerminal() bool {
	return term.IsTerminal(d.fd)
}

// Read reads at most len(p) bytes. A closed peer (EIO on a hung up tty) is
// reported as io.EOF.
func (d *Device) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(d.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EIO:
			return 0, io.EOF
		case err != nil:
			return 0, err
		case n == 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// Write performs a single write(2). It may return fewer bytes than len(p)
// with a nil error; Renderer.Flush handles the remainder.
func (d *Device) Write(p []byte) (int, error) {
	n, err := unix.Write(d.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// WaitReadable blocks until input is pending or timeout elapses.
// A negative timeout waits indefinitely.
func (d *Device) WaitReadable(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
	deadline := time.Now().Add(timeout)
	for {
		ms := -1
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			ms = int((remaining + time.Millisecond - 1) / time.Millisecond)
		}
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return false, err
		}
		return n > 0, nil
	}
}

// Close closes the descriptor
func (d *Device) Close() error {
	return d.f.Close()
}
