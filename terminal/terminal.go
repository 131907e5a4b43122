//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"
)

// Options configures Open and Attach. The zero value opens the controlling
// terminal with the default banner, escape timeout and 80x24 fallback.
type Options struct {
	// DevicePath overrides /dev/tty
	DevicePath string

	// Banner replaces DefaultBanner; set NoBanner to draw plain rows
	Banner   string
	NoBanner bool

	// EscapeTimeout overrides the 50ms lone-ESC window
	EscapeTimeout time.Duration

	// Fallback is used when the device cannot report its size
	Fallback Geometry

	// MouseMode enables mouse reporting for the session
	MouseMode MouseMode
}

// Terminal ties a raw session to its renderer, decoder and geometry probe.
// All methods except Close and the signal helpers belong to one goroutine.
type Terminal struct {
	session  *RawSession
	renderer *Renderer
	decoder  *Decoder
	probe    *GeometryProbe

	closeOnce sync.Once
	closeErr  error
}

// Open opens the configured device and enters raw mode
func Open(opts Options) (*Terminal, error) {
	dev, err := OpenDevice(opts.DevicePath)
	if err != nil {
		return nil, err
	}
	return Attach(dev, opts)
}

// Attach enters raw mode on an already open device. The terminal takes
// ownership of dev and closes it on failure.
func Attach(dev *Device, opts Options) (*Terminal, error) {
	if !dev.IsTerminal() {
		dev.Close()
		return nil, fmt.Errorf("%w: %s is not a terminal", ErrAttributeQuery, dev.Name())
	}
	session, err := Begin(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	if err := session.Activate(); err != nil {
		session.Close()
		return nil, err
	}

	probe := NewGeometryProbe(func() (Geometry, error) {
		return QueryGeometry(dev)
	}, opts.Fallback)

	t := &Terminal{
		session:  session,
		renderer: NewRenderer(dev, probe),
		decoder:  NewDecoder(dev, WithEscapeTimeout(opts.EscapeTimeout)),
		probe:    probe,
	}
	switch {
	case opts.NoBanner:
		t.renderer.SetBanner("")
	case opts.Banner != "":
		t.renderer.SetBanner(opts.Banner)
	}

	if opts.MouseMode != MouseModeNone {
		t.renderer.SetMouseMode(opts.MouseMode)
		if err := t.renderer.Flush(); err != nil {
			t.Close()
			return nil, err
		}
	}

	slog.Debug("terminal attached",
		"device", dev.Name(),
		"geometry", probe.Geometry(),
		"mouse", opts.MouseMode)
	return t, nil
}

// Run opens a terminal, calls fn and closes the terminal on every exit path.
// A panic in fn is re-raised after the device has been restored.
func Run(opts Options, fn func(*Terminal) error) error {
	t, err := Open(opts)
	if err != nil {
		return err
	}
	return t.Run(fn)
}

// Run calls fn and closes t afterwards, including when fn panics
func (t *Terminal) Run(fn func(*Terminal) error) (err error) {
	defer func() {
		r := recover()
		cerr := t.Close()
		if r != nil {
			panic(r)
		}
		err = errors.Join(err, cerr)
	}()
	return fn(t)
}

// Renderer returns the output buffer
func (t *Terminal) Renderer() *Renderer {
	return t.renderer
}

// Decoder returns the input decoder
func (t *Terminal) Decoder() *Decoder {
	return t.decoder
}

// Session returns the raw-mode session
func (t *Terminal) Session() *RawSession {
	return t.session
}

// Events iterates over decoded input until the device closes
func (t *Terminal) Events() iter.Seq[Event] {
	return t.decoder.Events()
}

// Geometry returns the cached window size
func (t *Terminal) Geometry() Geometry {
	return t.probe.Geometry()
}

// InvalidateGeometry forces the next Geometry call to query the device
func (t *Terminal) InvalidateGeometry() {
	t.probe.Invalidate()
}

// Close turns mouse reporting off, shows the cursor, flushes pending output,
// restores the original attributes and closes the device. Safe to call more
// than once; later calls return the first result.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		r := t.renderer
		if r.MouseMode() != MouseModeNone {
			r.SetMouseMode(MouseModeNone)
		}
		r.ShowCursor()
		flushErr := r.Flush()
		if flushErr != nil {
			r.Reset()
		}
		t.closeErr = errors.Join(flushErr, t.session.Close())
	})
	return t.closeErr
}
