package terminal

import (
	"io"
	"iter"
	"time"
)

const (
	// Time to wait for the rest of an escape sequence before deciding a lone
	// ESC was the Escape key
	escapeTimeout = 50 * time.Millisecond

	// Bytes requested per read
	readChunk = 256

	// Consecutive empty reads tolerated before the reader is considered stuck
	maxEmptyReads = 100
)

// readWaiter is implemented by readers that can report pending input without
// consuming it, such as *Device
type readWaiter interface {
	WaitReadable(timeout time.Duration) (bool, error)
}

// DecoderOption configures a Decoder
type DecoderOption func(*Decoder)

// WithEscapeTimeout sets how long an incomplete escape sequence may wait for
// its remaining bytes. Only readers that implement WaitReadable honor it.
func WithEscapeTimeout(d time.Duration) DecoderOption {
	return func(dec *Decoder) {
		if d > 0 {
			dec.escTimeout = d
		}
	}
}

// Decoder turns a byte stream into Events on demand. Bytes are only read
// when the pending buffer cannot produce a complete event, and bytes beyond
// the current event stay buffered for the next call.
type Decoder struct {
	r          io.Reader
	waiter     readWaiter
	escTimeout time.Duration

	pending []byte
	chunk   []byte

	// expired is set once the escape timeout elapsed for the pending prefix
	expired bool
	eof     bool
	err     error
}

// NewDecoder returns a decoder reading from r
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		r:          r,
		escTimeout: escapeTimeout,
		pending:    make([]byte, 0, readChunk),
		chunk:      make([]byte, readChunk),
	}
	if w, ok := r.(readWaiter); ok {
		d.waiter = w
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next event. It blocks until one is available and returns
// false once the reader is exhausted; Err then reports a read failure, if any.
func (d *Decoder) Next() (Event, bool) {
	for {
		if len(d.pending) > 0 {
			n, ev := decode(d.pending, d.eof || d.expired)
			if n > 0 {
				ev.Raw = append([]byte(nil), d.pending[:n]...)
				d.pending = d.pending[:copy(d.pending, d.pending[n:])]
				d.expired = false
				return ev, true
			}
		}
		if d.eof {
			return Event{}, false
		}

		// An incomplete sequence is pending; give the rest a bounded time to arrive
		if len(d.pending) > 0 && d.waiter != nil {
			ready, err := d.waiter.WaitReadable(d.escTimeout)
			if err == nil && !ready {
				d.expired = true
				continue
			}
		}
		d.fill()
	}
}

// fill performs one read into the pending buffer
func (d *Decoder) fill() {
	for empty := 0; ; empty++ {
		n, err := d.r.Read(d.chunk)
		if n > 0 {
			d.pending = append(d.pending, d.chunk[:n]...)
		}
		if err != nil {
			d.eof = true
			if err != io.EOF {
				d.err = err
			}
			return
		}
		if n > 0 {
			return
		}
		if empty >= maxEmptyReads {
			d.eof = true
			d.err = io.ErrNoProgress
			return
		}
	}
}

// Err returns the read error that ended the stream, or nil on a clean EOF
func (d *Decoder) Err() error {
	return d.err
}

// Buffered returns the number of bytes read but not yet decoded
func (d *Decoder) Buffered() int {
	return len(d.pending)
}

// Events returns an iterator over the remaining events. Breaking out of the
// loop leaves unconsumed input buffered for later calls.
func (d *Decoder) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := d.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}
