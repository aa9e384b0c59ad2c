package transport

import "bytes"

// Fixed replays a byte slice and records everything written to it. It backs
// deterministic decoder and navigator tests.
type Fixed struct {
	buf     []byte
	pos     int
	written bytes.Buffer
	closed  bool
}

// NewFixed returns a link that yields data once and then reports no data.
func NewFixed(data []byte) *Fixed {
	return &Fixed{buf: append([]byte(nil), data...)}
}

// PollByte returns the next replayed byte.
func (f *Fixed) PollByte() (byte, bool, error) {
	if f.pos >= len(f.buf) {
		return 0, false, nil
	}
	b := f.buf[f.pos]
	f.pos++
	return b, true, nil
}

// Feed appends more bytes to replay.
func (f *Fixed) Feed(data []byte) {
	f.buf = append(f.buf, data...)
}

// Write records p.
func (f *Fixed) Write(p []byte) error {
	f.written.Write(p)
	return nil
}

// Written returns everything written so far.
func (f *Fixed) Written() []byte {
	return append([]byte(nil), f.written.Bytes()...)
}

// Close marks the link closed.
func (f *Fixed) Close() error {
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *Fixed) Closed() bool {
	return f.closed
}
