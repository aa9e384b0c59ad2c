package transport

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// Telnet protocol bytes.
const (
	iacSE   byte = 240
	iacSB   byte = 250
	iacWILL byte = 251
	iacWONT byte = 252
	iacDO   byte = 253
	iacDONT byte = 254
	iacIAC  byte = 255

	optEcho byte = 1
)

const (
	defaultPoll     = 10 * time.Millisecond
	telnetReadChunk = 4096
)

type telnetState int

const (
	stateData telnetState = iota
	stateIAC
	stateOption
	stateSub
	stateSubIAC
)

// TelnetOptions tunes a telnet link.
type TelnetOptions struct {
	// Poll bounds how long PollByte waits for new bytes before reporting
	// that nothing is available.
	Poll time.Duration
	// KeyDelay is the minimum spacing between writes.
	KeyDelay time.Duration
}

// Telnet is the live console link. It answers option negotiation on its own
// and hands only data bytes to the caller.
type Telnet struct {
	conn  net.Conn
	poll  time.Duration
	pacer *Pacer

	buf []byte
	pos int

	state  telnetState
	verb   byte
	lastCR bool
}

// DialTelnet connects to addr within timeout.
func DialTelnet(addr string, timeout time.Duration, opts TelnetOptions) (*Telnet, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial console %s: %w", addr, err)
	}
	return NewTelnet(conn, opts), nil
}

// NewTelnet wraps an established connection.
func NewTelnet(conn net.Conn, opts TelnetOptions) *Telnet {
	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	return &Telnet{
		conn:  conn,
		poll:  poll,
		pacer: NewPacer(opts.KeyDelay),
		buf:   make([]byte, 0, telnetReadChunk),
	}
}

// PollByte returns the next data byte, filling the buffer with whatever
// arrives within the poll interval.
func (t *Telnet) PollByte() (byte, bool, error) {
	for {
		if t.pos >= len(t.buf) {
			ok, err := t.fill()
			if err != nil || !ok {
				return 0, false, err
			}
		}
		b := t.buf[t.pos]
		t.pos++
		if data, ok, err := t.consume(b); err != nil {
			return 0, false, err
		} else if ok {
			return data, true, nil
		}
	}
}

func (t *Telnet) fill() (bool, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(t.poll)); err != nil {
		return false, fmt.Errorf("set console deadline: %w", err)
	}
	t.buf = t.buf[:cap(t.buf)]
	n, err := t.conn.Read(t.buf)
	t.buf = t.buf[:n]
	t.pos = 0
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n > 0, nil
		}
		if n > 0 {
			return true, nil
		}
		return false, fmt.Errorf("read console: %w", err)
	}
	return n > 0, nil
}

// consume runs one byte through the telnet state machine and reports whether
// it is a data byte for the caller.
func (t *Telnet) consume(b byte) (byte, bool, error) {
	switch t.state {
	case stateIAC:
		t.state = stateData
		switch b {
		case iacIAC:
			return iacIAC, true, nil
		case iacWILL, iacWONT, iacDO, iacDONT:
			t.verb = b
			t.state = stateOption
		case iacSB:
			t.state = stateSub
		}
		return 0, false, nil
	case stateOption:
		t.state = stateData
		return 0, false, t.negotiate(t.verb, b)
	case stateSub:
		if b == iacIAC {
			t.state = stateSubIAC
		}
		return 0, false, nil
	case stateSubIAC:
		if b == iacSE {
			t.state = stateData
		} else {
			t.state = stateSub
		}
		return 0, false, nil
	}
	if b == iacIAC {
		t.state = stateIAC
		return 0, false, nil
	}
	wasCR := t.lastCR
	t.lastCR = b == '\r'
	if wasCR && b == 0 {
		return 0, false, nil
	}
	return b, true, nil
}

// negotiate accepts server echo and refuses everything else.
func (t *Telnet) negotiate(verb, opt byte) error {
	var reply byte
	switch {
	case verb == iacWILL && opt == optEcho:
		reply = iacDO
	case verb == iacDO || verb == iacDONT:
		reply = iacWONT
	default:
		reply = iacDONT
	}
	if _, err := t.conn.Write([]byte{iacIAC, reply, opt}); err != nil {
		return fmt.Errorf("telnet negotiation: %w", err)
	}
	return nil
}

// Write sends p, escaping IAC bytes.
func (t *Telnet) Write(p []byte) error {
	t.pacer.Wait()
	data := bytes.ReplaceAll(p, []byte{iacIAC}, []byte{iacIAC, iacIAC})
	if _, err := t.conn.Write(data); err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	return nil
}

// Close closes the connection.
func (t *Telnet) Close() error {
	return t.conn.Close()
}
