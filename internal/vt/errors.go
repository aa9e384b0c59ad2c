package vt

import "fmt"

// ProtocolError reports a malformed or unsupported control sequence.
type ProtocolError struct {
	Sequence string
	Reason   string
}

func (e *ProtocolError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unsupported escape sequence: %s", e.Sequence)
	}
	return fmt.Sprintf("unsupported escape sequence %s: %s", e.Sequence, e.Reason)
}
