package vt

import (
	"strconv"
	"strings"
)

// Commands recognised by the screen. CSI commands carry the introducer.
const (
	CmdReset       = "c"
	CmdSGR         = "[m"
	CmdCursorPos   = "[H"
	CmdCursorUp    = "[A"
	CmdCursorDown  = "[B"
	CmdCursorRight = "[C"
	CmdCursorLeft  = "[D"
	CmdMargins     = "[r"
)

// Sequence is one decoded control sequence: a command of one or two symbols
// and its numeric parameters. The zero value is not a valid sequence.
type Sequence struct {
	command string
	params  []int
}

// NewSequence builds a sequence, copying params.
func NewSequence(command string, params ...int) Sequence {
	return Sequence{command: command, params: append([]int(nil), params...)}
}

// Command returns the command identifier, e.g. "[m" or "c".
func (s Sequence) Command() string {
	return s.command
}

// Params returns a copy of the parameter list.
func (s Sequence) Params() []int {
	return append([]int(nil), s.params...)
}

// Len reports the number of parameters.
func (s Sequence) Len() int {
	return len(s.params)
}

// Param returns parameter i, or 0 when it was not sent.
func (s Sequence) Param(i int) int {
	if i < 0 || i >= len(s.params) {
		return 0
	}
	return s.params[i]
}

// String renders the sequence the way it appeared on the wire, with ESC
// spelled out, e.g. "ESC [37;1m".
func (s Sequence) String() string {
	parts := make([]string, len(s.params))
	for i, p := range s.params {
		parts[i] = strconv.Itoa(p)
	}
	joined := strings.Join(parts, ";")
	if len(s.command) == 2 {
		return "ESC " + s.command[:1] + joined + s.command[1:]
	}
	return "ESC " + s.command + joined
}
