package screen

import (
	"fmt"

	"github.com/atomicstack/ultimate-control/internal/vt"
	"github.com/charmbracelet/x/ansi"
)

// Apply mutates the screen according to one decoded token.
func (s *Screen) Apply(t vt.Token) error {
	switch t.Kind {
	case vt.KindEnd:
		return nil
	case vt.KindChar:
		switch t.Char {
		case ansi.CR:
			s.x = 0
		case ansi.LF:
			// column is kept: the device always sends CR LF
			s.y++
		default:
			s.put(t.Char)
		}
		return nil
	case vt.KindSequence:
		return s.applySequence(t.Seq)
	default:
		return fmt.Errorf("unknown token kind %v", t.Kind)
	}
}

func (s *Screen) applySequence(seq vt.Sequence) error {
	switch seq.Command() {
	case vt.CmdReset:
		s.Reset()
	case vt.CmdSGR:
		return s.applyRendition(seq)
	case vt.CmdCursorPos:
		s.y = clamp(seq.Param(0) - 1)
		s.x = clamp(seq.Param(1) - 1)
	case vt.CmdCursorUp:
		s.y = clamp(s.y - step(seq))
	case vt.CmdCursorDown:
		s.y += step(seq)
	case vt.CmdCursorRight:
		s.x += step(seq)
	case vt.CmdCursorLeft:
		s.x = clamp(s.x - step(seq))
	case vt.CmdMargins:
		// scroll regions are not emulated
	default:
		return &vt.ProtocolError{Sequence: seq.String()}
	}
	return nil
}

func (s *Screen) applyRendition(seq vt.Sequence) error {
	for _, p := range seq.Params() {
		switch {
		case p == ansi.ResetAttr:
			s.color = DefaultColor
		case p >= ansi.BlackForegroundColorAttr && p <= ansi.WhiteForegroundColorAttr:
			s.color = s.color&^7 | (p - ansi.BlackForegroundColorAttr)
		case p == ansi.BoldAttr:
			s.color |= Bright
		case p == ansi.FaintAttr:
			s.color &^= Bright
		case p >= ansi.BlackBackgroundColorAttr && p <= ansi.WhiteBackgroundColorAttr,
			p == ansi.ReverseAttr, p == ansi.NoReverseAttr:
			// background and reverse video are not tracked
		default:
			return &vt.ProtocolError{Sequence: seq.String(), Reason: fmt.Sprintf("unexpected SGR parameter %d", p)}
		}
	}
	return nil
}

func step(seq vt.Sequence) int {
	return max(1, seq.Param(0))
}

func clamp(v int) int {
	return max(0, v)
}
