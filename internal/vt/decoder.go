// Package vt decodes the VT100 subset emitted by the device console into
// characters and control sequences.
package vt

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/encoding/charmap"
)

// maxParam caps a numeric parameter so runaway digit strings cannot overflow.
const maxParam = 1 << 16

// Line-drawing glyphs produced while the special graphics set is selected.
const (
	GlyphBottomRight = '┘'
	GlyphTopRight    = '┐'
	GlyphTopLeft     = '┌'
	GlyphBottomLeft  = '└'
	GlyphCross       = '┼'
	GlyphHorizontal  = '─'
	GlyphTeeLeft     = '├'
	GlyphTeeRight    = '┤'
	GlyphTeeUp       = '┴'
	GlyphTeeDown     = '┬'
	GlyphVertical    = '│'
)

var lineDrawing = map[byte]rune{
	'j': GlyphBottomRight,
	'k': GlyphTopRight,
	'l': GlyphTopLeft,
	'm': GlyphBottomLeft,
	'n': GlyphCross,
	'q': GlyphHorizontal,
	't': GlyphTeeLeft,
	'u': GlyphTeeRight,
	'v': GlyphTeeUp,
	'w': GlyphTeeDown,
	'x': GlyphVertical,
}

// Source yields raw bytes from a device link. ok is false when no byte is
// available at the moment.
type Source interface {
	PollByte() (b byte, ok bool, err error)
}

// Decoder turns a byte source into tokens. The only state it carries between
// tokens is the selected character set.
//
// When the source runs dry in the middle of an escape sequence the bytes read
// so far are kept and replayed on the next call, so a sequence split across
// network reads decodes as one token.
type Decoder struct {
	src      Source
	charset  *charmap.Charmap
	lineDraw bool
	seq      []byte
	replay   []byte
}

// NewDecoder returns a decoder reading from src in the normal character set.
// Bytes outside the line-drawing set decode as ISO-8859-1 unless WithCharset
// picks another table.
func NewDecoder(src Source, opts ...Option) *Decoder {
	d := &Decoder{src: src, charset: charmap.ISO8859_1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LineDrawing reports whether the special graphics set is selected.
func (d *Decoder) LineDrawing() bool {
	return d.lineDraw
}

// Next returns the next token, or End when no byte is currently available.
func (d *Decoder) Next() (Token, error) {
	for {
		d.seq = d.seq[:0]
		b, ok, err := d.read()
		if err != nil {
			return End, err
		}
		if !ok {
			return End, nil
		}
		if b != ansi.ESC {
			return Char(d.glyph(b)), nil
		}
		tok, complete, err := d.escape()
		if err != nil {
			return End, err
		}
		if !complete {
			d.stash()
			return End, nil
		}
		if tok.Kind == KindEnd {
			// charset switch; it has no token of its own
			continue
		}
		return tok, nil
	}
}

func (d *Decoder) glyph(b byte) rune {
	if d.lineDraw {
		if r, ok := lineDrawing[b]; ok {
			return r
		}
	}
	if b < 0x80 {
		return rune(b)
	}
	return d.charset.DecodeByte(b)
}

func (d *Decoder) read() (byte, bool, error) {
	if len(d.replay) > 0 {
		b := d.replay[0]
		d.replay = d.replay[1:]
		d.seq = append(d.seq, b)
		return b, true, nil
	}
	b, ok, err := d.src.PollByte()
	if err != nil {
		return 0, false, fmt.Errorf("read console byte: %w", err)
	}
	if !ok {
		return 0, false, nil
	}
	d.seq = append(d.seq, b)
	return b, true, nil
}

func (d *Decoder) stash() {
	pending := make([]byte, 0, len(d.seq)+len(d.replay))
	pending = append(pending, d.seq...)
	d.replay = append(pending, d.replay...)
	d.seq = d.seq[:0]
}

func (d *Decoder) escape() (Token, bool, error) {
	b, ok, err := d.read()
	if err != nil || !ok {
		return End, false, err
	}
	switch b {
	case '[':
		return d.csi()
	case '(':
		set, ok, err := d.read()
		if err != nil || !ok {
			return End, false, err
		}
		switch set {
		case 'B':
			d.lineDraw = false
		case '0':
			d.lineDraw = true
		default:
			return End, false, &ProtocolError{Sequence: "ESC (" + string(rune(set))}
		}
		return End, true, nil
	case 'c':
		return Seq(NewSequence(CmdReset)), true, nil
	default:
		return End, false, &ProtocolError{Sequence: "ESC " + string(rune(b))}
	}
}

func (d *Decoder) csi() (Token, bool, error) {
	params := []int{0}
	for {
		b, ok, err := d.read()
		if err != nil || !ok {
			return End, false, err
		}
		switch {
		case b == ';' || b == ',':
			params = append(params, 0)
		case b >= '0' && b <= '9':
			last := len(params) - 1
			if params[last] < maxParam {
				params[last] = params[last]*10 + int(b-'0')
			}
		default:
			return Seq(Sequence{command: "[" + string(rune(b)), params: params}), true, nil
		}
	}
}
