package screen

import (
	"strings"

	"github.com/atomicstack/ultimate-control/internal/vt"
)

// ToEnd leaves the far edge of a Region open.
const ToEnd = -1

// Region is a half-open rectangle: columns [X1, X2) and rows [Y1, Y2).
// X2 or Y2 set to ToEnd extends to the end of each row or of the screen.
type Region struct {
	X1, Y1 int
	X2, Y2 int
}

// Whole covers the entire screen.
var Whole = Region{X2: ToEnd, Y2: ToEnd}

// Word is a run of same-coloured text.
type Word struct {
	Color int
	Text  string
}

// RowTokens groups the text inside r into coloured words, one slice per row.
// A word ends where a non-space character changes colour. Words are trimmed
// and whitespace-only words dropped. Rows with no cells inside r are omitted.
func (s *Screen) RowTokens(r Region) [][]Word {
	y1 := max(0, r.Y1)
	y2 := len(s.rows)
	if r.Y2 != ToEnd && r.Y2 < y2 {
		y2 = r.Y2
	}
	x1 := max(0, r.X1)

	var out [][]Word
	for y := y1; y < y2; y++ {
		row := s.rows[y]
		x2 := len(row)
		if r.X2 != ToEnd && r.X2 < x2 {
			x2 = r.X2
		}
		if x1 >= x2 {
			continue
		}
		words := []Word{}
		color := row[x1].Color
		var text strings.Builder
		for x := x1; x < x2; x++ {
			c := row[x]
			if c.Char != ' ' && c.Color != color {
				words = appendWord(words, color, text.String())
				color = c.Color
				text.Reset()
			}
			text.WriteRune(c.Char)
		}
		out = append(out, appendWord(words, color, text.String()))
	}
	return out
}

func appendWord(words []Word, color int, text string) []Word {
	text = strings.TrimSpace(text)
	if text == "" {
		return words
	}
	return append(words, Word{Color: color, Text: text})
}

// FindAll returns every position holding r, in row-major order.
func (s *Screen) FindAll(r rune) []Point {
	var out []Point
	for y, row := range s.rows {
		for x, c := range row {
			if c.Char == r {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// FindBorderedRectangle locates the first box drawn with line glyphs and
// returns its interior: columns [X1, X2) and rows [Y1, Y2). Bottom-right
// corners are tried in row-major order, each against every top-left corner.
func (s *Screen) FindBorderedRectangle() (Region, bool) {
	topLefts := s.FindAll(vt.GlyphTopLeft)
	for _, br := range s.FindAll(vt.GlyphBottomRight) {
		for _, tl := range topLefts {
			if s.isBox(tl, br) {
				return Region{X1: tl.X + 1, Y1: tl.Y + 1, X2: br.X, Y2: br.Y}, true
			}
		}
	}
	return Region{}, false
}

func (s *Screen) isBox(tl, br Point) bool {
	if tl.X >= br.X || tl.Y >= br.Y {
		return false
	}
	if s.CharAt(tl.X, br.Y) != vt.GlyphBottomLeft || s.CharAt(br.X, tl.Y) != vt.GlyphTopRight {
		return false
	}
	for x := tl.X + 1; x < br.X; x++ {
		if s.CharAt(x, tl.Y) != vt.GlyphHorizontal || s.CharAt(x, br.Y) != vt.GlyphHorizontal {
			return false
		}
	}
	for y := tl.Y + 1; y < br.Y; y++ {
		if s.CharAt(br.X, y) != vt.GlyphVertical {
			return false
		}
		// the left edge is occasionally drawn with a corner or dash glyph
		switch s.CharAt(tl.X, y) {
		case vt.GlyphVertical, vt.GlyphTopRight, vt.GlyphHorizontal:
		default:
			return false
		}
	}
	return true
}
