package screen

import (
	"fmt"
	"strings"
)

// ColorNames are short labels for the sixteen colour indices.
var ColorNames = [16]string{
	"Blk", "Red", "Grn", "Yel", "Blu", "Mag", "Cya", "Gr1",
	"Gr2", "BrR", "BrG", "BrY", "BrB", "BrM", "BrC", "Wht",
}

// ColorName returns the label for a colour index.
func ColorName(color int) string {
	if color < 0 || color >= len(ColorNames) {
		return fmt.Sprintf("%3d", color)
	}
	return ColorNames[color]
}

// DominantColor returns the most frequent colour among all cells of row y,
// padding included; ties go to the lower index. It reports false when the row
// holds nothing but spaces.
func (s *Screen) DominantColor(y int) (int, bool) {
	if y < 0 || y >= len(s.rows) {
		return 0, false
	}
	var counts [16]int
	blank := true
	for _, c := range s.rows[y] {
		if c.Char != ' ' {
			blank = false
		}
		if c.Color >= 0 && c.Color < len(counts) {
			counts[c.Color]++
		}
	}
	if blank {
		return 0, false
	}
	best := 0
	for color, n := range counts {
		if n > counts[best] {
			best = color
		}
	}
	return best, true
}

// Dump renders the screen as plain text, each row prefixed with the name of
// its dominant colour.
func (s *Screen) Dump() string {
	var b strings.Builder
	for y := range s.rows {
		label := "n/a"
		if color, ok := s.DominantColor(y); ok {
			label = ColorName(color)
		}
		b.WriteString(label)
		b.WriteByte(' ')
		b.WriteString(strings.TrimRight(s.Line(y), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// Spans splits row y into runs of equal colour.
func (s *Screen) Spans(y int) []Word {
	if y < 0 || y >= len(s.rows) {
		return nil
	}
	var out []Word
	var text strings.Builder
	row := s.rows[y]
	for x, c := range row {
		if x > 0 && c.Color != row[x-1].Color {
			out = append(out, Word{Color: row[x-1].Color, Text: text.String()})
			text.Reset()
		}
		text.WriteRune(c.Char)
	}
	if len(row) > 0 {
		out = append(out, Word{Color: row[len(row)-1].Color, Text: text.String()})
	}
	return out
}
