// Package screen keeps an emulated text screen fed by decoded console tokens
// and answers the geometric queries menu extraction needs.
package screen

import "strings"

const (
	// DefaultColor is white, non-bright.
	DefaultColor = 7
	// Bright is the colour bit selecting the bright half of the palette.
	Bright = 8

	defaultMaxCols = 512
	defaultMaxRows = 512
)

// Cell is one character and its 4-bit colour index.
type Cell struct {
	Char  rune
	Color int
}

// Point is a column/row position.
type Point struct {
	X, Y int
}

// Screen is a growable grid of rows. Rows grow independently when written and
// only shrink on reset.
type Screen struct {
	rows  [][]Cell
	x, y  int
	color int

	maxCols int
	maxRows int
}

// Option configures a Screen.
type Option func(*Screen)

// WithLimit caps the grid size. Characters written outside the cap are
// dropped; the cursor still advances.
func WithLimit(cols, rows int) Option {
	return func(s *Screen) {
		s.maxCols = cols
		s.maxRows = rows
	}
}

// New returns an empty screen.
func New(opts ...Option) *Screen {
	s := &Screen{color: DefaultColor, maxCols: defaultMaxCols, maxRows: defaultMaxRows}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset clears the screen to its initial state. Limits are kept.
func (s *Screen) Reset() {
	s.rows = nil
	s.x, s.y = 0, 0
	s.color = DefaultColor
}

// Cursor returns the cursor column and row.
func (s *Screen) Cursor() (int, int) {
	return s.x, s.y
}

// Color returns the current write colour.
func (s *Screen) Color() int {
	return s.color
}

// Rows returns the number of rows created so far.
func (s *Screen) Rows() int {
	return len(s.rows)
}

// RowLen returns the number of cells in row y.
func (s *Screen) RowLen(y int) int {
	if y < 0 || y >= len(s.rows) {
		return 0
	}
	return len(s.rows[y])
}

// CellAt returns the cell at (x, y) if it exists.
func (s *Screen) CellAt(x, y int) (Cell, bool) {
	if y < 0 || y >= len(s.rows) || x < 0 || x >= len(s.rows[y]) {
		return Cell{}, false
	}
	return s.rows[y][x], true
}

// CharAt returns the character at (x, y), or a space outside the grid.
func (s *Screen) CharAt(x, y int) rune {
	c, ok := s.CellAt(x, y)
	if !ok {
		return ' '
	}
	return c.Char
}

// Line returns row y as text.
func (s *Screen) Line(y int) string {
	if y < 0 || y >= len(s.rows) {
		return ""
	}
	var b strings.Builder
	for _, c := range s.rows[y] {
		b.WriteRune(c.Char)
	}
	return b.String()
}

// Lines returns every row as text.
func (s *Screen) Lines() []string {
	out := make([]string, len(s.rows))
	for y := range s.rows {
		out[y] = s.Line(y)
	}
	return out
}

// put writes r at the cursor with the current colour and advances the cursor.
func (s *Screen) put(r rune) {
	defer func() { s.x++ }()
	if s.x >= s.maxCols || s.y >= s.maxRows {
		return
	}
	for len(s.rows) <= s.y {
		s.rows = append(s.rows, nil)
	}
	row := s.rows[s.y]
	for len(row) <= s.x {
		row = append(row, Cell{Char: ' ', Color: s.inherited(len(row), s.y)})
	}
	row[s.x] = Cell{Char: r, Color: s.color}
	s.rows[s.y] = row
}

// inherited returns the colour of the nearest cell above (x, y) in the same
// column, or DefaultColor.
func (s *Screen) inherited(x, y int) int {
	for above := y - 1; above >= 0; above-- {
		if x < len(s.rows[above]) {
			return s.rows[above][x].Color
		}
	}
	return DefaultColor
}
