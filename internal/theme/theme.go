package theme

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header       *lipgloss.Style
	Footer       *lipgloss.Style
	Error        *lipgloss.Style
	Info         *lipgloss.Style
	Item         *lipgloss.Style
	SelectedItem *lipgloss.Style
	Annotation   *lipgloss.Style
	Directory    *lipgloss.Style
	Size         *lipgloss.Style
	Frame        *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Annotation: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
	),
	Directory: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Size: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Frame: ptr(
		lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
	),
}

// palette maps device colour indices onto ANSI colours 0-15; bit 3 selects
// the bright variant in both.
var palette = [16]*lipgloss.Style{}

func init() {
	for i := range palette {
		palette[i] = ptr(lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(i))))
	}
	palette[15] = ptr(palette[15].Bold(true))
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Color returns the style for a device colour index. Out-of-range indices
// fall back to plain white.
func Color(index int) *lipgloss.Style {
	if index < 0 || index >= len(palette) {
		return palette[7]
	}
	return palette[index]
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
