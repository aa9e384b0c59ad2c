package ui

import (
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/ultimate-control/internal/theme"
)

const ellipsis = "…"

// View renders the mirrored screen and the status line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	if m.title != "" {
		b.WriteString(styles.Header.Render(m.clip(m.title)))
		b.WriteByte('\n')
	}
	b.WriteString(m.screenView())
	b.WriteByte('\n')
	if m.errMsg != "" {
		b.WriteString(styles.Error.Render(m.clip(m.errMsg)))
		b.WriteByte('\n')
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) screenView() string {
	scr := m.console.Screen()
	rows := scr.Rows()
	if m.height > 0 {
		// title, status and help lines
		rows = min(rows, max(0, m.height-3))
	}
	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		lines[y] = m.renderRow(y)
	}
	return styles.Frame.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderRow(y int) string {
	var b strings.Builder
	remaining := -1
	if m.width > 0 {
		// frame borders
		remaining = max(0, m.width-2)
	}
	for _, span := range m.console.Screen().Spans(y) {
		text := span.Text
		if remaining >= 0 {
			if remaining == 0 {
				break
			}
			if len([]rune(text)) > remaining {
				text = string([]rune(text)[:remaining])
			}
			remaining -= len([]rune(text))
		}
		b.WriteString(theme.Color(span.Color).Render(text))
	}
	return b.String()
}

func (m *Model) clip(s string) string {
	if m.width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(m.width), ellipsis)
}
