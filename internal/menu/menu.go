// Package menu turns coloured screen words into menu entries.
package menu

import (
	"strings"

	"github.com/atomicstack/ultimate-control/internal/screen"
)

const (
	// SelectedColor marks the highlighted entry.
	SelectedColor = screen.DefaultColor | screen.Bright

	sentinelWords = 4
	sentinelText  = "-"
)

// Item is one menu entry.
type Item struct {
	Label      string
	Annotation string
}

// Menu is an ordered list of entries plus the indices drawn as selected.
type Menu struct {
	Items    []Item
	Selected []int
}

// FromRows builds a menu from row tokens. Extraction stops at the first empty
// row or at the end-of-list rule drawn under the device listing.
func FromRows(rows [][]screen.Word) Menu {
	var m Menu
	for _, row := range rows {
		if len(row) == 0 || isSentinel(row) {
			break
		}
		item := Item{Label: row[0].Text}
		if len(row) > 1 {
			item.Annotation = row[1].Text
		}
		for _, w := range row {
			if w.Color == SelectedColor {
				m.Selected = append(m.Selected, len(m.Items))
				break
			}
		}
		m.Items = append(m.Items, item)
	}
	return m
}

func isSentinel(row []screen.Word) bool {
	return len(row) == sentinelWords && row[sentinelWords-1].Text == sentinelText
}

// Len returns the number of entries.
func (m Menu) Len() int {
	return len(m.Items)
}

// Labels returns every label in display order.
func (m Menu) Labels() []string {
	out := make([]string, len(m.Items))
	for i, item := range m.Items {
		out[i] = item.Label
	}
	return out
}

// IsSelected reports whether entry i is drawn as selected.
func (m Menu) IsSelected(i int) bool {
	for _, s := range m.Selected {
		if s == i {
			return true
		}
	}
	return false
}

// Current returns the selected index when exactly one entry is selected.
func (m Menu) Current() (int, bool) {
	if len(m.Selected) != 1 {
		return 0, false
	}
	return m.Selected[0], true
}

// Index returns the position of the entry labelled exactly label.
func (m Menu) Index(label string) (int, bool) {
	for i, item := range m.Items {
		if item.Label == label {
			return i, true
		}
	}
	return 0, false
}

// IndexPrefix returns the first entry whose label starts with prefix.
func (m Menu) IndexPrefix(prefix string) (int, bool) {
	for i, item := range m.Items {
		if strings.HasPrefix(item.Label, prefix) {
			return i, true
		}
	}
	return 0, false
}

// Lookup is Index failing with a LookupError.
func (m Menu) Lookup(label string) (int, error) {
	if i, ok := m.Index(label); ok {
		return i, nil
	}
	return 0, newLookupError(label, m.Labels())
}
