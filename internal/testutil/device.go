package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// Node is an entry in a scripted device's menus. Children make it a device,
// directory or settings category; Actions make it a file with a context menu;
// Choices make it a setting whose Annotation holds the current value.
type Node struct {
	Label      string
	Annotation string
	Children   []*Node
	Actions    []string
	Choices    []string
}

type popupKind int

const (
	popupList popupKind = iota
	popupActions
	popupChoices
)

type popup struct {
	kind   popupKind
	owner  *Node
	items  []*Node
	cursor int
}

const (
	fakeWidth    = 40
	popupColumn  = 12
	popupRow     = 4
	labelWidth   = 20
	colorNormal  = 7
	colorBright  = 15
	colorNote    = 6
	colorNoteSel = 14
)

// Device is an in-memory console that renders its menus the way the real
// device does and reacts to the key sequences a navigator sends. It satisfies
// transport.Conn.
type Device struct {
	mu sync.Mutex

	roots    []*Node
	settings []*Node

	// HideCursor draws no highlighted entry.
	HideCursor bool
	// Frozen stops redraws after key presses.
	Frozen bool

	path    []*Node
	cursors []int
	popups  []*popup

	out    []byte
	pos    int
	closed bool

	keys      []string
	performed []string
}

// NewDevice returns a device listing roots on its home screen and settings
// behind the settings key.
func NewDevice(roots, settings []*Node) *Device {
	d := &Device{roots: roots, settings: settings, cursors: []int{0}}
	d.render()
	return d
}

// PollByte hands out the rendered output.
func (d *Device) PollByte() (byte, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos >= len(d.out) {
		d.out = d.out[:0]
		d.pos = 0
		return 0, false, nil
	}
	b := d.out[d.pos]
	d.pos++
	return b, true, nil
}

// Write interprets key sequences and redraws.
func (d *Device) Write(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("device closed")
	}
	for i := 0; i < len(p); {
		key, n := parseKey(p[i:])
		i += n
		d.keys = append(d.keys, key)
		d.press(key)
	}
	if !d.Frozen {
		d.render()
	}
	return nil
}

// Close marks the device closed.
func (d *Device) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Reopen accepts a new connection, which starts with a full redraw.
func (d *Device) Reopen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = false
	d.out, d.pos = d.out[:0], 0
	d.render()
}

// Closed reports whether Close was called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Keys returns the names of every key received.
func (d *Device) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.keys...)
}

// ResetKeys forgets received keys.
func (d *Device) ResetKeys() {
	d.mu.Lock()
	d.keys = nil
	d.mu.Unlock()
}

// Performed returns the file actions and setting changes carried out, as
// "Action /path" and "set Label=Value".
func (d *Device) Performed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.performed...)
}

// Path returns the open directory as a slash path, or "" on the home screen.
func (d *Device) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pathString()
}

// PopupDepth returns the number of open bordered menus.
func (d *Device) PopupDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.popups)
}

func parseKey(p []byte) (string, int) {
	if p[0] == '\r' {
		return "enter", 1
	}
	if p[0] != 0x1b || len(p) < 2 {
		return string(p[:1]), 1
	}
	switch p[1] {
	case ' ':
		return "leave", 2
	case 0x1b:
		return "cancel", 2
	case '[':
		j := 2
		for j < len(p) && (p[j] >= '0' && p[j] <= '9' || p[j] == ';') {
			j++
		}
		if j >= len(p) {
			return string(p), len(p)
		}
		seq := string(p[:j+1])
		switch seq {
		case "\x1b[A":
			return "up", j + 1
		case "\x1b[B":
			return "down", j + 1
		case "\x1b[C":
			return "right", j + 1
		case "\x1b[D":
			return "left", j + 1
		case "\x1b[12~":
			return "settings", j + 1
		}
		return seq, j + 1
	}
	return string(p[:2]), 2
}

func (d *Device) press(key string) {
	if len(d.popups) > 0 {
		d.pressPopup(key)
		return
	}
	items := d.listing()
	level := len(d.cursors) - 1
	switch key {
	case "up":
		d.cursors[level] = max(0, d.cursors[level]-1)
	case "down":
		d.cursors[level] = min(max(0, len(items)-1), d.cursors[level]+1)
	case "left":
		if len(d.path) > 0 {
			d.path = d.path[:len(d.path)-1]
			d.cursors = d.cursors[:len(d.cursors)-1]
		}
	case "right", "enter":
		if len(items) == 0 {
			return
		}
		node := items[d.cursors[level]]
		switch {
		case node.Children != nil:
			d.path = append(d.path, node)
			d.cursors = append(d.cursors, 0)
		case len(node.Actions) > 0:
			d.popups = append(d.popups, &popup{kind: popupActions, owner: node, items: labelsToNodes(node.Actions)})
		}
	case "settings":
		d.popups = append(d.popups, &popup{kind: popupList, items: d.settings})
	}
}

func (d *Device) pressPopup(key string) {
	top := d.popups[len(d.popups)-1]
	switch key {
	case "up":
		top.cursor = max(0, top.cursor-1)
	case "down":
		top.cursor = min(max(0, len(top.items)-1), top.cursor+1)
	case "left":
		d.popups = d.popups[:len(d.popups)-1]
	case "leave", "cancel":
		d.popups = nil
	case "right", "enter":
		if len(top.items) == 0 {
			return
		}
		node := top.items[top.cursor]
		switch top.kind {
		case popupActions:
			d.performed = append(d.performed, node.Label+" "+d.pathString()+top.owner.Label)
			d.popups = nil
		case popupChoices:
			top.owner.Annotation = node.Label
			d.performed = append(d.performed, "set "+top.owner.Label+"="+node.Label)
			d.popups = d.popups[:len(d.popups)-1]
		default:
			switch {
			case node.Children != nil:
				d.popups = append(d.popups, &popup{kind: popupList, items: node.Children})
			case len(node.Choices) > 0:
				d.popups = append(d.popups, &popup{kind: popupChoices, owner: node, items: labelsToNodes(node.Choices)})
			}
		}
	}
}

func labelsToNodes(labels []string) []*Node {
	out := make([]*Node, len(labels))
	for i, l := range labels {
		out[i] = &Node{Label: l}
	}
	return out
}

func (d *Device) listing() []*Node {
	if len(d.path) == 0 {
		return d.roots
	}
	return d.path[len(d.path)-1].Children
}

func (d *Device) pathString() string {
	if len(d.path) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('/')
	for _, n := range d.path {
		b.WriteString(n.Label)
		b.WriteByte('/')
	}
	return b.String()
}

func sgr(color int) string {
	s := fmt.Sprintf("\x1b[0;%d", 30+color&7)
	if color&8 != 0 {
		s += ";1"
	}
	return s + "m"
}

func cup(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row+1, col+1)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (d *Device) render() {
	var b strings.Builder
	b.WriteString("\x1bc")
	b.WriteString(sgr(colorNormal))
	b.WriteString(pad("*** FAKE ULTIMATE ***", fakeWidth))

	items := d.listing()
	cursor := d.cursors[len(d.cursors)-1]
	for i, n := range items {
		label, note := colorNormal, colorNote
		if i == cursor && !d.HideCursor {
			label, note = colorBright, colorNoteSel
		}
		b.WriteString(cup(2+i, 0))
		b.WriteString(sgr(label))
		b.WriteString(pad(" "+n.Label, labelWidth))
		if n.Annotation != "" {
			b.WriteString(sgr(note))
			b.WriteString(n.Annotation)
		}
	}
	if len(d.path) == 0 {
		b.WriteString(cup(2+len(items), 0))
		for i, w := range []string{" Free ", "12 ", "MB ", "-"} {
			if i%2 == 0 {
				b.WriteString(sgr(colorNormal))
			} else {
				b.WriteString(sgr(colorNote))
			}
			b.WriteString(w)
		}
		b.WriteString(cup(3+len(items), 0))
		b.WriteString(sgr(colorNormal))
		b.WriteString(" F2=Setup")
	} else {
		b.WriteString(cup(24, 0))
		b.WriteString(sgr(colorNormal))
		b.WriteString(d.pathString())
	}

	if len(d.popups) > 0 {
		d.renderPopup(&b, d.popups[len(d.popups)-1])
	}
	b.WriteString("\x1b[0m")
	d.out = append(d.out, b.String()...)
}

func (d *Device) renderPopup(b *strings.Builder, p *popup) {
	width := 4
	for _, n := range p.items {
		width = max(width, len(n.Label)+2)
	}
	b.WriteString(cup(popupRow, popupColumn))
	b.WriteString(sgr(colorNormal))
	b.WriteString("\x1b(0l" + strings.Repeat("q", width) + "k\x1b(B")
	for i, n := range p.items {
		color := colorNormal
		if i == p.cursor && !d.HideCursor {
			color = colorBright
		}
		b.WriteString(cup(popupRow+1+i, popupColumn))
		b.WriteString(sgr(colorNormal))
		b.WriteString("\x1b(0x\x1b(B")
		b.WriteString(sgr(color))
		b.WriteString(pad(" "+n.Label, width))
		b.WriteString(sgr(colorNormal))
		b.WriteString("\x1b(0x\x1b(B")
	}
	b.WriteString(cup(popupRow+1+len(p.items), popupColumn))
	b.WriteString("\x1b(0m" + strings.Repeat("q", width) + "j\x1b(B")
}
