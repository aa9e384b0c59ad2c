// Package nav drives the device menus over the console link. It keeps no
// record of where it is: every decision starts from a fresh parse of the
// emulated screen.
package nav

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/atomicstack/ultimate-control/internal/logging/events"
	"github.com/atomicstack/ultimate-control/internal/menu"
	"github.com/atomicstack/ultimate-control/internal/screen"
	"github.com/atomicstack/ultimate-control/internal/transport"
	"github.com/atomicstack/ultimate-control/internal/vt"
)

const (
	DefaultSettle       = 200 * time.Millisecond
	DefaultPoll         = 200 * time.Millisecond
	SettingsTimeout     = time.Second
	DefaultLeaveTimeout = 3 * time.Second
)

// bigMenuRegion is the full-screen listing below the title lines.
var bigMenuRegion = screen.Region{X1: 0, Y1: 2, X2: screen.ToEnd, Y2: 24}

var sleepFn = time.Sleep

// Options tunes a Navigator. Zero values pick the defaults.
type Options struct {
	Settle       time.Duration
	Poll         time.Duration
	LeaveTimeout time.Duration
	// Charset decodes 8-bit console bytes; nil means ISO-8859-1.
	Charset *charmap.Charmap
	// Session tags trace entries.
	Session string
}

// Navigator reads the console into an emulated screen and sends keys.
type Navigator struct {
	conn    transport.Conn
	dec     *vt.Decoder
	scr     *screen.Screen
	settle  time.Duration
	poll    time.Duration
	leave   time.Duration
	session string
}

// New wraps an open console link.
func New(conn transport.Conn, opts Options) *Navigator {
	n := &Navigator{
		conn:    conn,
		dec:     vt.NewDecoder(conn, vt.WithCharset(opts.Charset)),
		scr:     screen.New(),
		settle:  opts.Settle,
		poll:    opts.Poll,
		leave:   opts.LeaveTimeout,
		session: opts.Session,
	}
	if n.settle <= 0 {
		n.settle = DefaultSettle
	}
	if n.poll <= 0 {
		n.poll = DefaultPoll
	}
	if n.leave <= 0 {
		n.leave = DefaultLeaveTimeout
	}
	return n
}

// Screen exposes the emulated screen.
func (n *Navigator) Screen() *screen.Screen {
	return n.scr
}

// Refresh waits for the device to settle and applies everything it sent.
func (n *Navigator) Refresh() error {
	sleepFn(n.settle)
	return n.Drain()
}

// Drain applies whatever the device has sent so far without waiting.
func (n *Navigator) Drain() error {
	for {
		tok, err := n.dec.Next()
		if err != nil {
			return fmt.Errorf("decode console: %w", err)
		}
		if tok.Kind == vt.KindEnd {
			return nil
		}
		if err := n.scr.Apply(tok); err != nil {
			return fmt.Errorf("apply console output: %w", err)
		}
	}
}

// Send writes key count times as one burst.
func (n *Navigator) Send(key Key, count int) error {
	if count <= 0 {
		return nil
	}
	events.Nav.Keys(n.session, key.String(), count)
	if err := n.conn.Write([]byte(strings.Repeat(string(key), count))); err != nil {
		return fmt.Errorf("send %s: %w", key, err)
	}
	return nil
}

// BigMenu parses the full-screen listing as currently drawn.
func (n *Navigator) BigMenu() menu.Menu {
	m := menu.FromRows(n.scr.RowTokens(bigMenuRegion))
	events.Nav.Menu(n.session, "big", m.Labels(), m.Selected)
	return m
}

// SmallMenu parses the bordered menu as currently drawn, if there is one.
func (n *Navigator) SmallMenu() (menu.Menu, bool) {
	r, ok := n.scr.FindBorderedRectangle()
	if !ok {
		return menu.Menu{}, false
	}
	m := menu.FromRows(n.scr.RowTokens(r))
	events.Nav.Menu(n.session, "small", m.Labels(), m.Selected)
	return m, true
}

// Current returns the bordered menu when one is open, else the big menu.
func (n *Navigator) Current() (menu.Menu, bool) {
	if m, ok := n.SmallMenu(); ok {
		return m, true
	}
	return n.BigMenu(), false
}

// SelectByIndex moves to entry i of the visible menu and confirms it.
func (n *Navigator) SelectByIndex(i int, mode Confirm) error {
	if err := n.Refresh(); err != nil {
		return err
	}
	m, small := n.Current()
	if i < 0 || i >= m.Len() {
		return &IndexError{Index: i, Len: m.Len()}
	}
	events.Nav.Select(n.session, "", i)
	return n.moveTo(m, i, mode.key(small))
}

// SelectByOffset moves delta entries from the cursor and confirms.
func (n *Navigator) SelectByOffset(delta int, mode Confirm) error {
	small := false
	if mode == ConfirmAuto {
		if err := n.Refresh(); err != nil {
			return err
		}
		_, small = n.SmallMenu()
	}
	return n.moveBy(delta, mode.key(small))
}

// SelectByLabel finds label in the visible menu, moves to it and confirms.
func (n *Navigator) SelectByLabel(label string, mode Confirm) error {
	if err := n.Refresh(); err != nil {
		return err
	}
	m, small := n.Current()
	i, err := m.Lookup(label)
	if err != nil {
		return err
	}
	events.Nav.Select(n.session, label, i)
	return n.moveTo(m, i, mode.key(small))
}

// moveTo walks from the highlighted entry when exactly one is drawn, and
// from the top otherwise.
func (n *Navigator) moveTo(m menu.Menu, i int, confirm Key) error {
	if cur, ok := m.Current(); ok {
		return n.moveBy(i-cur, confirm)
	}
	if err := n.Send(KeyUp, resetPresses); err != nil {
		return err
	}
	if err := n.Send(KeyDown, i); err != nil {
		return err
	}
	if err := n.Send(confirm, 1); err != nil {
		return err
	}
	return n.Refresh()
}

func (n *Navigator) moveBy(delta int, confirm Key) error {
	var err error
	if delta < 0 {
		err = n.Send(KeyUp, -delta)
	} else {
		err = n.Send(KeyDown, delta)
	}
	if err != nil {
		return err
	}
	if err := n.Send(confirm, 1); err != nil {
		return err
	}
	return n.Refresh()
}

// WaitFor polls until cond holds on a fresh screen or timeout runs out.
func (n *Navigator) WaitFor(condition string, timeout time.Duration, cond func() bool) error {
	polls := 0
	for remaining := timeout; remaining >= 0; remaining -= n.poll {
		sleepFn(n.poll)
		polls++
		if err := n.Drain(); err != nil {
			return err
		}
		if cond() {
			events.Nav.Wait(n.session, condition, polls)
			return nil
		}
	}
	events.Nav.Timeout(n.session, condition, n.scr.Dump())
	return &TimeoutError{Condition: condition, Timeout: timeout, Polls: polls}
}

// WaitForSmallMenu waits for a bordered menu to appear.
func (n *Navigator) WaitForSmallMenu(timeout time.Duration) error {
	return n.WaitFor("small menu", timeout, n.hasSmallMenu)
}

// WaitForNoSmallMenu waits for every bordered menu to close.
func (n *Navigator) WaitForNoSmallMenu(timeout time.Duration) error {
	return n.WaitFor("no small menu", timeout, func() bool { return !n.hasSmallMenu() })
}

// WaitForDeviceOpen waits for a directory path on one of the bottom rows.
func (n *Navigator) WaitForDeviceOpen(timeout time.Duration) error {
	return n.WaitFor("device open", timeout, func() bool {
		return n.scr.CharAt(0, 24) == '/' || n.scr.CharAt(0, 23) == '/'
	})
}

func (n *Navigator) hasSmallMenu() bool {
	_, ok := n.scr.FindBorderedRectangle()
	return ok
}

// GoHome backs out of up to eight levels.
func (n *Navigator) GoHome() error {
	if err := n.Send(KeyAscend, homePresses); err != nil {
		return err
	}
	return n.Refresh()
}

// GoBack backs out of one level.
func (n *Navigator) GoBack() error {
	if err := n.Send(KeyAscend, 1); err != nil {
		return err
	}
	return n.Refresh()
}

// EnterSettings opens the settings menu.
func (n *Navigator) EnterSettings() error {
	if err := n.Send(KeySettings, 1); err != nil {
		return err
	}
	if err := n.WaitForSmallMenu(SettingsTimeout); err != nil {
		return err
	}
	return n.Refresh()
}

// LeaveSettings closes the settings menu.
func (n *Navigator) LeaveSettings() error {
	if err := n.Send(KeyLeaveSettings, 1); err != nil {
		return err
	}
	return n.WaitForNoSmallMenu(n.leave)
}

// Close unwinds any open menus. The link itself stays open.
func (n *Navigator) Close() error {
	return n.Send(KeyCancel, cancelPresses)
}
