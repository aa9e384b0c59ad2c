package nav

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/ultimate-control/internal/menu"
	"github.com/atomicstack/ultimate-control/internal/testutil"
	"github.com/atomicstack/ultimate-control/internal/transport"
)

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleepFn
	sleepFn = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFn = orig })
	return &slept
}

func sampleDevice() *testutil.Device {
	roots := []*testutil.Node{
		{Label: "SD", Annotation: "Ready", Children: []*testutil.Node{}},
		{Label: "Usb0", Annotation: "Ready", Children: []*testutil.Node{
			{Label: "Games", Annotation: "DIR", Children: []*testutil.Node{
				{Label: "game.prg", Annotation: "PRG", Actions: []string{"Run", "Load", "Mount disk"}},
				{Label: "disk.d64", Annotation: "D64", Actions: []string{"Run", "Mount disk"}},
			}},
			{Label: "readme.txt", Annotation: "TXT", Actions: []string{"View"}},
		}},
		{Label: "Usb1", Annotation: "No media", Children: []*testutil.Node{}},
	}
	settings := []*testutil.Node{
		{Label: "Audio settings", Children: []*testutil.Node{}},
		{Label: "C64 and cartridge settings", Children: []*testutil.Node{
			{Label: "RAM Expansion Unit", Annotation: "Disabled", Choices: []string{"Disabled", "Enabled"}},
			{Label: "REU Size", Annotation: "512 KB", Choices: []string{"128 KB", "256 KB", "512 KB", "1 MB", "16 MB"}},
		}},
	}
	return testutil.NewDevice(roots, settings)
}

func newNavigator(t *testing.T, dev *testutil.Device) *Navigator {
	t.Helper()
	n := New(dev, Options{Session: "test"})
	if err := n.Refresh(); err != nil {
		t.Fatalf("initial refresh failed: %v", err)
	}
	return n
}

func TestBigMenuStopsAtSentinel(t *testing.T) {
	stubSleep(t)
	n := newNavigator(t, sampleDevice())
	m := n.BigMenu()
	if !reflect.DeepEqual(m.Labels(), []string{"SD", "Usb0", "Usb1"}) {
		t.Fatalf("expected device labels, got %v", m.Labels())
	}
	if m.Items[2].Annotation != "No media" {
		t.Fatalf("expected annotation, got %q", m.Items[2].Annotation)
	}
	if cur, ok := m.Current(); !ok || cur != 0 {
		t.Fatalf("expected first entry highlighted, got %d (%v)", cur, ok)
	}
	if _, ok := n.SmallMenu(); ok {
		t.Fatalf("expected no small menu on the home screen")
	}
}

func TestSelectByIndexDescendsRelativeToCursor(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := newNavigator(t, dev)
	if err := n.SelectByIndex(1, ConfirmDescend); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dev.Keys(); !reflect.DeepEqual(got, []string{"down", "right"}) {
		t.Fatalf("expected relative move, got %v", got)
	}
	if dev.Path() != "/Usb0/" {
		t.Fatalf("expected /Usb0/ open, got %q", dev.Path())
	}
	if err := n.WaitForDeviceOpen(time.Second); err != nil {
		t.Fatalf("expected device open, got %v", err)
	}
}

func TestSelectByIndexWithoutCursorResetsToTop(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	dev.HideCursor = true
	// drop the frame drawn before the cursor was hidden
	dev.Reopen()
	n := newNavigator(t, dev)
	if err := n.SelectByIndex(2, ConfirmAuto); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys := dev.Keys()
	if len(keys) != resetPresses+3 {
		t.Fatalf("expected %d keys, got %d", resetPresses+3, len(keys))
	}
	for _, k := range keys[:resetPresses] {
		if k != "up" {
			t.Fatalf("expected an up burst first, got %v", keys)
		}
	}
	if tail := keys[resetPresses:]; !reflect.DeepEqual(tail, []string{"down", "down", "right"}) {
		t.Fatalf("expected two downs and descend, got %v", tail)
	}
	if dev.Path() != "/Usb1/" {
		t.Fatalf("expected /Usb1/ open, got %q", dev.Path())
	}
}

func TestSelectByIndexOutOfRange(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := newNavigator(t, dev)
	for _, i := range []int{-3, 3} {
		err := n.SelectByIndex(i, ConfirmDescend)
		var ierr *IndexError
		if !errors.As(err, &ierr) {
			t.Fatalf("%d: expected IndexError, got %v", i, err)
		}
		if ierr.Index != i || ierr.Len != 3 {
			t.Fatalf("%d: expected index %d of 3, got %+v", i, i, ierr)
		}
	}
	if keys := dev.Keys(); len(keys) != 0 {
		t.Fatalf("expected no keys sent, got %v", keys)
	}
	if dev.Path() != "" {
		t.Fatalf("expected home screen untouched, got %q", dev.Path())
	}
}

func TestSelectByOffset(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := newNavigator(t, dev)
	if err := n.SelectByOffset(2, ConfirmDescend); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := n.GoBack(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dev.ResetKeys()
	if err := n.SelectByOffset(-1, ConfirmReturn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dev.Keys(); !reflect.DeepEqual(got, []string{"up", "enter"}) {
		t.Fatalf("expected up then enter, got %v", got)
	}
	if dev.Path() != "/Usb0/" {
		t.Fatalf("expected /Usb0/ open, got %q", dev.Path())
	}
}

func TestSelectByLabelOpensFileActions(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := newNavigator(t, dev)
	steps := []struct {
		label string
		mode  Confirm
	}{
		{"Usb0", ConfirmAuto},
		{"Games", ConfirmAuto},
		{"disk.d64", ConfirmReturn},
	}
	for _, step := range steps {
		if err := n.SelectByLabel(step.label, step.mode); err != nil {
			t.Fatalf("select %q: %v", step.label, err)
		}
	}
	if err := n.WaitForSmallMenu(time.Second); err != nil {
		t.Fatalf("expected action menu, got %v", err)
	}
	m, ok := n.SmallMenu()
	if !ok || !reflect.DeepEqual(m.Labels(), []string{"Run", "Mount disk"}) {
		t.Fatalf("expected action labels, got %v (%v)", m.Labels(), ok)
	}
	if err := n.SelectByLabel("Mount disk", ConfirmAuto); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dev.Performed(); !reflect.DeepEqual(got, []string{"Mount disk /Usb0/Games/disk.d64"}) {
		t.Fatalf("expected mount action, got %v", got)
	}
}

func TestSelectByLabelMissing(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := newNavigator(t, dev)
	err := n.SelectByLabel("Usb9", ConfirmAuto)
	var lerr *menu.LookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if !reflect.DeepEqual(lerr.Labels, []string{"SD", "Usb0", "Usb1"}) {
		t.Fatalf("expected visible labels, got %v", lerr.Labels)
	}
	if len(dev.Keys()) != 0 {
		t.Fatalf("expected no keys sent, got %v", dev.Keys())
	}
}

func TestWaitForSmallMenuTimesOut(t *testing.T) {
	slept := stubSleep(t)
	n := newNavigator(t, sampleDevice())
	*slept = nil
	err := n.WaitForSmallMenu(time.Second)
	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if terr.Polls != 6 || len(*slept) != 6 {
		t.Fatalf("expected 6 polls, got %d (slept %v)", terr.Polls, *slept)
	}
	for _, d := range *slept {
		if d != DefaultPoll {
			t.Fatalf("expected poll interval %s, got %s", DefaultPoll, d)
		}
	}
	if !strings.Contains(err.Error(), "small menu") {
		t.Fatalf("expected condition in message, got %q", err.Error())
	}
}

func TestWaitForDeviceOpenTimesOutOnHome(t *testing.T) {
	stubSleep(t)
	n := newNavigator(t, sampleDevice())
	var terr *TimeoutError
	if err := n.WaitForDeviceOpen(400 * time.Millisecond); !errors.As(err, &terr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := newNavigator(t, dev)
	if err := n.EnterSettings(); err != nil {
		t.Fatalf("enter settings: %v", err)
	}
	for _, label := range []string{"C64 and cartridge settings", "REU Size", "16 MB"} {
		if err := n.SelectByLabel(label, ConfirmReturn); err != nil {
			t.Fatalf("select %q: %v", label, err)
		}
	}
	if err := n.LeaveSettings(); err != nil {
		t.Fatalf("leave settings: %v", err)
	}
	if got := dev.Performed(); !reflect.DeepEqual(got, []string{"set REU Size=16 MB"}) {
		t.Fatalf("expected REU size change, got %v", got)
	}
	if dev.PopupDepth() != 0 {
		t.Fatalf("expected settings closed")
	}
}

func TestLeaveSettingsTimesOutWhenMenuStays(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := New(dev, Options{LeaveTimeout: 400 * time.Millisecond})
	if err := n.EnterSettings(); err != nil {
		t.Fatalf("enter settings: %v", err)
	}
	dev.Frozen = true
	var terr *TimeoutError
	if err := n.LeaveSettings(); !errors.As(err, &terr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestGoHomeAndClose(t *testing.T) {
	stubSleep(t)
	dev := sampleDevice()
	n := newNavigator(t, dev)
	if err := n.SelectByLabel("Usb0", ConfirmAuto); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dev.ResetKeys()
	if err := n.GoHome(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev.Path() != "" || len(dev.Keys()) != homePresses {
		t.Fatalf("expected home after %d lefts, got %q after %v", homePresses, dev.Path(), dev.Keys())
	}
	dev.ResetKeys()
	if err := n.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.Keys()) != cancelPresses {
		t.Fatalf("expected %d cancels, got %v", cancelPresses, dev.Keys())
	}
}

func TestRefreshSurfacesProtocolErrors(t *testing.T) {
	stubSleep(t)
	n := New(transport.NewFixed([]byte("ok\x1bZ")), Options{})
	if err := n.Refresh(); err == nil {
		t.Fatalf("expected protocol error")
	}
	if n.Screen().Line(0) != "ok" {
		t.Fatalf("expected text before the bad sequence applied, got %q", n.Screen().Line(0))
	}
}

func TestParseConfirm(t *testing.T) {
	for in, want := range map[string]Confirm{"": ConfirmAuto, "return": ConfirmReturn, "descend": ConfirmDescend} {
		got, ok := ParseConfirm(in)
		if !ok || got != want {
			t.Fatalf("%q: expected %v, got %v (%v)", in, want, got, ok)
		}
	}
	if _, ok := ParseConfirm("sideways"); ok {
		t.Fatalf("expected unknown mode to fail")
	}
}

func TestParseKey(t *testing.T) {
	for k, name := range keyNames {
		got, ok := ParseKey(name)
		if !ok || got != k {
			t.Fatalf("%s: expected %q, got %q", name, k, got)
		}
	}
	if _, ok := ParseKey("pgup"); ok {
		t.Fatalf("expected unknown key name to fail")
	}
}
