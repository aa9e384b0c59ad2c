package ui

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ultimate-control/internal/nav"
	"github.com/atomicstack/ultimate-control/internal/testutil"
)

func newConsole(t *testing.T) (*Harness, *testutil.Device) {
	t.Helper()
	dev := testutil.NewDevice([]*testutil.Node{
		{Label: "SD Card", Annotation: "Ready", Children: []*testutil.Node{}},
		{Label: "Usb0 Drive", Annotation: "Ready", Children: []*testutil.Node{
			{Label: "game.prg", Annotation: "PRG", Actions: []string{"Run"}},
		}},
	}, nil)
	n := nav.New(dev, nav.Options{Session: "test"})
	return NewHarness(NewModel(n, "c64.local", time.Millisecond)), dev
}

func TestRefreshMirrorsScreen(t *testing.T) {
	h, _ := newConsole(t)
	h.Send(refreshMsg{})
	view := h.View()
	for _, want := range []string{"c64.local", "*** FAKE ULTIMATE ***", "Usb0 Drive", "F2=Setup"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestKeysAreForwardedToDevice(t *testing.T) {
	h, dev := newConsole(t)
	h.Send(refreshMsg{})
	h.Send(tea.KeyMsg{Type: tea.KeyDown})
	h.Send(tea.KeyMsg{Type: tea.KeyRight})
	if got := dev.Keys(); !reflect.DeepEqual(got, []string{"down", "right"}) {
		t.Fatalf("expected forwarded keys, got %v", got)
	}
	if dev.Path() != "/Usb0 Drive/" {
		t.Fatalf("expected device to open Usb0, got %q", dev.Path())
	}
	if view := h.View(); !strings.Contains(view, "/Usb0 Drive/") || !strings.Contains(view, "game.prg") {
		t.Fatalf("expected view to follow the device, got:\n%s", view)
	}
}

func TestSettingsKeys(t *testing.T) {
	h, dev := newConsole(t)
	h.Send(tea.KeyMsg{Type: tea.KeyF2})
	h.Send(tea.KeyMsg{Type: tea.KeyF3})
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if got := dev.Keys(); !reflect.DeepEqual(got, []string{"settings", "leave", "cancel"}) {
		t.Fatalf("expected settings keys, got %v", got)
	}
}

func TestUnboundKeysAreIgnored(t *testing.T) {
	h, dev := newConsole(t)
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if len(dev.Keys()) != 0 {
		t.Fatalf("expected no keys sent, got %v", dev.Keys())
	}
}

func TestHelpToggle(t *testing.T) {
	h, _ := newConsole(t)
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !h.Model().help.ShowAll {
		t.Fatalf("expected full help after ?")
	}
	if !strings.Contains(h.View(), "leave settings") {
		t.Fatalf("expected full help in view, got:\n%s", h.View())
	}
}

func TestQuit(t *testing.T) {
	h, _ := newConsole(t)
	_, cmd := h.Model().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
	if h.View() != "" {
		t.Fatalf("expected empty view after quit, got %q", h.View())
	}
}

func TestSendErrorIsShown(t *testing.T) {
	h, dev := newConsole(t)
	_ = dev.Close()
	h.Send(tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(h.View(), "device closed") {
		t.Fatalf("expected error in view, got:\n%s", h.View())
	}
}

func TestTickReschedules(t *testing.T) {
	h, _ := newConsole(t)
	_, cmd := h.Model().Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("expected next tick to be scheduled")
	}
	if !strings.Contains(h.View(), "Usb0 Drive") {
		t.Fatalf("expected tick to drain the console")
	}
}

func TestNarrowWindowClipsRows(t *testing.T) {
	h, _ := newConsole(t)
	h.Send(tea.WindowSizeMsg{Width: 12, Height: 10})
	h.Send(refreshMsg{})
	view := h.View()
	if !strings.Contains(view, "*** FAKE U") {
		t.Fatalf("expected clipped title row, got:\n%s", view)
	}
	if strings.Contains(view, "ULTIMATE") {
		t.Fatalf("expected row clipped to window width, got:\n%s", view)
	}
}
