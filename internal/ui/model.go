package ui

import (
	"errors"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ultimate-control/internal/logging/events"
	"github.com/atomicstack/ultimate-control/internal/nav"
	"github.com/atomicstack/ultimate-control/internal/screen"
	"github.com/atomicstack/ultimate-control/internal/theme"
)

const DefaultInterval = 200 * time.Millisecond

var styles = theme.Default()

// Console is the live device link the model mirrors. *nav.Navigator
// satisfies it.
type Console interface {
	Screen() *screen.Screen
	Drain() error
	Send(key nav.Key, count int) error
}

type tickMsg time.Time

type refreshMsg struct{}

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the console mirror.
type Model struct {
	console  Console
	title    string
	interval time.Duration
	keys     keyMap
	help     help.Model
	width    int
	height   int
	errMsg   string
	quitting bool

	handlers map[reflect.Type]msgHandler
}

// NewModel mirrors console, polling it every interval.
func NewModel(console Console, title string, interval time.Duration) *Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Model{
		console:  console,
		title:    title,
		interval: interval,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	m.registerHandlers()
	return m
}

// Run shows the console mirror until the user quits.
func Run(console Console, title string, interval time.Duration) error {
	program := tea.NewProgram(NewModel(console, title, interval), tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Sequence(refresh, m.tick())
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
		reflect.TypeOf(refreshMsg{}):        m.handleRefreshMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	return m.handlers[reflect.TypeOf(msg)]
}

func refresh() tea.Msg {
	return refreshMsg{}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) drain() {
	if err := m.console.Drain(); err != nil {
		events.Console.Error(err)
		m.errMsg = err.Error()
	}
}

func (m *Model) handleTickMsg(tea.Msg) tea.Cmd {
	if m.quitting {
		return nil
	}
	m.drain()
	return m.tick()
}

func (m *Model) handleRefreshMsg(tea.Msg) tea.Cmd {
	m.drain()
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	m.width, m.height = size.Width, size.Height
	m.help.Width = size.Width
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg := msg.(tea.KeyMsg)
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	k, ok := m.keys.deviceKey(keyMsg)
	if !ok {
		return nil
	}
	events.Console.Key(k.String())
	if err := m.console.Send(k, 1); err != nil {
		events.Console.Error(err)
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	return refresh
}
