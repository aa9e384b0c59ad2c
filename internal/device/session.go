// Package device drives one Ultimate cartridge: menu actions over the console
// and file transfers over the bulk channel. Only one channel is open at a
// time; opening one closes the other.
package device

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atomicstack/ultimate-control/internal/logging/events"
	"github.com/atomicstack/ultimate-control/internal/menu"
	"github.com/atomicstack/ultimate-control/internal/nav"
	"github.com/atomicstack/ultimate-control/internal/transfer"
	"github.com/atomicstack/ultimate-control/internal/transport"
)

const (
	DefaultConsolePort  = 23
	DefaultTransferPort = 21
	DefaultDialTimeout  = 5 * time.Second

	deviceOpenTimeout = 3 * time.Second
	actionMenuTimeout = time.Second
	usbPrefix         = "Usb"
)

// Transfer is the bulk file channel.
type Transfer interface {
	List(dir string) ([]transfer.Entry, error)
	Upload(r io.Reader, remote string, overwrite bool) error
	Download(remote string, w io.Writer) error
	Delete(remote string, quiet bool) error
	Close() error
}

// Options configures a Session.
type Options struct {
	Host         string
	ConsolePort  int
	TransferPort int
	User         string
	Password     string
	DialTimeout  time.Duration
	KeyDelay     time.Duration
	Nav          nav.Options
}

var (
	dialConsoleFn = func(addr string, timeout time.Duration, opts transport.TelnetOptions) (transport.Conn, error) {
		return transport.DialTelnet(addr, timeout, opts)
	}
	dialTransferFn = func(addr string, opts transfer.Options) (Transfer, error) {
		return transfer.Dial(addr, opts)
	}
)

// Session owns the connections to one device.
type Session struct {
	ID   string
	opts Options

	console transport.Conn
	nav     *nav.Navigator
	xfer    Transfer
}

// New prepares a session. Nothing is dialled until a channel is needed.
func New(opts Options) *Session {
	if opts.ConsolePort == 0 {
		opts.ConsolePort = DefaultConsolePort
	}
	if opts.TransferPort == 0 {
		opts.TransferPort = DefaultTransferPort
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	id := uuid.New().String()
	opts.Nav.Session = id
	return &Session{ID: id, opts: opts}
}

func (s *Session) addr(port int) string {
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(port))
}

// Navigator opens the console, closing the transfer channel first.
func (s *Session) Navigator() (*nav.Navigator, error) {
	if s.nav != nil {
		return s.nav, nil
	}
	if err := s.closeTransfer(); err != nil {
		return nil, err
	}
	conn, err := dialConsoleFn(s.addr(s.opts.ConsolePort), s.opts.DialTimeout, transport.TelnetOptions{KeyDelay: s.opts.KeyDelay})
	if err != nil {
		return nil, err
	}
	events.Session.Open(s.ID, s.opts.Host, events.ChannelConsole)
	s.console = conn
	s.nav = nav.New(conn, s.opts.Nav)
	if err := s.nav.Refresh(); err != nil {
		_ = s.closeConsole()
		return nil, err
	}
	return s.nav, nil
}

func (s *Session) transferChannel() (Transfer, error) {
	if s.xfer != nil {
		return s.xfer, nil
	}
	if err := s.closeConsole(); err != nil {
		return nil, err
	}
	x, err := dialTransferFn(s.addr(s.opts.TransferPort), transfer.Options{
		User:     s.opts.User,
		Password: s.opts.Password,
		Timeout:  s.opts.DialTimeout,
		Session:  s.ID,
	})
	if err != nil {
		return nil, err
	}
	events.Session.Open(s.ID, s.opts.Host, events.ChannelTransfer)
	s.xfer = x
	return x, nil
}

func (s *Session) closeConsole() error {
	if s.console == nil {
		return nil
	}
	err := s.nav.Close()
	if cerr := s.console.Close(); err == nil {
		err = cerr
	}
	s.console, s.nav = nil, nil
	events.Session.Close(s.ID, events.ChannelConsole)
	if err != nil {
		return fmt.Errorf("close console: %w", err)
	}
	return nil
}

func (s *Session) closeTransfer() error {
	if s.xfer == nil {
		return nil
	}
	err := s.xfer.Close()
	s.xfer = nil
	events.Session.Close(s.ID, events.ChannelTransfer)
	if err != nil {
		return fmt.Errorf("close transfer: %w", err)
	}
	return nil
}

// Close shuts whichever channel is open.
func (s *Session) Close() error {
	terr := s.closeTransfer()
	cerr := s.closeConsole()
	if terr != nil {
		return terr
	}
	return cerr
}

// USBDevices lists the USB volumes shown on the home screen.
func (s *Session) USBDevices() ([]string, error) {
	n, err := s.Navigator()
	if err != nil {
		return nil, err
	}
	if err := n.GoHome(); err != nil {
		return nil, err
	}
	var out []string
	for _, label := range n.BigMenu().Labels() {
		if strings.HasPrefix(label, usbPrefix) {
			out = append(out, label)
		}
	}
	return out, nil
}

// RunFile starts a program stored on the device.
func (s *Session) RunFile(path string) error {
	return s.DoWithFile("Run", path)
}

// MountFile mounts a disk image stored on the device.
func (s *Session) MountFile(path string) error {
	return s.DoWithFile("Mount disk", path)
}

// DoWithFile browses to path and picks action from the file's context menu.
func (s *Session) DoWithFile(action, path string) error {
	parts, err := SplitPath(path)
	if err != nil {
		return err
	}
	events.Session.Action(s.ID, action, path)
	device, dirs, file := parts[0], parts[1:len(parts)-1], parts[len(parts)-1]

	n, err := s.Navigator()
	if err != nil {
		return err
	}
	if err := n.GoHome(); err != nil {
		return err
	}
	devices := n.BigMenu()
	i, ok := devices.IndexPrefix(device)
	if !ok {
		return &menu.LookupError{Label: device, Labels: devices.Labels()}
	}
	if err := n.SelectByIndex(i, nav.ConfirmDescend); err != nil {
		return err
	}
	if err := n.WaitForDeviceOpen(deviceOpenTimeout); err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := n.SelectByLabel(dir, nav.ConfirmDescend); err != nil {
			return err
		}
	}
	if err := n.SelectByLabel(file, nav.ConfirmReturn); err != nil {
		return err
	}
	if err := n.WaitForSmallMenu(actionMenuTimeout); err != nil {
		return err
	}
	return n.SelectByLabel(action, nav.ConfirmAuto)
}

// CurrentMenu returns the menu on screen right now.
func (s *Session) CurrentMenu() (menu.Menu, bool, error) {
	n, err := s.Navigator()
	if err != nil {
		return menu.Menu{}, false, err
	}
	if err := n.Refresh(); err != nil {
		return menu.Menu{}, false, err
	}
	m, small := n.Current()
	return m, small, nil
}
