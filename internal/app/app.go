package app

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"

	"github.com/atomicstack/ultimate-control/internal/device"
	"github.com/atomicstack/ultimate-control/internal/logging/events"
	"github.com/atomicstack/ultimate-control/internal/menu"
	"github.com/atomicstack/ultimate-control/internal/nav"
	"github.com/atomicstack/ultimate-control/internal/transfer"
)

// Config describes user-provided application options.
type Config struct {
	Device  device.Options
	Command string
	Args    []string
}

// Device is the part of a device session the commands use. *device.Session
// satisfies it.
type Device interface {
	USBDevices() ([]string, error)
	RunFile(path string) error
	MountFile(path string) error
	ConfigureREU(size string) error
	CurrentMenu() (menu.Menu, bool, error)
	Navigator() (*nav.Navigator, error)
	List(dir string) ([]transfer.Entry, error)
	Upload(local, remote string, overwrite bool) error
	Download(remote, local string) error
	Delete(remote string, quiet bool) error
	Close() error
}

var newDeviceFn = func(opts device.Options) Device {
	return device.New(opts)
}

// Context is handed to every command.
type Context struct {
	Config   Config
	In       io.Reader
	Out      io.Writer
	registry *Registry
	dev      Device
}

// Session opens the device session on first use.
func (c *Context) Session() Device {
	if c.dev == nil {
		c.dev = newDeviceFn(c.Config.Device)
	}
	return c.dev
}

func (c *Context) close() error {
	if c.dev == nil {
		return nil
	}
	err := c.dev.Close()
	c.dev = nil
	return err
}

// width returns the output terminal width, or 0 when Out is not a terminal.
func (c *Context) width() int {
	f, ok := c.Out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// printLine writes one line, clipped to the terminal width.
func (c *Context) printLine(line string) {
	if w := c.width(); w > 0 {
		line = truncate.StringWithTail(line, uint(w), "…")
	}
	fmt.Fprintln(c.Out, line)
}

// Run executes the configured command against stdin and stdout.
func Run(cfg Config) error {
	return RunWith(cfg, os.Stdin, os.Stdout)
}

// RunWith executes the configured command with the given streams.
func RunWith(cfg Config, in io.Reader, out io.Writer) error {
	ctx := &Context{Config: cfg, In: in, Out: out, registry: BuildRegistry()}
	err := ctx.Exec(cfg.Command, cfg.Args)
	if cerr := ctx.close(); err == nil && cerr != nil {
		err = cerr
	}
	return err
}

// Exec resolves and runs one command.
func (c *Context) Exec(name string, args []string) error {
	node, err := c.registry.Resolve(name)
	if err != nil {
		return err
	}
	if err := node.checkArgs(args); err != nil {
		return err
	}
	events.App.Command(node.ID, args)
	if err := node.Action(c, args); err != nil {
		events.App.Error(node.ID, err)
		return err
	}
	return nil
}
