package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atomicstack/ultimate-control/internal/logging"
)

const shellPrompt = "> "

// lineReader yields shell input one line at a time; io.EOF ends the shell.
type lineReader interface {
	ReadLine() (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scannerReader) ReadLine() (string, error) {
	fmt.Fprint(s.out, shellPrompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// openShellInput returns a line-editing terminal when In is a TTY, and a
// plain line scanner otherwise. The returned func restores the terminal.
func openShellInput(ctx *Context) (lineReader, io.Writer, func(), error) {
	if f, ok := ctx.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("raw terminal: %w", err)
		}
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{f, ctx.Out}, shellPrompt)
		restore := func() { _ = term.Restore(int(f.Fd()), state) }
		return t, t, restore, nil
	}
	return &scannerReader{scanner: bufio.NewScanner(ctx.In), out: ctx.Out}, ctx.Out, func() {}, nil
}

func cmdShell(ctx *Context, _ []string) error {
	input, out, restore, err := openShellInput(ctx)
	if err != nil {
		return err
	}
	defer restore()

	origOut := ctx.Out
	ctx.Out = out
	defer func() { ctx.Out = origOut }()

	fmt.Fprintln(out, "Type quit to exit")
	for {
		line, err := input.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "shell":
			continue
		}
		if err := ctx.Exec(fields[0], fields[1:]); err != nil {
			logging.Error(err)
			fmt.Fprintln(out, styles.Error.Render(err.Error()))
		}
	}
}
