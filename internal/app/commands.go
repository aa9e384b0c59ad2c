package app

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/ultimate-control/internal/format/table"
	"github.com/atomicstack/ultimate-control/internal/logging"
	"github.com/atomicstack/ultimate-control/internal/script"
	"github.com/atomicstack/ultimate-control/internal/theme"
	"github.com/atomicstack/ultimate-control/internal/transfer"
	"github.com/atomicstack/ultimate-control/internal/ui"
)

const (
	defaultDir       = "/Usb0"
	annotationWidth  = 32
	listingTimestamp = "2006-01-02 15:04"
)

var styles = theme.Default()

func commandTable() []*Node {
	return []*Node{
		{ID: "dir", Aliases: []string{"ls"}, Args: "[dir...]", Summary: "list device directories (default " + defaultDir + ")", MaxArgs: -1, Device: true, Action: cmdDir},
		{ID: "upload", Aliases: []string{"u"}, Args: "<local...> [remote]", Summary: "upload files (default " + defaultDir + "/<name>)", MinArgs: 1, MaxArgs: -1, Device: true, Action: cmdUpload},
		{ID: "download", Aliases: []string{"d"}, Args: "<remote...>", Summary: "download files to the current directory", MinArgs: 1, MaxArgs: -1, Device: true, Action: cmdDownload},
		{ID: "rm", Args: "<remote...>", Summary: "delete device files", MinArgs: 1, MaxArgs: -1, Device: true, Action: cmdDelete},
		{ID: "run", Aliases: []string{"r"}, Args: "<remote>", Summary: "run a program stored on the device", MinArgs: 1, MaxArgs: 1, Device: true, Action: cmdRun},
		{ID: "mount", Aliases: []string{"m"}, Args: "<remote>", Summary: "mount a disk image stored on the device", MinArgs: 1, MaxArgs: 1, Device: true, Action: cmdMount},
		{ID: "ur", Aliases: []string{"upload_and_run"}, Args: "<local> [remote]", Summary: "upload and run", MinArgs: 1, MaxArgs: 2, Device: true, Action: cmdUploadAndRun},
		{ID: "um", Aliases: []string{"upload_and_mount"}, Args: "<local> [remote]", Summary: "upload and mount", MinArgs: 1, MaxArgs: 2, Device: true, Action: cmdUploadAndMount},
		{ID: "reu", Args: "<size>", Summary: "set the REU size; 0 or off disables it", MinArgs: 1, MaxArgs: 1, Device: true, Action: cmdREU},
		{ID: "usb", Summary: "list USB drives", Device: true, Action: cmdUSB},
		{ID: "menu", Summary: "print the menu on screen", Device: true, Action: cmdMenu},
		{ID: "screen", Summary: "dump the emulated screen", Device: true, Action: cmdScreen},
		{ID: "console", Summary: "mirror the device screen interactively", Device: true, Action: cmdConsole},
		{ID: "script", Args: "<file.lua>", Summary: "run a Lua automation script", MinArgs: 1, MaxArgs: 1, Device: true, Action: cmdScript},
		{ID: "shell", Summary: "start an interactive shell", Device: true, Action: cmdShell},
		{ID: "help", Aliases: []string{"h"}, Summary: "show this list", MaxArgs: -1, Action: cmdHelp},
	}
}

func cmdDir(ctx *Context, args []string) error {
	if len(args) == 0 {
		args = []string{defaultDir}
	}
	for _, dir := range args {
		entries, err := ctx.Session().List(dir)
		if err != nil {
			return err
		}
		if len(args) > 1 {
			fmt.Fprintln(ctx.Out)
			fmt.Fprintln(ctx.Out, dir)
		}
		for _, line := range listing(entries) {
			ctx.printLine(line)
		}
	}
	return nil
}

func listing(entries []transfer.Entry) []string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		size := strconv.FormatUint(e.Size, 10)
		name := e.Name
		switch {
		case e.Dir:
			size, name = "<DIR>", name+"/"
		case e.Target != "":
			name += " -> " + e.Target
		}
		stamp := ""
		if !e.Time.IsZero() {
			stamp = e.Time.Format(listingTimestamp)
		}
		rows[i] = []string{size, stamp, name}
	}
	lines := table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft})
	for i, e := range entries {
		if e.Dir {
			lines[i] = styles.Directory.Render(lines[i])
		}
	}
	return lines
}

func cmdUpload(ctx *Context, args []string) error {
	return uploadAndThen(ctx, args, nil)
}

func uploadAndThen(ctx *Context, args []string, then func(remote string) error) error {
	pairs, err := uploadTargets(args)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		logging.Progress("upload %s -> %s", p.local, p.remote)
		if err := ctx.Session().Upload(p.local, p.remote, true); err != nil {
			return err
		}
		if then != nil {
			if err := then(p.remote); err != nil {
				return err
			}
		}
	}
	return nil
}

func cmdDownload(ctx *Context, args []string) error {
	for _, remote := range args {
		local := path.Base(remote)
		logging.Progress("download %s -> %s", remote, local)
		if err := ctx.Session().Download(remote, local); err != nil {
			return err
		}
	}
	return nil
}

func cmdDelete(ctx *Context, args []string) error {
	for _, remote := range args {
		logging.Progress("delete %s", remote)
		if err := ctx.Session().Delete(remote, false); err != nil {
			return err
		}
	}
	return nil
}

func cmdRun(ctx *Context, args []string) error {
	logging.Progress("run %s", args[0])
	return ctx.Session().RunFile(args[0])
}

func cmdMount(ctx *Context, args []string) error {
	logging.Progress("mount %s", args[0])
	return ctx.Session().MountFile(args[0])
}

func cmdUploadAndRun(ctx *Context, args []string) error {
	return uploadAndThen(ctx, singleUpload(args), func(remote string) error {
		return cmdRun(ctx, []string{remote})
	})
}

func cmdUploadAndMount(ctx *Context, args []string) error {
	return uploadAndThen(ctx, singleUpload(args), func(remote string) error {
		return cmdMount(ctx, []string{remote})
	})
}

func cmdREU(ctx *Context, args []string) error {
	logging.Progress("reu %s", args[0])
	return ctx.Session().ConfigureREU(args[0])
}

func cmdUSB(ctx *Context, _ []string) error {
	drives, err := ctx.Session().USBDevices()
	if err != nil {
		return err
	}
	for _, d := range drives {
		fmt.Fprintln(ctx.Out, d)
	}
	return nil
}

func cmdMenu(ctx *Context, _ []string) error {
	m, small, err := ctx.Session().CurrentMenu()
	if err != nil {
		return err
	}
	title := "device list"
	if small {
		title = "bordered menu"
	}
	fmt.Fprintln(ctx.Out, styles.Header.Render(title))
	rows := make([][]string, len(m.Items))
	for i, item := range m.Items {
		marker := " "
		if m.IsSelected(i) {
			marker = ">"
		}
		rows[i] = []string{marker, item.Label, truncate.StringWithTail(item.Annotation, annotationWidth, "…")}
	}
	for i, line := range table.Format(rows, nil) {
		if m.IsSelected(i) {
			line = styles.SelectedItem.Render(line)
		}
		ctx.printLine(line)
	}
	return nil
}

func cmdScreen(ctx *Context, _ []string) error {
	n, err := ctx.Session().Navigator()
	if err != nil {
		return err
	}
	if err := n.Refresh(); err != nil {
		return err
	}
	fmt.Fprint(ctx.Out, n.Screen().Dump())
	return nil
}

var runConsoleFn = ui.Run

func cmdConsole(ctx *Context, _ []string) error {
	n, err := ctx.Session().Navigator()
	if err != nil {
		return err
	}
	return runConsoleFn(n, ctx.Config.Device.Host, ctx.Config.Device.Nav.Poll)
}

func cmdScript(ctx *Context, args []string) error {
	return script.Run(ctx.Session(), args[0], ctx.Out)
}

func cmdHelp(ctx *Context, _ []string) error {
	fmt.Fprint(ctx.Out, helpText(ctx.registry))
	return nil
}

func helpText(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage: ultimate-control [flags] [host] <command> [args]\n\n")
	b.WriteString("Commands:\n")
	rows := make([][]string, 0, len(r.Commands()))
	for _, node := range r.Commands() {
		rows = append(rows, []string{node.Usage(), node.Summary})
	}
	for _, line := range table.Format(rows, nil) {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\nIn the shell, quit or exit leaves.\n")
	return b.String()
}
