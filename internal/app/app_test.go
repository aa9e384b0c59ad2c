package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/ultimate-control/internal/device"
	"github.com/atomicstack/ultimate-control/internal/logging"
	"github.com/atomicstack/ultimate-control/internal/menu"
	"github.com/atomicstack/ultimate-control/internal/nav"
	"github.com/atomicstack/ultimate-control/internal/testutil"
	"github.com/atomicstack/ultimate-control/internal/transfer"
	"github.com/atomicstack/ultimate-control/internal/ui"
)

type fakeDevice struct {
	entries   map[string][]transfer.Entry
	listed    []string
	uploads   [][2]string
	downloads [][2]string
	deleted   []string
	runs      []string
	mounts    []string
	reu       []string
	menu      menu.Menu
	small     bool
	nav       *nav.Navigator
	runErr    error
	closed    int
}

func (f *fakeDevice) USBDevices() ([]string, error) {
	return []string{"Usb0 Drive", "Usb1 Drive"}, nil
}

func (f *fakeDevice) RunFile(path string) error {
	f.runs = append(f.runs, path)
	return f.runErr
}

func (f *fakeDevice) MountFile(path string) error {
	f.mounts = append(f.mounts, path)
	return nil
}

func (f *fakeDevice) ConfigureREU(size string) error {
	f.reu = append(f.reu, size)
	return nil
}

func (f *fakeDevice) CurrentMenu() (menu.Menu, bool, error) {
	return f.menu, f.small, nil
}

func (f *fakeDevice) Navigator() (*nav.Navigator, error) {
	if f.nav == nil {
		return nil, errors.New("no console")
	}
	return f.nav, nil
}

func (f *fakeDevice) List(dir string) ([]transfer.Entry, error) {
	f.listed = append(f.listed, dir)
	return f.entries[dir], nil
}

func (f *fakeDevice) Upload(local, remote string, overwrite bool) error {
	f.uploads = append(f.uploads, [2]string{local, remote})
	return nil
}

func (f *fakeDevice) Download(remote, local string) error {
	f.downloads = append(f.downloads, [2]string{remote, local})
	return nil
}

func (f *fakeDevice) Delete(remote string, quiet bool) error {
	f.deleted = append(f.deleted, remote)
	return nil
}

func (f *fakeDevice) Close() error {
	f.closed++
	return nil
}

func stubDevice(t *testing.T) (*fakeDevice, *int) {
	t.Helper()
	fake := &fakeDevice{entries: map[string][]transfer.Entry{}}
	opened := 0
	orig := newDeviceFn
	newDeviceFn = func(opts device.Options) Device {
		opened++
		return fake
	}
	prevLog := logging.Path()
	logging.Configure(filepath.Join(t.TempDir(), "app.log"))
	t.Cleanup(func() {
		newDeviceFn = orig
		logging.Configure(prevLog)
	})
	return fake, &opened
}

func run(t *testing.T, command string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := RunWith(Config{Device: device.Options{Host: "c64.local"}, Command: command, Args: args}, strings.NewReader(""), &out)
	return out.String(), err
}

func TestHelpOutput(t *testing.T) {
	_, opened := stubDevice(t)
	out, err := run(t, "help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertGolden(t, "help.golden", out)
	if *opened != 0 {
		t.Fatalf("expected help to leave the device alone")
	}
}

func TestUploadTargets(t *testing.T) {
	cases := []struct {
		args []string
		want []uploadPair
	}{
		{[]string{"build/game.prg"}, []uploadPair{{"build/game.prg", "/Usb0/game.prg"}}},
		{[]string{"game.prg", "/Usb0/other.prg"}, []uploadPair{{"game.prg", "/Usb0/other.prg"}}},
		{[]string{"build/game.prg", "/Usb0/Games/"}, []uploadPair{{"build/game.prg", "/Usb0/Games/game.prg"}}},
		{[]string{"a.prg", "b/b.prg", "/Usb1/Demos"}, []uploadPair{{"a.prg", "/Usb1/Demos/a.prg"}, {"b/b.prg", "/Usb1/Demos/b.prg"}}},
	}
	for _, tc := range cases {
		got, err := uploadTargets(tc.args)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tc.args, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%v: expected %v, got %v", tc.args, tc.want, got)
		}
	}
	if _, err := uploadTargets(nil); err == nil {
		t.Fatalf("expected error without arguments")
	}
}

func TestUploadAndRunDefaultsTarget(t *testing.T) {
	fake, _ := stubDevice(t)
	if _, err := run(t, "ur", "build/game.prg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fake.uploads, [][2]string{{"build/game.prg", "/Usb0/game.prg"}}) {
		t.Fatalf("expected default upload target, got %v", fake.uploads)
	}
	if !reflect.DeepEqual(fake.runs, []string{"/Usb0/game.prg"}) {
		t.Fatalf("expected uploaded file to run, got %v", fake.runs)
	}
	if fake.closed != 1 {
		t.Fatalf("expected session closed once, got %d", fake.closed)
	}
}

func TestUploadAndMountIntoDirectory(t *testing.T) {
	fake, _ := stubDevice(t)
	if _, err := run(t, "upload_and_mount", "disk.d64", "/Usb0/Disks/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fake.mounts, []string{"/Usb0/Disks/disk.d64"}) {
		t.Fatalf("expected mount of uploaded file, got %v", fake.mounts)
	}
}

func TestDirListing(t *testing.T) {
	fake, _ := stubDevice(t)
	fake.entries["/Usb0"] = []transfer.Entry{
		{Name: "GAMES", Dir: true},
		{Name: "game.prg", Size: 1234, Time: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
	}
	out, err := run(t, "ls")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<DIR>" + strings.Repeat(" ", 20) + "GAMES/\n" +
		" 1234  2024-05-01 10:30  game.prg\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
	if !reflect.DeepEqual(fake.listed, []string{"/Usb0"}) {
		t.Fatalf("expected default directory, got %v", fake.listed)
	}
}

func TestDirSeveralDirectoriesGetHeaders(t *testing.T) {
	fake, _ := stubDevice(t)
	fake.entries["/Usb1"] = []transfer.Entry{{Name: "a.prg", Size: 1}}
	out, err := run(t, "dir", "/Usb0", "/Usb1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "\n/Usb0\n\n/Usb1\n1    a.prg\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestUploadAndRunReportsProgress(t *testing.T) {
	stubDevice(t)
	var progress bytes.Buffer
	logging.SetProgress(&progress)
	t.Cleanup(func() { logging.SetProgress(nil) })
	out, err := run(t, "ur", "build/game.prg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "upload build/game.prg -> /Usb0/game.prg\nrun /Usb0/game.prg\n"
	if progress.String() != want {
		t.Fatalf("expected %q, got %q", want, progress.String())
	}
	if out != "" {
		t.Fatalf("expected progress kept off the command output, got %q", out)
	}
}

func TestDownloadAndDelete(t *testing.T) {
	fake, _ := stubDevice(t)
	if _, err := run(t, "d", "/Usb0/Games/game.prg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fake.downloads, [][2]string{{"/Usb0/Games/game.prg", "game.prg"}}) {
		t.Fatalf("expected download into current directory, got %v", fake.downloads)
	}
	if _, err := run(t, "rm", "/Usb0/a.prg", "/Usb0/b.prg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fake.deleted, []string{"/Usb0/a.prg", "/Usb0/b.prg"}) {
		t.Fatalf("expected deletes, got %v", fake.deleted)
	}
}

func TestREUAndUSB(t *testing.T) {
	fake, _ := stubDevice(t)
	if _, err := run(t, "reu", "off"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fake.reu, []string{"off"}) {
		t.Fatalf("expected reu change, got %v", fake.reu)
	}
	out, err := run(t, "usb")
	if err != nil || out != "Usb0 Drive\nUsb1 Drive\n" {
		t.Fatalf("expected usb drives, got %q (%v)", out, err)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, opened := stubDevice(t)
	_, err := run(t, "mnt")
	var uerr *UnknownCommandError
	if !errors.As(err, &uerr) || uerr.Name != "mnt" {
		t.Fatalf("expected UnknownCommandError, got %v", err)
	}
	if len(uerr.Suggestions) == 0 || uerr.Suggestions[0] != "mount" {
		t.Fatalf("expected mount suggested, got %v", uerr.Suggestions)
	}
	if *opened != 0 {
		t.Fatalf("expected no session for unknown commands")
	}
}

func TestWrongArgumentCount(t *testing.T) {
	_, opened := stubDevice(t)
	_, err := run(t, "run")
	var uerr *UsageError
	if !errors.As(err, &uerr) || uerr.Usage != "run|r <remote>" {
		t.Fatalf("expected UsageError, got %v", err)
	}
	if _, err := run(t, "ur", "a", "b", "c"); !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError for too many arguments, got %v", err)
	}
	if *opened != 0 {
		t.Fatalf("expected no session for usage errors")
	}
}

func TestErrorsStillCloseSession(t *testing.T) {
	fake, _ := stubDevice(t)
	fake.runErr = errors.New("boom")
	if _, err := run(t, "run", "/Usb0/a.prg"); err == nil || err.Error() != "boom" {
		t.Fatalf("expected run error, got %v", err)
	}
	if fake.closed != 1 {
		t.Fatalf("expected session closed after error")
	}
}

func TestMenuCommand(t *testing.T) {
	fake, _ := stubDevice(t)
	fake.menu = menu.Menu{Items: []menu.Item{{Label: "Run"}, {Label: "Mount disk"}}, Selected: []int{0}}
	fake.small = true
	out, err := run(t, "menu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if lines[0] != "bordered menu" || !strings.HasPrefix(lines[1], ">  Run") || !strings.HasPrefix(lines[2], "   Mount disk") {
		t.Fatalf("unexpected menu output %q", out)
	}
}

func testNavigator(t *testing.T) (*nav.Navigator, *testutil.Device) {
	t.Helper()
	dev := testutil.NewDevice([]*testutil.Node{
		{Label: "Usb0 Drive", Annotation: "Ready", Children: []*testutil.Node{}},
	}, nil)
	return nav.New(dev, nav.Options{Settle: time.Millisecond, Poll: time.Millisecond}), dev
}

func TestScreenCommandDumpsScreen(t *testing.T) {
	fake, _ := stubDevice(t)
	fake.nav, _ = testNavigator(t)
	out, err := run(t, "screen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Gr1 *** FAKE ULTIMATE ***\n") {
		t.Fatalf("expected dump of the title row, got %q", out)
	}
	if !strings.Contains(out, "Wht  Usb0 Drive") {
		t.Fatalf("expected highlighted device row, got %q", out)
	}
}

func TestConsoleCommandUsesNavigator(t *testing.T) {
	fake, _ := stubDevice(t)
	fake.nav, _ = testNavigator(t)
	var gotTitle string
	orig := runConsoleFn
	runConsoleFn = func(console ui.Console, title string, interval time.Duration) error {
		gotTitle = title
		if console.Screen() != fake.nav.Screen() {
			t.Fatalf("expected the session navigator")
		}
		return nil
	}
	t.Cleanup(func() { runConsoleFn = orig })
	if _, err := run(t, "console"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTitle != "c64.local" {
		t.Fatalf("expected host as title, got %q", gotTitle)
	}
}

func TestScriptCommand(t *testing.T) {
	fake, _ := stubDevice(t)
	path := filepath.Join(t.TempDir(), "boot.lua")
	if err := os.WriteFile(path, []byte(`run("/Usb0/boot.prg") print("ok")`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "script", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok\n" || !reflect.DeepEqual(fake.runs, []string{"/Usb0/boot.prg"}) {
		t.Fatalf("expected script to run, got %q %v", out, fake.runs)
	}
}

func TestShell(t *testing.T) {
	fake, opened := stubDevice(t)
	input := "usb\nbogus\n\nshell\nrun /Usb0/a.prg\nquit\nrun /Usb0/b.prg\n"
	var out bytes.Buffer
	err := RunWith(Config{Command: "shell"}, strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fake.runs, []string{"/Usb0/a.prg"}) {
		t.Fatalf("expected commands up to quit, got %v", fake.runs)
	}
	for _, want := range []string{"Type quit to exit", "Usb1 Drive", "invalid command bogus"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in shell output, got %q", want, out.String())
		}
	}
	if *opened != 1 || fake.closed != 1 {
		t.Fatalf("expected one session for the whole shell, got %d opened %d closed", *opened, fake.closed)
	}
}

func TestShellEndsAtEOF(t *testing.T) {
	stubDevice(t)
	var out bytes.Buffer
	if err := RunWith(Config{Command: "shell"}, strings.NewReader("help\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Commands:") {
		t.Fatalf("expected help inside shell, got %q", out.String())
	}
}

func TestNeedsDevice(t *testing.T) {
	if NeedsDevice("help") || NeedsDevice("h") || NeedsDevice("bogus") {
		t.Fatalf("expected help and unknown commands to need no device")
	}
	if !NeedsDevice("run") || !NeedsDevice("ls") {
		t.Fatalf("expected device commands to need a device")
	}
}
