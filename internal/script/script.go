// Package script runs Lua automation against a device session.
//
// Scripts see these globals:
//
//	home()                    back out to the device list
//	back()                    back out one level
//	press(key[, count])       send a named key ("up", "down", "right", "left", "enter", "f2")
//	select(label[, mode])     pick a visible entry; mode is "auto", "return" or "descend"
//	select_index(i[, mode])   pick the i-th visible entry, counting from 1
//	wait_small_menu(seconds)  wait for a bordered menu to appear
//	menu()                    visible entries as {label, annotation, selected}, and whether the menu is bordered
//	run(path), mount(path)    run or mount a file stored on the device
//	sleep(seconds)
package script

import (
	"fmt"
	"io"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/atomicstack/ultimate-control/internal/logging/events"
	"github.com/atomicstack/ultimate-control/internal/nav"
)

// Device is the part of a device session scripts can drive.
type Device interface {
	Navigator() (*nav.Navigator, error)
	RunFile(path string) error
	MountFile(path string) error
}

var sleepFn = time.Sleep

// Runner owns one Lua state bound to a device.
type Runner struct {
	L   *lua.LState
	dev Device
	out io.Writer
}

// New creates a Lua state with the base, table, string and math libraries
// and the device globals. print writes to out.
func New(dev Device, out io.Writer) *Runner {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
	r := &Runner{L: L, dev: dev, out: out}
	r.register()
	return r
}

// Run executes the script at path against dev.
func Run(dev Device, path string, out io.Writer) error {
	r := New(dev, out)
	defer r.Close()
	return r.DoFile(path)
}

// DoFile executes a Lua file.
func (r *Runner) DoFile(path string) error {
	events.Script.Start(path)
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// DoString executes Lua source.
func (r *Runner) DoString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.L.Close()
}

func (r *Runner) register() {
	for name, fn := range map[string]lua.LGFunction{
		"print":           r.print,
		"home":            r.home,
		"back":            r.back,
		"press":           r.press,
		"select":          r.selectLabel,
		"select_index":    r.selectIndex,
		"wait_small_menu": r.waitSmallMenu,
		"menu":            r.menu,
		"run":             r.run,
		"mount":           r.mount,
		"sleep":           r.sleep,
	} {
		r.L.SetGlobal(name, r.L.NewFunction(fn))
	}
}

func (r *Runner) navigator(L *lua.LState, name string) *nav.Navigator {
	n, err := r.dev.Navigator()
	if err != nil {
		L.RaiseError("%s: %v", name, err)
	}
	return n
}

func check(L *lua.LState, name string, err error) {
	if err != nil {
		L.RaiseError("%s: %v", name, err)
	}
}

func confirmArg(L *lua.LState, idx int) nav.Confirm {
	mode, ok := nav.ParseConfirm(L.OptString(idx, "auto"))
	if !ok {
		L.ArgError(idx, "mode must be auto, return or descend")
	}
	return mode
}

func seconds(L *lua.LState, idx int) time.Duration {
	return time.Duration(float64(L.CheckNumber(idx)) * float64(time.Second))
}

// print(...)
func (r *Runner) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

// home()
func (r *Runner) home(L *lua.LState) int {
	events.Script.Call("home", nil)
	check(L, "home", r.navigator(L, "home").GoHome())
	return 0
}

// back()
func (r *Runner) back(L *lua.LState) int {
	events.Script.Call("back", nil)
	check(L, "back", r.navigator(L, "back").GoBack())
	return 0
}

// press(key[, count])
func (r *Runner) press(L *lua.LState) int {
	name := L.CheckString(1)
	count := L.OptInt(2, 1)
	k, ok := nav.ParseKey(name)
	if !ok {
		L.ArgError(1, "unknown key "+name)
	}
	events.Script.Call("press", []string{name, fmt.Sprint(count)})
	n := r.navigator(L, "press")
	check(L, "press", n.Send(k, count))
	check(L, "press", n.Refresh())
	return 0
}

// select(label[, mode])
func (r *Runner) selectLabel(L *lua.LState) int {
	label := L.CheckString(1)
	mode := confirmArg(L, 2)
	events.Script.Call("select", []string{label})
	check(L, "select", r.navigator(L, "select").SelectByLabel(label, mode))
	return 0
}

// select_index(i[, mode])
func (r *Runner) selectIndex(L *lua.LState) int {
	i := L.CheckInt(1)
	if i < 1 {
		L.ArgError(1, "index counts from 1")
	}
	mode := confirmArg(L, 2)
	events.Script.Call("select_index", []string{fmt.Sprint(i)})
	check(L, "select_index", r.navigator(L, "select_index").SelectByIndex(i-1, mode))
	return 0
}

// wait_small_menu(seconds)
func (r *Runner) waitSmallMenu(L *lua.LState) int {
	timeout := seconds(L, 1)
	events.Script.Call("wait_small_menu", []string{timeout.String()})
	check(L, "wait_small_menu", r.navigator(L, "wait_small_menu").WaitForSmallMenu(timeout))
	return 0
}

// menu() -> {{label, annotation, selected}...}, small
func (r *Runner) menu(L *lua.LState) int {
	n := r.navigator(L, "menu")
	check(L, "menu", n.Refresh())
	m, small := n.Current()
	tbl := L.NewTable()
	for i, item := range m.Items {
		entry := L.NewTable()
		L.SetField(entry, "label", lua.LString(item.Label))
		L.SetField(entry, "annotation", lua.LString(item.Annotation))
		L.SetField(entry, "selected", lua.LBool(m.IsSelected(i)))
		tbl.Append(entry)
	}
	L.Push(tbl)
	L.Push(lua.LBool(small))
	return 2
}

// run(path)
func (r *Runner) run(L *lua.LState) int {
	path := L.CheckString(1)
	events.Script.Call("run", []string{path})
	check(L, "run", r.dev.RunFile(path))
	return 0
}

// mount(path)
func (r *Runner) mount(L *lua.LState) int {
	path := L.CheckString(1)
	events.Script.Call("mount", []string{path})
	check(L, "mount", r.dev.MountFile(path))
	return 0
}

// sleep(seconds)
func (r *Runner) sleep(L *lua.LState) int {
	sleepFn(seconds(L, 1))
	return 0
}
