package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Handler carries out a command.
type Handler func(ctx *Context, args []string) error

// Node represents a command definition within the registry.
type Node struct {
	ID      string
	Aliases []string
	Args    string
	Summary string
	MinArgs int
	// MaxArgs of -1 means no upper bound.
	MaxArgs int
	// Device marks commands that talk to the device.
	Device bool
	Action Handler
}

// Names returns the command name followed by its aliases.
func (n *Node) Names() []string {
	return append([]string{n.ID}, n.Aliases...)
}

// Usage renders the command line form shown in help.
func (n *Node) Usage() string {
	usage := strings.Join(n.Names(), "|")
	if n.Args != "" {
		usage += " " + n.Args
	}
	return usage
}

func (n *Node) checkArgs(args []string) error {
	if len(args) < n.MinArgs || (n.MaxArgs >= 0 && len(args) > n.MaxArgs) {
		return &UsageError{Command: n.ID, Usage: n.Usage()}
	}
	return nil
}

// Registry exposes lookup utilities for command definitions.
type Registry struct {
	order []*Node
	nodes map[string]*Node
}

// BuildRegistry constructs the registry from the command table.
func BuildRegistry() *Registry {
	r := &Registry{nodes: make(map[string]*Node)}
	for _, node := range commandTable() {
		r.order = append(r.order, node)
		for _, name := range node.Names() {
			r.nodes[name] = node
		}
	}
	return r
}

// Commands returns every command in help order.
func (r *Registry) Commands() []*Node {
	return r.order
}

// Find locates a command by name or alias.
func (r *Registry) Find(name string) (*Node, bool) {
	node, ok := r.nodes[name]
	return node, ok
}

// Resolve is Find with an UnknownCommandError on failure.
func (r *Registry) Resolve(name string) (*Node, error) {
	if node, ok := r.Find(name); ok {
		return node, nil
	}
	return nil, &UnknownCommandError{Name: name, Suggestions: r.suggest(name)}
}

func (r *Registry) suggest(name string) []string {
	names := make([]string, 0, len(r.nodes))
	for n := range r.nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	sort.Stable(ranks)
	var out []string
	for _, rank := range ranks {
		out = append(out, rank.Target)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// NeedsDevice reports whether command talks to the device. Unknown commands
// report false so they fail on the name rather than on a missing host.
func NeedsDevice(command string) bool {
	node, ok := BuildRegistry().Find(command)
	return ok && node.Device
}

// UnknownCommandError reports a command name that is not registered.
type UnknownCommandError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	msg := fmt.Sprintf("invalid command %s", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// UsageError reports a command called with the wrong number of arguments.
type UsageError struct {
	Command string
	Usage   string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}
