package events

import "github.com/atomicstack/ultimate-control/internal/logging"

type ConsoleTracer struct{}

type ScriptTracer struct{}

var (
	Console = ConsoleTracer{}
	Script  = ScriptTracer{}
)

func (ConsoleTracer) Key(key string) {
	logging.Trace("console.key", map[string]interface{}{"key": key})
}

func (ConsoleTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("console.error", map[string]interface{}{"error": err.Error()})
}

func (ScriptTracer) Start(path string) {
	logging.Trace("script.start", map[string]interface{}{"path": path})
}

func (ScriptTracer) Call(name string, args []string) {
	logging.Trace("script.call", map[string]interface{}{"function": name, "args": args})
}
