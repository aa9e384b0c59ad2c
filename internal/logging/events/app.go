package events

import "github.com/atomicstack/ultimate-control/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Command(name string, args []string) {
	logging.Trace("app.command", map[string]interface{}{"command": name, "args": args})
}

func (AppTracer) Error(name string, err error) {
	if err == nil {
		return
	}
	logging.Trace("app.error", map[string]interface{}{"command": name, "error": err.Error()})
}
