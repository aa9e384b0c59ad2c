package events

import "github.com/atomicstack/ultimate-control/internal/logging"

type SessionTracer struct{}

type Channel string

const (
	ChannelConsole  Channel = "console"
	ChannelTransfer Channel = "transfer"
)

var Session = SessionTracer{}

func (SessionTracer) Open(id, host string, channel Channel) {
	logging.Trace("session.open", map[string]interface{}{"session": id, "host": host, "channel": string(channel)})
}

func (SessionTracer) Close(id string, channel Channel) {
	logging.Trace("session.close", map[string]interface{}{"session": id, "channel": string(channel)})
}

func (SessionTracer) Action(id, action, path string) {
	logging.Trace("session.action", map[string]interface{}{"session": id, "action": action, "path": path})
}

func (SessionTracer) Setting(id string, path []string, value string) {
	logging.Trace("session.setting", map[string]interface{}{"session": id, "path": path, "value": value})
}
