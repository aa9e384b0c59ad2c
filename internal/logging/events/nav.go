package events

import "github.com/atomicstack/ultimate-control/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) Keys(session, key string, count int) {
	logging.Trace("nav.keys", map[string]interface{}{"session": session, "key": key, "count": count})
}

func (NavTracer) Menu(session, kind string, labels []string, selected []int) {
	logging.Trace("nav.menu", map[string]interface{}{
		"session":  session,
		"kind":     kind,
		"labels":   labels,
		"selected": selected,
	})
}

func (NavTracer) Select(session, label string, index int) {
	logging.Trace("nav.select", map[string]interface{}{"session": session, "label": label, "index": index})
}

func (NavTracer) Wait(session, condition string, polls int) {
	logging.Trace("nav.wait", map[string]interface{}{"session": session, "condition": condition, "polls": polls})
}

func (NavTracer) Timeout(session, condition, screen string) {
	logging.Trace("nav.timeout", map[string]interface{}{"session": session, "condition": condition, "screen": screen})
}
