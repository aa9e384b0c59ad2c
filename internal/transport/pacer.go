package transport

import "time"

// Pacer ensures a minimum interval between successive writes. A nil Pacer or
// a non-positive interval never waits.
type Pacer struct {
	interval time.Duration
	next     time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer returns a pacer for the given interval.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{interval: interval, now: time.Now, sleep: time.Sleep}
}

// Wait blocks until the interval since the previous Wait has elapsed.
func (p *Pacer) Wait() {
	if p == nil || p.interval <= 0 {
		return
	}
	if wait := p.next.Sub(p.now()); wait > 0 {
		if wait > p.interval {
			wait = p.interval
		}
		p.sleep(wait)
	}
	p.next = p.now().Add(p.interval)
}
