package driver

import (
	"time"

	"linkdiag/internal/observ"
)

// phaseTimer wraps an optional observ.Timer so call sites need no nil checks.
type phaseTimer struct {
	t *observ.Timer
}

func newPhaseTimer(enabled bool) phaseTimer {
	if !enabled {
		return phaseTimer{}
	}
	return phaseTimer{t: observ.NewTimer()}
}

func (p phaseTimer) begin(name string) int {
	if p.t == nil {
		return -1
	}
	return p.t.Begin(name)
}

func (p phaseTimer) end(idx int, note string) {
	if p.t == nil {
		return
	}
	p.t.End(idx, note)
}

func (p phaseTimer) add(name string, d time.Duration) {
	if p.t == nil {
		return
	}
	p.t.Add(name, d)
}

func (p phaseTimer) report() *observ.Report {
	if p.t == nil {
		return nil
	}
	r := p.t.Report()
	return &r
}
