package trace

import (
	"sync/atomic"
	"time"
)

var (
	eventCount atomic.Uint64
	spanCount  atomic.Uint64
)

// newEvent stamps the creation order once so every sink of a MultiTracer
// agrees on it.
func newEvent(kind Kind, scope Scope, name string) *Event {
	return &Event{
		Time:  time.Now(),
		Order: eventCount.Add(1),
		Kind:  kind,
		Scope: scope,
		Name:  name,
	}
}

// Span is an open Begin/End pair. The zero span from a disabled tracer is
// safe to use.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

// Begin starts a new span and emits SpanBegin event.
// parent is the parent span ID (0 if root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}

	ev := newEvent(KindSpanBegin, scope, name)
	ev.SpanID = spanCount.Add(1)
	ev.ParentID = parent
	t.Emit(ev)

	return &Span{
		tracer:   t,
		id:       ev.SpanID,
		parentID: parent,
		scope:    scope,
		name:     name,
		started:  ev.Time,
	}
}

// End emits SpanEnd event and returns the duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}

	ev := newEvent(KindSpanEnd, s.scope, s.name)
	ev.SpanID = s.id
	ev.ParentID = s.parentID
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(ev)

	return ev.Time.Sub(s.started)
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}

	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	ev := newEvent(KindPoint, scope, name)
	ev.ParentID = parent
	ev.Detail = detail
	t.Emit(ev)
}
