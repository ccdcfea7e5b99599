package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq       atomic.Uint64
	spanIDs   atomic.Uint64
	openSpans atomic.Int64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seq.Add(1) }

// OpenSpans is the number of spans begun and not yet ended. Heartbeats
// report it so a stuck file shows up as a span that never closes.
func OpenSpans() int64 { return openSpans.Load() }

// Span is an open interval of work. The zero value and nil are inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	file    string
	started time.Time
	extra   map[string]string
	ended   bool
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
// A disabled tracer or filtered scope yields an inert span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, "", parent)
}

// BeginFile opens a file-scope span tagged with path.
func BeginFile(t Tracer, path string, parent uint64) *Span {
	return begin(t, ScopeFile, "file", path, parent)
}

func begin(t Tracer, scope Scope, name, file string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		file:    file,
		started: time.Now(),
	}
	openSpans.Add(1)
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		File:     s.file,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	return ev
}

// End emits the end event once and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || s.ended {
		return 0
	}
	s.ended = true
	openSpans.Add(-1)
	now := time.Now()
	s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	emitPoint(t, &Event{Scope: scope, Name: name, Detail: detail})
}

// RuleEvent emits an instant event about rule id, e.g. a recovered panic at
// ScopeError or a report at ScopeRule.
func RuleEvent(t Tracer, scope Scope, id, detail string) {
	emitPoint(t, &Event{Scope: scope, Name: "rule", Rule: id, Detail: detail})
}

func emitPoint(t Tracer, ev *Event) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(ev.Scope) {
		return
	}
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	ev.Kind = KindPoint
	t.Emit(ev)
}
