package trace

import "time"

// Kind is what happened: a span opened or closed, an instant, a heartbeat.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // whole run: check, fix
	ScopePhase                   // load, scan, fix over all files
	ScopeFile                    // one file
	ScopeRule                    // one rule on one node
	ScopeError                   // failures, emitted from LevelError up
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePhase:  "phase",
	ScopeFile:   "file",
	ScopeRule:   "rule",
	ScopeError:  "error",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. File and Rule are set by BeginFile and
// RuleEvent so sinks can filter and group without parsing Name.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "check", "scan", "cache" ...
	File     string
	Rule     string
	Detail   string
	Extra    map[string]string
}
