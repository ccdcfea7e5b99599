package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelOff, ScopeError, false},
		{LevelError, ScopeDriver, false},
		{LevelError, ScopePhase, false},
		{LevelError, ScopeError, true},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if m, err := ParseMode("Both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode(Both) = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopePhase, "scan", 0)
	BeginFile(tr, "a.cs", span.ID()).End("")
	span.WithExtra("files", "3").End("ok")
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "> scan") || !strings.Contains(out, "< scan (ok) {files=3}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "a.cs") {
		t.Fatalf("file scope must be filtered at phase level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	RuleEvent(tr, ScopeError, "LY1003", "panic: boom")
	BeginFile(tr, "src/A.cs", 0).End("2 reports")
	if err := tr.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 events, got %d:\n%s", len(lines), buf.String())
	}
	var first jsonEvent
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Kind != "point" || first.Scope != "error" || first.Rule != "LY1003" || first.Detail != "panic: boom" {
		t.Fatalf("unexpected event: %+v", first)
	}
	var last jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if last.Kind != "end" || last.File != "src/A.cs" || last.Detail != "2 reports" {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeRule, name, "")
	}
	got := ring.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if ring.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", ring.Dropped())
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("dump should hold two lines:\n%s", buf.String())
	}
}

func TestSpanEndsOnce(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	before := OpenSpans()
	span := Begin(ring, ScopeDriver, "check", 0)
	if OpenSpans() != before+1 {
		t.Fatalf("open spans not counted")
	}
	span.End("")
	span.End("again")
	if OpenSpans() != before {
		t.Fatalf("open spans = %d, want %d", OpenSpans(), before)
	}
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("expected begin+end, got %d events", n)
	}

	var inert *Span
	if inert.End("") != 0 || inert.ID() != 0 {
		t.Fatalf("nil span must be inert")
	}
	if Begin(Nop, ScopeDriver, "x", 0).ID() != 0 {
		t.Fatalf("disabled tracer must yield an inert span")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
	span := Begin(ring, ScopeDriver, "run", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx).SpanID != span.ID() || FromContext(ctx) != Tracer(ring) {
		t.Fatalf("span context lost the tracer or the span")
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("ring mode built %T", tr)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopePhase, "load", "")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "* load") {
		t.Fatalf("stream side missing event:\n%s", buf.String())
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat must not start for a disabled tracer")
	}
	var nilBeat *Heartbeat
	nilBeat.Stop()

	ring := NewRingTracer(64, LevelError)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	events := ring.Snapshot()
	if len(events) == 0 || events[0].Kind != KindHeartbeat || !strings.HasPrefix(events[0].Detail, "#1 open=") {
		t.Fatalf("unexpected heartbeat events: %+v", events)
	}
}
