package trace

import (
	"io"
	"sync"
)

const defaultRingSize = 4096

// RingTracer keeps the newest events in a fixed-size buffer. The CLI dumps
// it when a run ends so the events before a failure are visible.
type RingTracer struct {
	gate
	mu     sync.Mutex
	events []Event
	next   uint64 // total events stored, next slot is next % len(events)
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{gate: gate{level}, events: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	t.mu.Lock()
	t.events[t.next%uint64(len(t.events))] = *ev
	t.next++
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.events))
	if t.next <= size {
		return append([]Event(nil), t.events[:t.next]...)
	}
	start := t.next % size
	out := make([]Event, 0, size)
	out = append(out, t.events[start:]...)
	return append(out, t.events[:start]...)
}

// Dropped is the number of events overwritten so far.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if size := uint64(len(t.events)); t.next > size {
		return t.next - size
	}
	return 0
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	var buf []byte
	for _, ev := range t.Snapshot() {
		if format == FormatNDJSON {
			buf = appendNDJSON(buf[:0], &ev)
		} else {
			buf = appendText(buf[:0], &ev)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
