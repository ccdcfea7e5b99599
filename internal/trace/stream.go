package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes events as they arrive. Coarse events and errors are
// flushed at once; file and rule events stay buffered until Flush.
type StreamTracer struct {
	gate
	mu     sync.Mutex
	out    io.Writer
	w      *bufio.Writer
	format Format
	buf    []byte
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		gate:   gate{level},
		out:    w,
		w:      bufio.NewWriter(w),
		format: format,
	}
}

// Emit drops write errors: tracing never fails a run.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatNDJSON {
		t.buf = appendNDJSON(t.buf[:0], ev)
	} else {
		t.buf = appendText(t.buf[:0], ev)
	}
	_, _ = t.w.Write(t.buf)
	if ev.Scope <= ScopePhase || ev.Scope == ScopeError {
		_ = t.w.Flush()
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Flush()
}

// Close flushes and closes the destination unless it is stderr.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if _, ok := t.out.(keepOpen); ok {
		return nil
	}
	if c, ok := t.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
