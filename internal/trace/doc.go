// Package trace records what a cslayout run is doing: which files are being
// read, parsed, scanned and fixed, and which rules misbehave.
//
//	cslayout check --trace=- --trace-level=detail src/
//
// Sinks are StreamTracer (file or stderr, text or NDJSON), RingTracer (the
// newest events in memory, dumped at exit) and MultiTracer. Nop costs nothing.
//
// Levels select scopes: phase shows the driver and phase spans, detail adds a
// span per file, debug adds rule events. Errors pass every level but off.
//
// The tracer and the innermost span travel in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	run := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check", trace.CurrentSpan(ctx).SpanID)
//	defer run.End("")
//	ctx = trace.WithSpan(ctx, run)
package trace
