// Package trace records what the intersection engine is doing.
//
// Tracing is off by default. With --trace the driver installs a Tracer in
// the context and every stage pulls it with FromContext:
//
//	apisect intersect --trace=- --trace-level=detail
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: everything into a ring buffer, dumped only when the run fails
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: one span per type identity
//   - LevelDebug: every member exclusion decision
//
// # Tracers
//
//   - Nop: zero-cost default
//   - StreamTracer: text or NDJSON, written as events arrive
//   - RingTracer: last N events in memory
//   - MultiTracer: both
//
// Spans nest through the context:
//
//	sp := trace.Begin(tr, trace.ScopePass, "types", trace.ParentSpan(ctx))
//	ctx = trace.WithSpan(ctx, sp)
//	defer sp.End("")
package trace
