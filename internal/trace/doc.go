// Package trace provides the tracing subsystem of linkdiag.
//
// Tracing records scan phases and per-log work so slow or stuck scans over
// large build trees can be diagnosed.
//
// # Usage
//
//	linkdiag scan --trace=- --trace-level=phase build/logs
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: circular buffer dumped on crash
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelPhase: the scan span and its phases
//   - LevelDetail: plus per-log spans and cache points
//
// Events are numbered in creation order (Event.Order), so a stream and a
// ring fed by the same MultiTracer print the same numbers.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "classify", 0)
//	defer span.End("")
package trace
