// Package trace is the structured logging layer of segpub.
//
// It records what the validator is doing (loading reports, parsing records,
// rendering diagnostics) as a stream of events, so a slow directory check or
// an unexpected rejection can be followed after the fact.
//
// # Usage
//
//	segpub check --trace=- --trace-level=debug reports/
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: reserved, nothing is emitted
//   - LevelPhase: driver and pass boundaries (load, parse, render)
//   - LevelDetail: per-file events of a directory check
//   - LevelDebug: everything, including one point per parsed record
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
