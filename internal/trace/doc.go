// Package trace records span events for a diff run: the run itself, the model
// loads, and every evaluator invocation.
//
// Enable it from the command line:
//
//	shapediff diff --trace=- --trace-level=detail old.json new.json
//
// Tracers:
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// Scopes map onto levels: LevelPhase shows ScopeRun and ScopeLoad, LevelDetail adds
// ScopeEvaluator, LevelDebug shows everything.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeEvaluator, name, parent)
//	defer span.End("")
package trace
