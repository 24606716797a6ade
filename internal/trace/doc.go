// Package trace provides structured tracing for regionck.
//
// Solving is traced as nested spans: the driver span wraps one pass
// span per problem file, which wraps one span per function. Region-level
// events (element insertions, row merges) are only emitted at LevelDebug.
//
// # Usage
//
//	regionck solve --trace=- --trace-level=detail problems.toml
//
// # Tracers
//
//   - Nop: disabled tracing
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for dumps after a contract failure
//   - MultiTracer: fans out to several tracers
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFunc, "solve:f", parent)
//	defer span.End("")
package trace
