// Package trace records what the cavvy tool is doing while it loads
// program documents and generates IR.
//
// Events are spans (begin/end pairs) or instant points. Every event has a
// scope; the configured level decides which scopes are kept:
//
//   - ScopeDriver: pipeline stages (load, generate, write)
//   - ScopePass:   one code generation run
//   - ScopeModule: one class
//   - ScopeNode:   one generated function
//
// A tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "load", 0)
//	defer span.End("")
package trace
