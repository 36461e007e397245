package trace

import "context"

type ctxKey struct{}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanKey struct{}

// ParentSpan returns the span ID attached by WithParent, or 0.
func ParentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// WithParent marks spanID as the parent of spans started from ctx.
func WithParent(ctx context.Context, spanID uint64) context.Context {
	return context.WithValue(ctx, spanKey{}, spanID)
}

// Start opens a span using the tracer and parent carried by ctx, and returns a
// context whose parent is the new span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, ParentSpan(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return WithParent(ctx, span.ID()), span
}
