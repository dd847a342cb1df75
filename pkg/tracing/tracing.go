// Package tracing wraps OpenTelemetry span creation so callers never need a
// tracer handle. Until SetTracer is called, StartSpan is a no-op that reuses
// whatever span already rides on the context.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

// SetTracer sets the tracer used for all spans started by this package.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan starts a span with the given name. When no tracer is configured
// it returns the context unchanged and the span already on it, so callers can
// defer span.End() unconditionally.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name)
}

// GetActiveSpan returns the span on the context, or nil when there is none.
func GetActiveSpan(ctx context.Context) trace.Span {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}

// GetTraceParent returns the W3C traceparent header value for the context.
func GetTraceParent(ctx context.Context) string {
	return carrierValue(ctx, "traceparent")
}

// GetTraceState returns the W3C tracestate header value for the context.
func GetTraceState(ctx context.Context) string {
	return carrierValue(ctx, "tracestate")
}

// GetTraceID returns the hex trace ID on the context, or empty.
func GetTraceID(ctx context.Context) string {
	span := GetActiveSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// GetSpanID returns the hex span ID on the context, or empty.
func GetSpanID(ctx context.Context) string {
	span := GetActiveSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().SpanID().String()
}

func carrierValue(ctx context.Context, key string) string {
	propagator := propagation.TraceContext{}
	carrier := propagation.MapCarrier{}
	propagator.Inject(ctx, carrier)
	return carrier.Get(key)
}
