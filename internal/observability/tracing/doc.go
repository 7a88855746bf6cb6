// Package tracing integrates OpenTelemetry with the HTTP stack and the
// resilience wrappers.
//
// Spans are created through the globally registered TracerProvider, so a
// process that never installs one pays only for the no-op tracer. Incoming
// W3C trace context is honoured and the trace ID is echoed back in the
// X-Trace-Id response header.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "listing.featured")
//	defer span.End()
package tracing
