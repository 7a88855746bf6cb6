// Package observability groups the logging, metrics, SLO and tracing
// packages shared by the listing API and the cache warmer.
//
// Subpackages:
//   - logging: slog setup and request-scoped loggers
//   - metrics: process-wide Prometheus metrics for HTTP, database and listing reads
//   - slo: service level indicators derived from recent requests
//   - tracing: OpenTelemetry HTTP middleware and the service tracer
package observability
