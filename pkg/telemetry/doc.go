// Package telemetry groups the engine's observability concerns.
//
//   - logging: structured logging on log/slog
//   - metrics: Prometheus metrics for renders, diagnostics, and caching
package telemetry
