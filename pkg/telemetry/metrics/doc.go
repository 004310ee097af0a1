// Package metrics exposes the engine's Prometheus metrics: render counts
// and timings, diagnostics by category and severity, validation outcomes,
// and render cache hit rates.
package metrics
