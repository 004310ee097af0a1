package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls how engine metrics are named.
type Config struct {
	// Namespace is the metric name prefix. Default: "rosetta".
	Namespace string

	// RenderDurationBuckets are the histogram buckets for render timing,
	// in seconds.
	RenderDurationBuckets []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace:             "rosetta",
		RenderDurationBuckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}
}

// Collector owns the engine's Prometheus metrics and their registry.
type Collector struct {
	registry *prometheus.Registry

	rendersTotal      *prometheus.CounterVec
	renderDuration    *prometheus.HistogramVec
	diagnosticsTotal  *prometheus.CounterVec
	validationsTotal  *prometheus.CounterVec
	cacheLookupsTotal *prometheus.CounterVec
}

// NewCollector creates a collector with all engine metrics registered.
// A nil registry creates a fresh one, keeping tests isolated from the
// global default registry.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		rendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "renders_total",
				Help:      "Total number of template renders by stage and status",
			},
			[]string{"stage", "status"},
		),

		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of template renders in seconds",
				Buckets:   cfg.RenderDurationBuckets,
			},
			[]string{"stage"},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "diagnostics_total",
				Help:      "Diagnostics produced, by category and severity",
			},
			[]string{"category", "severity"},
		),

		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "validations_total",
				Help:      "Template validations by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),

		cacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_lookups_total",
				Help:      "Render cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		c.rendersTotal,
		c.renderDuration,
		c.diagnosticsTotal,
		c.validationsTotal,
		c.cacheLookupsTotal,
	)

	return c
}

// RecordRender records one completed render.
// status is "success" or "error".
func (c *Collector) RecordRender(stage, status string, duration time.Duration) {
	c.rendersTotal.WithLabelValues(stage, status).Inc()
	c.renderDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDiagnostic counts one diagnostic by category and severity.
func (c *Collector) RecordDiagnostic(category, severity string) {
	c.diagnosticsTotal.WithLabelValues(category, severity).Inc()
}

// RecordValidation records one validation pass.
// outcome is "safe" or "unsafe".
func (c *Collector) RecordValidation(stage, outcome string) {
	c.validationsTotal.WithLabelValues(stage, outcome).Inc()
}

// RecordCacheLookup records one render cache lookup.
// result is "hit" or "miss".
func (c *Collector) RecordCacheLookup(result string) {
	c.cacheLookupsTotal.WithLabelValues(result).Inc()
}
