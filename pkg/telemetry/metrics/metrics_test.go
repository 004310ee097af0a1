package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordRender(t *testing.T) {
	c := NewCollector(nil, prometheus.NewRegistry())

	c.RecordRender("translation", "success", 5*time.Millisecond)
	c.RecordRender("translation", "success", 7*time.Millisecond)
	c.RecordRender("proofreading", "error", time.Millisecond)

	if got := testutil.ToFloat64(c.rendersTotal.WithLabelValues("translation", "success")); got != 2 {
		t.Errorf("renders_total{translation,success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.rendersTotal.WithLabelValues("proofreading", "error")); got != 1 {
		t.Errorf("renders_total{proofreading,error} = %v, want 1", got)
	}
}

func TestCollector_RecordDiagnosticAndValidation(t *testing.T) {
	c := NewCollector(nil, prometheus.NewRegistry())

	c.RecordDiagnostic("stage", "warning")
	c.RecordDiagnostic("stage", "warning")
	c.RecordValidation("translation", "unsafe")
	c.RecordCacheLookup("hit")

	if got := testutil.ToFloat64(c.diagnosticsTotal.WithLabelValues("stage", "warning")); got != 2 {
		t.Errorf("diagnostics_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.validationsTotal.WithLabelValues("translation", "unsafe")); got != 1 {
		t.Errorf("validations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.cacheLookupsTotal.WithLabelValues("hit")); got != 1 {
		t.Errorf("cache_lookups_total = %v, want 1", got)
	}
}

func TestCollector_NilConfigUsesDefaults(t *testing.T) {
	c := NewCollector(nil, nil)
	if c.Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}
