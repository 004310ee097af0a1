package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rosetta-hq/rosetta/pkg/config"
	"rosetta-hq/rosetta/pkg/rtl/schema"
	"rosetta-hq/rosetta/pkg/telemetry/metrics"
)

func writeTemplate(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLintFile(t *testing.T) {
	dir := t.TempDir()
	good := writeTemplate(t, dir, "good.md", "{{content.source}}")
	bad := writeTemplate(t, dir, "bad.md", "{{#if content.source}}no close")

	if r := lintFile(good, schema.StageTranslation); !r.Safe || len(r.Errors) != 0 {
		t.Errorf("clean template reported unsafe: %+v", r)
	}
	if r := lintFile(bad, schema.StageTranslation); r.Safe || len(r.Errors) == 0 {
		t.Errorf("unclosed block reported safe: %+v", r)
	}
}

func TestRecordLintMetrics(t *testing.T) {
	collector := metrics.NewCollector(nil, nil)

	recordLintMetrics(collector, schema.StageTranslation, []LintResult{
		{File: "a.md", Safe: true},
		{File: "b.md", Safe: true},
		{File: "c.md", Safe: false},
	})

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	if !strings.Contains(body, `rosetta_validations_total{outcome="safe",stage="translation"} 2`) {
		t.Errorf("safe validations missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, `rosetta_validations_total{outcome="unsafe",stage="translation"} 1`) {
		t.Errorf("unsafe validation missing from exposition:\n%s", body)
	}
}

func TestRecordLintMetrics_NilCollector(t *testing.T) {
	recordLintMetrics(nil, schema.StageTranslation, []LintResult{{File: "a.md", Safe: true}})
}

func TestNewCollector_GatedByConfig(t *testing.T) {
	cfg := config.Default()

	cfg.Telemetry.Metrics.Enabled = false
	if newCollector(cfg) != nil {
		t.Error("collector created with metrics disabled")
	}

	cfg.Telemetry.Metrics.Enabled = true
	if newCollector(cfg) == nil {
		t.Error("no collector with metrics enabled")
	}
}
