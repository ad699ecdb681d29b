package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dna-hq/netexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "metrics",
		DurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if !collector.Enabled() {
		t.Error("Expected collector to be enabled")
	}
}

func TestCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("Expected a private registry")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace || cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("Expected default namespace/subsystem, got %q/%q", cfg.Namespace, cfg.Subsystem)
	}
	if len(cfg.DurationBuckets) != len(config.DefaultDurationBuckets) {
		t.Errorf("Expected default buckets, got %v", cfg.DurationBuckets)
	}
}

func TestCollector_RecordExport(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordExport("twoMode", "csv", "success", 200*time.Millisecond)
	collector.RecordExport("twoMode", "csv", "success", 300*time.Millisecond)
	collector.RecordExport("eventList", "csv", "error", time.Millisecond)

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("twoMode", "csv", "success")); got != 2 {
		t.Errorf("Expected 2 successful twoMode exports, got %v", got)
	}
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("eventList", "csv", "error")); got != 1 {
		t.Errorf("Expected 1 failed eventList export, got %v", got)
	}
	if got := testutil.CollectAndCount(em.exportDuration); got != 2 {
		t.Errorf("Expected 2 duration series, got %d", got)
	}
}

func TestCollector_RecordFilteredAndNetwork(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordFiltered(3)
	collector.RecordFiltered(4)
	collector.RecordNetwork("twoMode", 2, 3, 4, true)
	collector.RecordNetwork("oneMode", 5, 5, 6, false)

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.statementsFiltered); got != 7 {
		t.Errorf("Expected 7 filtered statements, got %v", got)
	}
	if got := testutil.ToFloat64(em.networkNodes.WithLabelValues("twoMode", "2")); got != 3 {
		t.Errorf("Expected 3 column nodes, got %v", got)
	}
	if got := testutil.ToFloat64(em.networkEdges.WithLabelValues("oneMode")); got != 6 {
		t.Errorf("Expected 6 one-mode edges, got %v", got)
	}
	// One-mode networks have a single side.
	if got := testutil.CollectAndCount(em.networkNodes); got != 3 {
		t.Errorf("Expected 3 node series, got %d", got)
	}
}

func TestCollector_Cache(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordCacheMiss()
	collector.RecordCacheHit()
	collector.RecordCacheHit()
	collector.RecordCacheInvalidation()

	cm := collector.cacheMetrics
	if got := testutil.ToFloat64(cm.hitsTotal.WithLabelValues(SnapshotCache)); got != 2 {
		t.Errorf("Expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(cm.missesTotal.WithLabelValues(SnapshotCache)); got != 1 {
		t.Errorf("Expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(cm.invalidationsTotal.WithLabelValues(SnapshotCache)); got != 1 {
		t.Errorf("Expected 1 invalidation, got %v", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordExport("twoMode", "csv", "success", time.Second)
	collector.RecordFiltered(10)
	collector.RecordNetwork("twoMode", 1, 1, 1, true)
	collector.RecordCacheHit()

	if got := testutil.CollectAndCount(collector.exportMetrics.exportsTotal); got != 0 {
		t.Errorf("Expected no export series when disabled, got %d", got)
	}
	if got := testutil.ToFloat64(collector.exportMetrics.statementsFiltered); got != 0 {
		t.Errorf("Expected no filtered statements when disabled, got %v", got)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordExport("oneMode", "graphml", "success", time.Second)

	path := filepath.Join(t.TempDir(), "netexport.prom")
	if err := collector.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), `test_metrics_exports_total{format="graphml",network_type="oneMode",status="success"} 1`) {
		t.Errorf("Expected exports_total sample in textfile, got:\n%s", data)
	}
}

func TestCollector_WriteTextfile_BadPath(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	if err := collector.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Fatal("Expected error for missing directory")
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordFiltered(5)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_metrics_statements_filtered_total 5") {
		t.Errorf("Expected filtered counter in body, got:\n%s", rec.Body.String())
	}
}

func TestCollector_ServeStopsOnCancel(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- collector.Serve(ctx, "127.0.0.1:0") }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
