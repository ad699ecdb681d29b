package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Store.Backend != DefaultStoreBackend {
		t.Errorf("expected backend %q, got %q", DefaultStoreBackend, cfg.Store.Backend)
	}
	if cfg.Store.CacheTTL != DefaultStoreCacheTTL {
		t.Errorf("expected cache TTL %v, got %v", DefaultStoreCacheTTL, cfg.Store.CacheTTL)
	}
	if cfg.Store.SQLite.Path != DefaultSQLitePath {
		t.Errorf("expected sqlite path %q, got %q", DefaultSQLitePath, cfg.Store.SQLite.Path)
	}
	if cfg.Store.SQLite.Driver != DefaultSQLiteDriver {
		t.Errorf("expected driver %q, got %q", DefaultSQLiteDriver, cfg.Store.SQLite.Driver)
	}
	if cfg.Export.DefaultFormat != DefaultExportFormat {
		t.Errorf("expected format %q, got %q", DefaultExportFormat, cfg.Export.DefaultFormat)
	}
	if cfg.Export.Schedule != DefaultExportSchedule {
		t.Errorf("expected schedule %q, got %q", DefaultExportSchedule, cfg.Export.Schedule)
	}
	if cfg.Telemetry.Logging.Level != DefaultLogLevel {
		t.Errorf("expected log level %q, got %q", DefaultLogLevel, cfg.Telemetry.Logging.Level)
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) != len(DefaultDurationBuckets) {
		t.Errorf("expected %d buckets, got %d", len(DefaultDurationBuckets), len(cfg.Telemetry.Metrics.DurationBuckets))
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled by default")
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := Config{
		Store: StoreConfig{
			Backend:  "memory",
			CacheTTL: 5 * time.Second,
		},
		Export: ExportConfig{DefaultFormat: "graphml"},
	}
	ApplyDefaults(&cfg)

	if cfg.Store.Backend != "memory" {
		t.Errorf("expected backend %q, got %q", "memory", cfg.Store.Backend)
	}
	if cfg.Store.CacheTTL != 5*time.Second {
		t.Errorf("expected cache TTL %v, got %v", 5*time.Second, cfg.Store.CacheTTL)
	}
	if cfg.Export.DefaultFormat != "graphml" {
		t.Errorf("expected format %q, got %q", "graphml", cfg.Export.DefaultFormat)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	before := *cfg
	ApplyDefaults(cfg)

	if cfg.Store != before.Store || cfg.Export != before.Export {
		t.Error("expected ApplyDefaults to be idempotent")
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Metrics.DurationBuckets[0] = 99

	if DefaultDurationBuckets[0] == 99 {
		t.Fatal("default buckets were modified through a config")
	}
}
