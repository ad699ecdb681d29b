package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netexport.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: "sqlite"
  cache_ttl: "30s"
  sqlite:
    path: "./corpus.db"
    driver: "sqlite3"

export:
  output_dir: "out"
  default_format: "dl"
  schedule: "@hourly"

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.CacheTTL != 30*time.Second {
		t.Errorf("expected cache TTL %v, got %v", 30*time.Second, cfg.Store.CacheTTL)
	}
	if cfg.Store.SQLite.Driver != "sqlite3" {
		t.Errorf("expected driver %q, got %q", "sqlite3", cfg.Store.SQLite.Driver)
	}
	if cfg.Export.OutputDir != "out" {
		t.Errorf("expected output dir %q, got %q", "out", cfg.Export.OutputDir)
	}
	if cfg.Export.DefaultFormat != "dl" {
		t.Errorf("expected format %q, got %q", "dl", cfg.Export.DefaultFormat)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}
	// Defaults fill the rest.
	if cfg.Store.SQLite.MaxOpenConns != DefaultSQLiteMaxOpenConns {
		t.Errorf("expected max open conns %d, got %d", DefaultSQLiteMaxOpenConns, cfg.Store.SQLite.MaxOpenConns)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "store: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: "postgres"
`)
	_, err := LoadConfig(path)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: "sqlite"
telemetry:
  logging:
    level: "info"
`)

	t.Setenv("NETEXPORT_STORE_SQLITE_PATH", "/tmp/env.db")
	t.Setenv("NETEXPORT_STORE_CACHE_TTL", "2m")
	t.Setenv("NETEXPORT_STORE_SQLITE_MAX_OPEN_CONNS", "3")
	t.Setenv("NETEXPORT_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("NETEXPORT_TELEMETRY_METRICS_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.SQLite.Path != "/tmp/env.db" {
		t.Errorf("expected sqlite path %q, got %q", "/tmp/env.db", cfg.Store.SQLite.Path)
	}
	if cfg.Store.CacheTTL != 2*time.Minute {
		t.Errorf("expected cache TTL %v, got %v", 2*time.Minute, cfg.Store.CacheTTL)
	}
	if cfg.Store.SQLite.MaxOpenConns != 3 {
		t.Errorf("expected max open conns 3, got %d", cfg.Store.SQLite.MaxOpenConns)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by environment")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("NETEXPORT_STORE_SQLITE_MAX_OPEN_CONNS", "many")
	t.Setenv("NETEXPORT_STORE_CACHE_TTL", "soon")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.SQLite.MaxOpenConns != DefaultSQLiteMaxOpenConns {
		t.Errorf("expected default max open conns, got %d", cfg.Store.SQLite.MaxOpenConns)
	}
	if cfg.Store.CacheTTL != DefaultStoreCacheTTL {
		t.Errorf("expected default cache TTL, got %v", cfg.Store.CacheTTL)
	}
}

func TestLoadConfigWithEnvOverrides_ValidationAfterOverride(t *testing.T) {
	t.Setenv("NETEXPORT_EXPORT_DEFAULT_FORMAT", "pdf")

	if _, err := LoadConfigWithEnvOverrides(""); err == nil {
		t.Fatal("expected validation error from environment override")
	}
}
