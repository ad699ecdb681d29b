package config

import "time"

// Config is the root configuration structure for netexport.
// It contains the corpus store, export defaults, and telemetry settings.
type Config struct {
	// Store selects and configures the corpus storage backend.
	Store StoreConfig `yaml:"store"`

	// Export contains defaults for export runs, watch mode and scheduling.
	Export ExportConfig `yaml:"export"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig contains configuration for the corpus store.
type StoreConfig struct {
	// Backend is the storage backend type.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// DatasetPath is a YAML dataset file loaded into the memory backend at
	// startup. Required when backend is "memory".
	DatasetPath string `yaml:"dataset_path"`

	// CacheTTL is how long a corpus snapshot is reused by watched and
	// scheduled exports. Writes through the store drop it early.
	// Default: 1m
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/corpus.db"
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite" (modernc.org/sqlite, pure Go), "sqlite3" (mattn/go-sqlite3, cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// DisableWAL turns off Write-Ahead Logging.
	// Default: false
	DisableWAL bool `yaml:"disable_wal"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ExportConfig contains defaults for export runs.
type ExportConfig struct {
	// OutputDir is prepended to relative output paths of export settings.
	// Default: "." (current directory)
	OutputDir string `yaml:"output_dir"`

	// DefaultFormat is used when an export setting names no format.
	// Options: "csv", "dl", "graphml"
	// Default: "csv"
	DefaultFormat string `yaml:"default_format"`

	// Schedule is the cron expression used by the schedule command.
	// Standard five-field syntax, or descriptors such as "@hourly".
	// Default: "0 * * * *" (hourly)
	Schedule string `yaml:"schedule"`

	// WatchDebounce is how long watch mode waits for further file changes
	// before re-running an export.
	// Default: 500ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether export metrics are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "netexport"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "engine"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for export duration (seconds).
	// Default: [0.01, 0.05, 0.1, 0.5, 1, 5, 30]
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// TextfilePath, when set, receives all metrics in the Prometheus text
	// format after every export (for the node exporter textfile collector).
	TextfilePath string `yaml:"textfile_path"`

	// ListenAddress, when set, serves /metrics over HTTP while the schedule
	// command runs. Format: "host:port".
	ListenAddress string `yaml:"listen_address"`
}
