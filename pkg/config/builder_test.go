package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts from defaults and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a ConfigBuilder holding a valid default configuration.
func NewTestConfig() *ConfigBuilder {
	var cfg Config
	ApplyDefaults(&cfg)
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithMemoryStore switches to the memory backend loading path.
func (b *ConfigBuilder) WithMemoryStore(path string) *ConfigBuilder {
	b.cfg.Store.Backend = "memory"
	b.cfg.Store.DatasetPath = path
	return b
}

// WithSQLiteDriver sets the SQLite driver name.
func (b *ConfigBuilder) WithSQLiteDriver(driver string) *ConfigBuilder {
	b.cfg.Store.SQLite.Driver = driver
	return b
}

// WithCacheTTL sets the snapshot cache TTL.
func (b *ConfigBuilder) WithCacheTTL(ttl time.Duration) *ConfigBuilder {
	b.cfg.Store.CacheTTL = ttl
	return b
}

// WithDefaultFormat sets the default export format.
func (b *ConfigBuilder) WithDefaultFormat(format string) *ConfigBuilder {
	b.cfg.Export.DefaultFormat = format
	return b
}

// WithSchedule sets the cron schedule.
func (b *ConfigBuilder) WithSchedule(schedule string) *ConfigBuilder {
	b.cfg.Export.Schedule = schedule
	return b
}

// WithLogging sets the logging level and format.
func (b *ConfigBuilder) WithLogging(level, format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	b.cfg.Telemetry.Logging.Format = format
	return b
}

// WithMetricsListenAddress sets the metrics HTTP address.
func (b *ConfigBuilder) WithMetricsListenAddress(addr string) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.ListenAddress = addr
	return b
}
