package metrics

import (
	"fmt"
	"time"

	"dna-hq/netexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotCache is the cache label used for the corpus snapshot cache.
const SnapshotCache = "snapshot"

// Collector owns every netexport metric and the registry they live in.
// All Record methods are no-ops when metrics are disabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	exportMetrics *ExportMetrics
	cacheMetrics  *CacheMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a private registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "netexport",
//		Subsystem: "engine",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		exportMetrics: NewExportMetrics(cfg, registry),
		cacheMetrics:  NewCacheMetrics(cfg, registry),
	}
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// RecordExport records a finished export run.
//
// Parameters:
//   - networkType: "oneMode", "twoMode" or "eventList"
//   - format: output format ("csv", "dl", "graphml")
//   - status: "success", "empty" or "error"
//   - duration: wall time of the run
func (c *Collector) RecordExport(networkType, format, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.exportMetrics.RecordExport(networkType, format, status, duration)
}

// RecordFiltered records the number of statements that passed the filter.
func (c *Collector) RecordFiltered(n int) {
	if !c.config.Enabled {
		return
	}

	c.exportMetrics.RecordFiltered(n)
}

// RecordNetwork records the size of a built network.
func (c *Collector) RecordNetwork(networkType string, rows, cols, edges int, twoMode bool) {
	if !c.config.Enabled {
		return
	}

	c.exportMetrics.RecordNetwork(networkType, rows, cols, edges, twoMode)
}

// RecordCacheHit records a snapshot cache hit.
func (c *Collector) RecordCacheHit() {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordHit(SnapshotCache)
}

// RecordCacheMiss records a snapshot cache miss.
func (c *Collector) RecordCacheMiss() {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordMiss(SnapshotCache)
}

// RecordCacheInvalidation records a snapshot cache invalidation.
func (c *Collector) RecordCacheInvalidation() {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordInvalidation(SnapshotCache)
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for the node exporter textfile collector. The file is
// replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %q: %w", path, err)
	}
	return nil
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
