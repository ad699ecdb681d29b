// Package metrics provides Prometheus metrics for export runs.
//
// # Metrics
//
//   - exports_total{network_type,format,status}
//   - export_duration_seconds{network_type}
//   - statements_filtered_total
//   - network_nodes{network_type,side}
//   - network_edges{network_type}
//   - cache_hits_total, cache_misses_total, cache_invalidations_total{cache}
//
// All names carry the configured namespace and subsystem
// (netexport_engine_ by default).
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	engine := export.NewEngine(export.WithRecorder(collector))
//
// Metrics reach Prometheus either through a node exporter textfile
// (WriteTextfile after each run) or through Serve, which exposes /metrics
// while a long-running command is active.
package metrics
