package metrics

import (
	"time"

	"dna-hq/netexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks export runs.
//
// Metrics:
//   - netexport_engine_exports_total: Export runs by network type, format, status
//   - netexport_engine_export_duration_seconds: Export run duration histogram
//   - netexport_engine_statements_filtered_total: Statements surviving the filter
//   - netexport_engine_network_nodes: Node count of the last network per side
//   - netexport_engine_network_edges: Edge count of the last network
type ExportMetrics struct {
	exportsTotal       *prometheus.CounterVec
	exportDuration     *prometheus.HistogramVec
	statementsFiltered prometheus.Counter
	networkNodes       *prometheus.GaugeVec
	networkEdges       *prometheus.GaugeVec
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "exports_total",
				Help:      "Total number of export runs",
			},
			[]string{"network_type", "format", "status"},
		),

		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "export_duration_seconds",
				Help:      "Duration of export runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"network_type"},
		),

		statementsFiltered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "statements_filtered_total",
				Help:      "Total number of statements that passed the export filter",
			},
		),

		networkNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "network_nodes",
				Help:      "Number of nodes in the most recently built network",
			},
			[]string{"network_type", "side"},
		),

		networkEdges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "network_edges",
				Help:      "Number of edges in the most recently built network",
			},
			[]string{"network_type"},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.exportDuration,
		em.statementsFiltered,
		em.networkNodes,
		em.networkEdges,
	)

	return em
}

// RecordExport records a finished export run.
func (em *ExportMetrics) RecordExport(networkType, format, status string, duration time.Duration) {
	em.exportsTotal.WithLabelValues(networkType, format, status).Inc()
	em.exportDuration.WithLabelValues(networkType).Observe(duration.Seconds())
}

// RecordFiltered adds n statements to the filtered total.
func (em *ExportMetrics) RecordFiltered(n int) {
	em.statementsFiltered.Add(float64(n))
}

// RecordNetwork sets the node and edge gauges for a network. Side "1" counts
// variable 1 nodes (matrix rows), side "2" variable 2 nodes (matrix
// columns); one-mode networks only have side "1".
func (em *ExportMetrics) RecordNetwork(networkType string, rows, cols, edges int, twoMode bool) {
	em.networkNodes.WithLabelValues(networkType, "1").Set(float64(rows))
	if twoMode {
		em.networkNodes.WithLabelValues(networkType, "2").Set(float64(cols))
	}
	em.networkEdges.WithLabelValues(networkType).Set(float64(edges))
}
