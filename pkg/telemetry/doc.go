// Package telemetry groups the observability packages of netexport.
//
// # Components
//
//   - logging: log/slog setup (json, text and console output) and
//     context fields for export runs
//   - metrics: Prometheus collector for export runs and the snapshot cache,
//     with a textfile writer and an HTTP endpoint
//   - health: liveness and readiness endpoints for the schedule command
//
// # Usage
//
//	cfg := config.GetConfig()
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//		return err
//	}
//	logger.SetDefault()
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	engine := export.NewEngine(export.WithRecorder(collector))
package telemetry
