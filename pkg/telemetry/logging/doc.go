// Package logging provides structured logging for netexport.
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output formats
//   - Configurable log levels (debug, info, warn, error)
//   - Export-scoped context fields (run_id, statement_type, network_type)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	ctx = logging.WithRunID(ctx, runID)
//	logging.FromContext(ctx, nil).Info("export finished", "statements", 42)
//
// Components log through slog.Default().With("component", name), so the
// logger installed by SetDefault governs every package.
package logging
