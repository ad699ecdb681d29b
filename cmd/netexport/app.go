package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"dna-hq/netexport/pkg/cli"
	"dna-hq/netexport/pkg/config"
	"dna-hq/netexport/pkg/corpus"
	"dna-hq/netexport/pkg/corpus/storage"
	"dna-hq/netexport/pkg/export"
	"dna-hq/netexport/pkg/telemetry/metrics"
)

// openStore opens the configured corpus store behind the snapshot cache.
func openStore(ctx context.Context, cfg *config.StoreConfig, observer storage.CacheObserver) (*storage.CachedStorage, error) {
	var inner corpus.Storage

	switch cfg.Backend {
	case "memory":
		mem, err := storage.OpenDataset(ctx, cfg.DatasetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		inner = mem
	case "sqlite":
		db, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.SQLite.Path,
			Driver:       cfg.SQLite.Driver,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      !cfg.SQLite.DisableWAL,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		inner = db
	default:
		return nil, cli.NewConfigError("store.backend", fmt.Sprintf("unsupported backend %q", cfg.Backend))
	}

	cached := storage.NewCachedStorage(inner, cfg.CacheTTL)
	cached.SetObserver(observer)

	slog.Debug("corpus store opened", "backend", cfg.Backend, "cache_ttl", cfg.CacheTTL)
	return cached, nil
}

// telemetry holds the metrics collector of one command invocation.
type telemetry struct {
	collector *metrics.Collector
	textfile  string
}

// newTelemetry builds a collector from cfg. A textfile path or listen
// address given on the command line enables metrics and takes precedence
// over the configured one.
func newTelemetry(cfg config.MetricsConfig, textfile, listen string) *telemetry {
	if textfile != "" {
		cfg.TextfilePath = textfile
		cfg.Enabled = true
	}
	if listen != "" {
		cfg.ListenAddress = listen
		cfg.Enabled = true
	}

	return &telemetry{
		collector: metrics.NewCollector(&cfg, nil),
		textfile:  cfg.TextfilePath,
	}
}

// flush writes the textfile, when one is configured. Failures are logged;
// they never fail an export.
func (t *telemetry) flush() {
	if t.textfile == "" || !t.collector.Enabled() {
		return
	}
	if err := t.collector.WriteTextfile(t.textfile); err != nil {
		slog.Warn("failed to write metrics textfile", "path", t.textfile, "error", err)
	}
}

// parseFormat converts a --format flag or config value to an export.Format.
func parseFormat(field, s string) (export.Format, error) {
	switch f := export.Format(s); f {
	case export.FormatCSV, export.FormatDL, export.FormatGraphML:
		return f, nil
	default:
		return "", cli.NewConfigError(field, fmt.Sprintf("unknown format %q (valid: csv, dl, graphml)", s))
	}
}

// printResults writes export results as JSON, or as a table.
func printResults(w io.Writer, asJSON bool, results ...*export.Result) error {
	format := cli.FormatText
	if asJSON {
		format = cli.FormatJSON
	}
	return cli.NewFormatter(format).FormatTo(w, cli.ResultTable(results))
}
