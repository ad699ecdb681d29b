package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"dna-hq/netexport/pkg/cli"
	"dna-hq/netexport/pkg/config"
	"dna-hq/netexport/pkg/export"
	"dna-hq/netexport/pkg/export/schedule"
	"dna-hq/netexport/pkg/export/watch"
	"dna-hq/netexport/pkg/telemetry/health"
)

type scheduleOptions struct {
	schedule    string
	metricsAddr string
	metricsFile string
	runNow      bool
}

var scheduleFlags scheduleOptions

var scheduleCmd = &cobra.Command{
	Use:   "schedule SETTINGS",
	Short: "Run exports periodically",
	Long: `Export every setting under SETTINGS (a file or a directory of .yaml files)
on a cron schedule until interrupted.

A run that is still in progress when the next one is due causes that next
run to be skipped. Each run reads the settings afresh and exports against
the current corpus, reusing a snapshot for store.cache_ttl.

Examples:
  # Use export.schedule from the config
  netexport schedule settings/

  # Every 15 minutes, serving Prometheus metrics
  netexport schedule settings/ --schedule "*/15 * * * *" --metrics-addr :9102`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := cli.SetupSignalHandler(cmd.Context())
		defer stop()
		return runSchedule(ctx, config.GetConfig(), args[0], scheduleFlags, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleFlags.schedule, "schedule", "", "cron expression (overrides export.schedule)")
	scheduleCmd.Flags().StringVar(&scheduleFlags.metricsAddr, "metrics-addr", "", "serve /metrics on this address")
	scheduleCmd.Flags().StringVar(&scheduleFlags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after each run")
	scheduleCmd.Flags().BoolVar(&scheduleFlags.runNow, "run-now", false, "export once immediately before the first scheduled run")
}

func runSchedule(ctx context.Context, cfg *config.Config, path string, opts scheduleOptions, stderr io.Writer) error {
	defaultFormat, err := parseFormat("export.default_format", cfg.Export.DefaultFormat)
	if err != nil {
		return err
	}

	expr := cfg.Export.Schedule
	if opts.schedule != "" {
		expr = opts.schedule
	}

	tel := newTelemetry(cfg.Telemetry.Metrics, opts.metricsFile, opts.metricsAddr)
	listen := opts.metricsAddr
	if listen == "" && cfg.Telemetry.Metrics.Enabled {
		listen = cfg.Telemetry.Metrics.ListenAddress
	}

	store, err := openStore(ctx, &cfg.Store, tel.collector)
	if err != nil {
		return cli.NewCommandError("schedule", err)
	}
	defer store.Close()

	engine := export.NewEngine(
		export.WithRecorder(tel.collector),
		export.WithOutputDir(cfg.Export.OutputDir),
	)

	wcfg := watch.DefaultConfig()
	wcfg.Path = path
	runner := watch.NewRunner(engine, store, wcfg, defaultFormat, func(p string, res *export.Result, err error) {
		if err != nil {
			fmt.Fprintf(stderr, "✗ %s: %v\n", p, err)
			return
		}
		_ = printResults(stderr, false, res)
	})

	runs := health.NewRunTracker()
	job := func(ctx context.Context) error {
		err := exportAll(ctx, runner)
		tel.flush()
		runs.Record(err)
		return err
	}

	sched := schedule.NewScheduler(expr, job)
	if err := sched.Start(ctx); err != nil {
		return cli.NewConfigError("--schedule", err.Error())
	}
	defer sched.Stop()

	if next := sched.NextRun(); next != nil {
		slog.Info("next export run", "at", next.Format("2006-01-02 15:04:05"))
	}

	if opts.runNow {
		if err := sched.RunNow(ctx); err != nil {
			slog.Error("initial export failed", "error", err)
		}
	}

	if listen == "" {
		<-ctx.Done()
		return nil
	}

	checker := health.New(5 * time.Second)
	checker.RegisterCheck("store", func(ctx context.Context) error {
		_, err := store.Snapshot(ctx)
		return err
	})
	checker.RegisterCheck("scheduler", func(context.Context) error {
		if !sched.IsRunning() {
			return fmt.Errorf("scheduler stopped")
		}
		return nil
	})
	checker.RegisterCheck("last_run", runs.Check)

	// Serve blocks until ctx is cancelled.
	err = tel.collector.Serve(ctx, listen, func(mux *http.ServeMux) {
		health.Register(mux, checker, Version, GitCommit, BuildDate)
	})
	if err != nil {
		return cli.NewCommandError("schedule", fmt.Errorf("metrics endpoint: %w", err))
	}
	return nil
}

// exportAll runs every setting once and fails when any export failed.
func exportAll(ctx context.Context, runner *watch.Runner) error {
	failed, err := runner.ExportAll(ctx)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d export(s) failed", failed)
	}
	return nil
}
