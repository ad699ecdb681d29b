package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dna-hq/netexport/pkg/cli"
	"dna-hq/netexport/pkg/config"
	"dna-hq/netexport/pkg/export"
	"dna-hq/netexport/pkg/export/watch"
)

type exportOptions struct {
	output      string
	format      string
	watch       bool
	metricsFile string
	json        bool
}

var exportFlags exportOptions

var exportCmd = &cobra.Command{
	Use:   "export SETTING",
	Short: "Run an export from a setting file",
	Long: `Run one export described by a YAML setting file.

Network exports without an output file are written to stdout. Event lists
always need an output file. Results are summarized on stderr, or printed
as JSON on stdout with --json.

With --watch, SETTING may be a directory. Every setting in it is exported
once, and again whenever its file changes, until interrupted.

Examples:
  # Export with the setting's own output and format
  netexport export settings/actors.yaml

  # Override output file and format
  netexport export settings/actors.yaml --output out/actors --format dl

  # Pipe a CSV matrix
  netexport export settings/actors.yaml --output - | head

  # Re-export a directory of settings on change
  netexport export settings/ --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := cli.SetupSignalHandler(cmd.Context())
		defer stop()
		return runExport(ctx, config.GetConfig(), args[0], exportFlags, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file, extension added when missing (\"-\" for stdout)")
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "", "output format: csv, dl, graphml")
	exportCmd.Flags().BoolVarP(&exportFlags.watch, "watch", "w", false, "re-run the export when the setting changes")
	exportCmd.Flags().StringVar(&exportFlags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after each export")
	exportCmd.Flags().BoolVar(&exportFlags.json, "json", false, "print results as JSON on stdout")
}

func runExport(ctx context.Context, cfg *config.Config, path string, opts exportOptions, stdout, stderr io.Writer) error {
	defaultFormat, err := parseFormat("export.default_format", cfg.Export.DefaultFormat)
	if err != nil {
		return err
	}

	var format export.Format
	if opts.format != "" {
		if format, err = parseFormat("--format", opts.format); err != nil {
			return err
		}
	}

	if opts.watch && (opts.output != "" || opts.format != "") {
		return cli.NewConfigError("--watch", "cannot be combined with --output or --format; set them in the setting files")
	}

	var setting *export.ExportSetting
	if !opts.watch {
		setting, err = export.LoadSettingWithFormat(path, defaultFormat)
		if err != nil {
			return cli.NewCommandError("export", err)
		}
		applyOverrides(setting, format, opts.output)

		if opts.json && setting.Output == "" {
			return cli.NewConfigError("--json", "needs an output file; the network would be written to stdout")
		}
	}

	tel := newTelemetry(cfg.Telemetry.Metrics, opts.metricsFile, "")

	store, err := openStore(ctx, &cfg.Store, tel.collector)
	if err != nil {
		return cli.NewCommandError("export", err)
	}
	defer store.Close()

	engine := export.NewEngine(
		export.WithRecorder(tel.collector),
		export.WithOutputDir(cfg.Export.OutputDir),
		export.WithStdout(stdout),
	)

	if opts.watch {
		wcfg := watch.DefaultConfig()
		wcfg.Path = path
		wcfg.DebounceInterval = cfg.Export.WatchDebounce

		runner := watch.NewRunner(engine, store, wcfg, defaultFormat, func(p string, res *export.Result, err error) {
			tel.flush()
			if err != nil {
				fmt.Fprintf(stderr, "✗ %s: %v\n", p, err)
				return
			}
			if opts.json {
				_ = printResults(stdout, true, res)
				return
			}
			_ = printResults(stderr, false, res)
		})

		if err := runner.Run(ctx); err != nil {
			return cli.NewCommandError("export", err)
		}
		return nil
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	res, err := engine.Run(ctx, snap, setting)
	tel.flush()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return cli.NewCommandError("export", err)
	}

	if opts.json {
		return printResults(stdout, true, res)
	}
	return printResults(stderr, false, res)
}

// applyOverrides applies --format and --output to setting. An output of "-"
// selects stdout.
func applyOverrides(setting *export.ExportSetting, format export.Format, output string) {
	if format != "" {
		setting.Format = format
	}
	switch output {
	case "":
	case "-":
		setting.Output = ""
	default:
		setting.Output = output
	}
}
