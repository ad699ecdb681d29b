package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dna-hq/netexport/pkg/cli"
	"dna-hq/netexport/pkg/config"
	"dna-hq/netexport/pkg/corpus"
	"dna-hq/netexport/pkg/export"
	"dna-hq/netexport/pkg/telemetry/metrics"
)

var validateCmd = &cobra.Command{
	Use:   "validate SETTING...",
	Short: "Validate export settings against the corpus",
	Long: `Check export setting files without writing any output.

Each setting is parsed and validated against the statement types of the
configured store: the statement type must exist, variables must be declared
on it, a qualifier must be boolean or integer, and the format must suit the
network type. All problems of a setting are reported together.

Examples:
  # Validate one setting
  netexport validate settings/actors.yaml

  # Validate several settings
  netexport validate settings/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.Context(), config.GetConfig(), args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, cfg *config.Config, paths []string, w io.Writer) error {
	defaultFormat, err := parseFormat("export.default_format", cfg.Export.DefaultFormat)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, &cfg.Store, metrics.NewCollector(&config.MetricsConfig{}, nil))
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	defer store.Close()

	snap, err := store.Snapshot(ctx)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	var firstErr error
	invalid := 0
	for _, path := range paths {
		err := validateSetting(path, defaultFormat, snap)
		if err == nil {
			fmt.Fprintf(w, "✓ %s\n", path)
			continue
		}

		invalid++
		if firstErr == nil {
			firstErr = err
		}
		fmt.Fprintf(w, "✗ %s\n", path)
		if cfgErr, ok := err.(*export.ConfigurationError); ok {
			for _, fe := range cfgErr.Errors {
				fmt.Fprintf(w, "    %s\n", fe.Error())
			}
		} else {
			fmt.Fprintf(w, "    %v\n", err)
		}
	}

	if invalid > 0 {
		fmt.Fprintf(w, "\n%d of %d settings invalid\n", invalid, len(paths))
		return cli.NewCommandError("validate", firstErr)
	}
	return nil
}

func validateSetting(path string, defaultFormat export.Format, types corpus.StatementTypeLookup) error {
	setting, err := export.LoadSettingWithFormat(path, defaultFormat)
	if err != nil {
		return err
	}
	return setting.Validate(types)
}
