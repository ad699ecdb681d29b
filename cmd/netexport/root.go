package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dna-hq/netexport/pkg/cli"
	"dna-hq/netexport/pkg/config"
	"dna-hq/netexport/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "netexport",
	Short: "netexport - network export engine for coded discourse data",
	Long: `netexport builds networks from coded statements and writes them to files.

Statements link actors, organizations and concepts found in documents.
Export settings select statements (by type, qualifier, date range and
excluded values) and describe the network to build:
  - twoMode: affiliation network between two variables
  - oneMode: co-occurrence network over one variable
  - eventList: one row per statement, for time-series tools

Configuration is read from --config, $NETEXPORT_CONFIG, ./netexport.yaml or
$HOME/.netexport/netexport.yaml, in that order. NETEXPORT_SECTION_FIELD
environment variables override individual values.`,
	Version:           Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// setup loads the configuration and installs the configured logger before
// any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == versionCmd.Name() {
		return nil
	}

	v := viper.New()
	_ = v.BindPFlag("config", cmd.Root().PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose"))

	path, err := resolveConfigPath(v)
	if err != nil {
		return cli.NewConfigError("config", err.Error())
	}

	if err := config.Initialize(path); err != nil {
		return cli.NewConfigError("config", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if v.GetBool("verbose") {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()

	if path == "" {
		slog.Debug("no config file found, using defaults")
	} else {
		slog.Debug("configuration loaded", "path", path)
	}
	return nil
}

// resolveConfigPath returns the config file to load, or "" when none is
// given or found. An explicit path (flag or NETEXPORT_CONFIG) is returned
// without checking that it exists so that loading reports the error.
func resolveConfigPath(v *viper.Viper) (string, error) {
	v.SetEnvPrefix("NETEXPORT")
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		return path, nil
	}

	v.SetConfigName("netexport")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".netexport"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}
