package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dna-hq/netexport/pkg/cli"
	"dna-hq/netexport/pkg/config"
	"dna-hq/netexport/pkg/corpus/storage"
	"dna-hq/netexport/pkg/telemetry/metrics"
)

var importFlags struct {
	quiet bool
}

var importCmd = &cobra.Command{
	Use:   "import DATASET",
	Short: "Load a YAML dataset into the corpus store",
	Long: `Load statement types, documents and statements from a YAML dataset into
the configured SQLite store.

Records are written in dependency order and checked on the way in: every
statement must reference an existing document and statement type, and its
values must match the declared variable types. Import stops at the first
invalid record; records before it stay stored.

Examples:
  # Import into the configured store
  netexport import corpus.yaml

  # Import into another database
  NETEXPORT_STORE_SQLITE_PATH=/tmp/corpus.db netexport import corpus.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := cli.SetupSignalHandler(cmd.Context())
		defer stop()

		progress := cli.NewProgressReporter(cmd.ErrOrStderr())
		if importFlags.quiet {
			progress = cli.NopProgress()
		}
		return runImport(ctx, config.GetConfig(), args[0], progress, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVarP(&importFlags.quiet, "quiet", "q", false, "no progress output")
}

func runImport(ctx context.Context, cfg *config.Config, path string, progress cli.ProgressReporter, w io.Writer) error {
	if cfg.Store.Backend != "sqlite" {
		return cli.NewConfigError("store.backend",
			fmt.Sprintf("import needs the sqlite backend, not %q; the memory backend reads store.dataset_path at startup", cfg.Store.Backend))
	}

	ds, err := storage.LoadDataset(path)
	if err != nil {
		return cli.NewCommandError("import", err)
	}

	store, err := openStore(ctx, &cfg.Store, metrics.NewCollector(&config.MetricsConfig{}, nil))
	if err != nil {
		return cli.NewCommandError("import", err)
	}
	defer store.Close()

	if err := storage.ImportDataset(ctx, store, ds, progress); err != nil {
		return cli.NewCommandError("import", err)
	}

	fmt.Fprintf(w, "Imported %d statement types, %d documents and %d statements into %s\n",
		len(ds.StatementTypes), len(ds.Documents), len(ds.Statements), cfg.Store.SQLite.Path)
	return nil
}
