package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dna-hq/netexport/pkg/corpus"
	"dna-hq/netexport/pkg/export"
)

// SnapshotSource supplies the corpus state an export runs against.
// corpus.Storage implementations satisfy it.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*corpus.Snapshot, error)
}

// ResultFunc is called after every export the runner performs.
type ResultFunc func(path string, res *export.Result, err error)

// Runner re-runs exports whenever their setting files change. Every run is
// a complete export against a fresh snapshot.
type Runner struct {
	engine        *export.Engine
	source        SnapshotSource
	config        *Config
	defaultFormat export.Format
	onResult      ResultFunc
	logger        *slog.Logger
}

// NewRunner creates a runner exporting with engine against source.
// onResult may be nil.
func NewRunner(engine *export.Engine, source SnapshotSource, config *Config, defaultFormat export.Format, onResult ResultFunc) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	if onResult == nil {
		onResult = func(string, *export.Result, error) {}
	}
	return &Runner{
		engine:        engine,
		source:        source,
		config:        config,
		defaultFormat: defaultFormat,
		onResult:      onResult,
		logger:        slog.Default().With("component", "export.watch"),
	}
}

// Run exports every setting under the configured path once, then watches
// for changes until ctx is cancelled. Failed exports are reported through
// the result callback and never stop the runner.
func (r *Runner) Run(ctx context.Context) error {
	if _, err := r.ExportAll(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	fw, err := NewFileWatcher(r.config, r.logger)
	if err != nil {
		return err
	}
	defer func() { _ = fw.Stop() }()

	return fw.Watch(ctx, func(path string) error {
		return r.ExportFile(ctx, path)
	})
}

// ExportAll exports every setting under the configured path once, in name
// order, and returns how many exports failed. The error is non-nil only
// when the settings cannot be listed or ctx is cancelled.
func (r *Runner) ExportAll(ctx context.Context) (failed int, err error) {
	paths, err := r.settingFiles()
	if err != nil {
		return 0, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		if r.ExportFile(ctx, path) != nil {
			failed++
		}
	}
	return failed, nil
}

// ExportFile loads the setting at path and runs one export.
func (r *Runner) ExportFile(ctx context.Context, path string) error {
	res, err := r.exportFile(ctx, path)
	r.onResult(path, res, err)
	return err
}

func (r *Runner) exportFile(ctx context.Context, path string) (*export.Result, error) {
	setting, err := export.LoadSettingWithFormat(path, r.defaultFormat)
	if err != nil {
		return nil, err
	}

	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus snapshot: %w", err)
	}

	return r.engine.Run(ctx, snap, setting)
}

// settingFiles lists the setting files under the configured path in name
// order. A file path is returned as is.
func (r *Runner) settingFiles() ([]string, error) {
	info, err := os.Stat(r.config.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{r.config.Path}, nil
	}

	var paths []string
	err = filepath.WalkDir(r.config.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		hidden := r.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != r.config.Path
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, valid := range r.config.Extensions {
			if ext == strings.ToLower(valid) {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
