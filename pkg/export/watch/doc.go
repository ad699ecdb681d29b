// Package watch re-runs exports when their setting files change.
//
// A FileWatcher reports changed setting files (fsnotify, debounced per
// file); a Runner loads the changed setting, takes a fresh corpus snapshot
// and runs a complete export through an export.Engine.
//
//	runner := watch.NewRunner(engine, store, cfg, export.FormatCSV, nil)
//	err := runner.Run(ctx) // blocks until ctx is cancelled
package watch
