// Package health provides liveness and readiness endpoints for long-running
// netexport processes.
//
// The schedule command mounts them next to /metrics when a metrics address
// is configured. Readiness combines registered checks: the corpus store can
// produce a snapshot, and the most recent scheduled run succeeded.
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("store", func(ctx context.Context) error {
//		_, err := store.Snapshot(ctx)
//		return err
//	})
//	runs := health.NewRunTracker()
//	checker.RegisterCheck("last_run", runs.Check)
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version, commit, buildDate)
package health
