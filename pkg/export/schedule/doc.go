// Package schedule runs exports periodically on a cron schedule.
//
// The scheduler wraps github.com/robfig/cron/v3. Overlapping runs are
// skipped rather than queued, and a panic in a run is logged and does not
// stop the schedule.
//
//	sched := schedule.NewScheduler(cfg.Export.Schedule, func(ctx context.Context) error {
//		_, err := runner.ExportAll(ctx)
//		return err
//	})
//	if err := sched.Start(ctx); err != nil {
//		return err
//	}
package schedule
