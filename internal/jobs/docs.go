// Package jobs runs the periodic housekeeping of the dispatch service on
// github.com/robfig/cron/v3 schedules (six fields, seconds first).
//
// AbandonedCartJob cancels carts left in NEW for longer than the configured age.
// UnclaimedOrderJob reminds vendors of accepted delivery orders that are about to
// be ready while no driver holds them.
//
// Both are started and stopped through JobManager:
//
//	jm := jobs.NewJobManager(cfg, expireHandler, openOrders, notifier, ports.SystemClock, logger)
//	if err := jm.StartAll(); err != nil {
//		return err
//	}
//	defer jm.StopAll()
//
// A failed pass is logged and retried on the next tick.
package jobs
