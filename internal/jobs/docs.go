// Package jobs provides scheduled background tasks for the fulfillment
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ControllerPassJob - Kicks the fulfillment controller on a schedule so
// deferred events are retried even when no new event arrives
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(logger,
//		jobs.NewControllerPassJob(ctrl, "*/5 * * * * *", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with a leading seconds field,
// e.g. "*/5 * * * * *" for every five seconds.
//
// # Error Handling
//
// - An invalid schedule fails Start
// - Failed job starts stop the jobs already running
package jobs
