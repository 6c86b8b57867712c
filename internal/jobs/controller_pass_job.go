package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs a pass every five seconds.
const DefaultSchedule = "*/5 * * * * *"

// Kicker requests an early controller pass. *controller.Controller
// implements it.
type Kicker interface {
	Kick()
}

// ControllerPassJob kicks the controller on a cron schedule. A kick never
// blocks, and kicks arriving while a pass runs collapse into one.
type ControllerPassJob struct {
	kicker   Kicker
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewControllerPassJob creates the job. An empty schedule means
// DefaultSchedule.
func NewControllerPassJob(kicker Kicker, schedule string, logger *slog.Logger) *ControllerPassJob {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ControllerPassJob{
		kicker:   kicker,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "controller_pass_job"),
	}
}

func (j *ControllerPassJob) Name() string {
	return "controller pass"
}

// Start registers the schedule and starts the cron runner.
func (j *ControllerPassJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.kicker.Kick); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Controller pass job started", "schedule", j.schedule)
	return nil
}

// Stop stops the cron runner and waits for a running kick to return.
func (j *ControllerPassJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Controller pass job stopped")
}
