package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/argie33/algo-sub009/internal/batch"
	"github.com/argie33/algo-sub009/pkg/logger"
)

// DailyScoring runs the full scoring batch for the current trading date.
// The cron expression keeps it off weekends; holidays fall out naturally
// because no symbols have bars on the date.
type DailyScoring struct {
	runner   *batch.Runner
	schedule string
	logger   *logger.Logger
}

// NewDailyScoring creates the daily scoring job.
func NewDailyScoring(runner *batch.Runner, schedule string, log *logger.Logger) *DailyScoring {
	return &DailyScoring{
		runner:   runner,
		schedule: schedule,
		logger:   log.WithComponent("daily_scoring"),
	}
}

// Name implements scheduler.Job.
func (j *DailyScoring) Name() string { return "daily_scoring" }

// Schedule implements scheduler.Job.
func (j *DailyScoring) Schedule() string { return j.schedule }

// Run implements scheduler.Job. A run lock held elsewhere is not a failure:
// the other run covers the date.
func (j *DailyScoring) Run(ctx context.Context) error {
	date := time.Now().UTC().Truncate(24 * time.Hour)

	_, err := j.runner.Run(ctx, date)
	if errors.Is(err, batch.ErrRunLocked) {
		j.logger.WithField("date", date.Format("2006-01-02")).Warn("run already in progress, skipping")
		return nil
	}
	return err
}
