// Package scheduler triggers recurring digest runs from a cron expression.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"NewsDigest/internal/ports"
)

// CronScheduler runs the digest job on a cron expression in a configured
// timezone.
type CronScheduler struct {
	spec   string
	cron   *cron.Cron
	logger *zap.SugaredLogger
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for the given cron expression.
// Timestamps handed to the job are taken in loc.
func NewCronScheduler(spec string, loc *time.Location, logger *zap.SugaredLogger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CronScheduler{
		spec:   spec,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Start registers the job and begins the cron loop. The job receives the
// trigger time; long jobs overlap at the caller's discretion.
func (c *CronScheduler) Start(job func(time.Time)) error {
	if _, err := c.cron.AddFunc(c.spec, func() {
		job(time.Now().In(c.cron.Location()))
	}); err != nil {
		return err
	}

	c.cron.Start()
	c.logger.Infow("scheduler started", "spec", c.spec, "timezone", c.cron.Location().String())
	return nil
}

// Stop halts the cron loop. Already-running jobs finish on their own.
func (c *CronScheduler) Stop() {
	c.cron.Stop()
	c.logger.Info("scheduler stopped")
}
