// Package scheduler runs the pipeline's timer-triggered jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner configured for 6-field expressions with a
// leading seconds field, so schedules like "0 */1 * * * *" work unchanged.
// Jobs may overlap: a slow tick does not block the next one, and jobs are
// expected to tolerate that.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a Scheduler
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}
}

// Add registers a named job on the given cron expression
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		s.logger.Info("job started", "job", name)
		if err := job(context.Background()); err != nil {
			s.logger.Error("job failed", "job", name, "error", err)
			return
		}
		s.logger.Info("job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	return nil
}

// Start begins running scheduled jobs in their own goroutines
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once running
// jobs have completed.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
