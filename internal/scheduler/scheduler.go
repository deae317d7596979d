// Package scheduler runs one callback on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/logging"
)

// ErrInvalidInterval is returned by Start for a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Func is the periodic callback.
type Func func(ctx context.Context) error

// Runner owns the gocron scheduler driving one periodic job.
type Runner struct {
	scheduler gocron.Scheduler
	job       gocron.Job
	logger    *logging.Logger
	runs      atomic.Int64
	stopped   atomic.Bool
}

// Start schedules fn every interval and starts the scheduler.
//
// The first run happens one interval after Start. A run that is still busy
// when the next one is due causes that firing to be skipped; runs never
// overlap. Errors and panics from fn are logged and do not stop the
// schedule. ctx is passed to every run unchanged; Stop does not cancel it.
func Start(ctx context.Context, interval time.Duration, fn Func, logger *logging.Logger) (*Runner, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s, err := gocron.NewScheduler(gocron.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	r := &Runner{scheduler: s, logger: logger}

	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { r.run(ctx, fn) }),
		gocron.WithName("periodic-job"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic job: %w", err)
	}
	r.job = job

	s.Start()
	logger.Debug("periodic job started", "interval", interval.String())
	return r, nil
}

func (r *Runner) run(ctx context.Context, fn Func) {
	n := r.runs.Add(1)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("periodic job panic recovered", "run", n, "panic", rec)
		}
	}()

	if err := fn(ctx); err != nil {
		r.logger.Error("periodic job failed", "run", n, "error", err)
	}
}

// Runs returns how many times the callback has been started.
func (r *Runner) Runs() int64 {
	return r.runs.Load()
}

// NextRun returns when the job fires next.
func (r *Runner) NextRun() (time.Time, error) {
	return r.job.NextRun()
}

// Stop prevents further runs and returns without waiting for a run in
// progress; that run finishes in the background. Calling Stop more than
// once is a no-op.
func (r *Runner) Stop() error {
	if r == nil || !r.stopped.CompareAndSwap(false, true) {
		return nil
	}

	err := r.scheduler.RemoveJob(r.job.ID())
	if err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
		return fmt.Errorf("stopping periodic job: %w", err)
	}

	go func() {
		if err := r.scheduler.Shutdown(); err != nil {
			r.logger.Warn("periodic job scheduler shutdown", "error", err)
		}
	}()

	r.logger.Debug("periodic job stopped", "runs", r.runs.Load())
	return nil
}
