package framework

import (
	"context"
	"time"

	"github.com/nerrad567/homenet-framework/internal/scheduler"
)

// StartBackgroundJob runs fn every intervalSeconds seconds, first after one
// interval. Runs never overlap; a run still busy when the next is due
// causes that firing to be skipped.
func (f *Facade[A, S, St]) StartBackgroundJob(ctx context.Context, fn func(ctx context.Context) error, intervalSeconds int) error {
	if f.runner != nil {
		return ErrJobRunning
	}

	runner, err := scheduler.Start(ctx, time.Duration(intervalSeconds)*time.Second, fn, f.Logger)
	if err != nil {
		return err
	}
	f.runner = runner
	return nil
}

// StopBackgroundJob prevents further runs of the background job. It does
// not wait for a run in progress, which finishes on its own. Stopping
// without a job is a no-op.
func (f *Facade[A, S, St]) StopBackgroundJob() error {
	if f.runner == nil {
		return nil
	}
	err := f.runner.Stop()
	f.runner = nil
	return err
}

// BackgroundJobRuns returns how many times the current job has run.
func (f *Facade[A, S, St]) BackgroundJobRuns() int64 {
	if f.runner == nil {
		return 0
	}
	return f.runner.Runs()
}
