package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_RejectsNonPositiveInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		_, err := Start(context.Background(), d, func(context.Context) error { return nil }, nil)
		require.ErrorIs(t, err, ErrInvalidInterval)
	}
}

func TestStart_FirstRunAfterOneInterval(t *testing.T) {
	const interval = 300 * time.Millisecond
	first := make(chan time.Time, 1)

	started := time.Now()
	r, err := Start(context.Background(), interval, func(context.Context) error {
		select {
		case first <- time.Now():
		default:
		}
		return nil
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop() })

	var next time.Time
	require.Eventually(t, func() bool {
		next, err = r.NextRun()
		return err == nil && !next.IsZero()
	}, time.Second, 5*time.Millisecond)
	assert.WithinDuration(t, started.Add(interval), next, 100*time.Millisecond)

	select {
	case at := <-first:
		assert.GreaterOrEqual(t, at.Sub(started), interval-10*time.Millisecond)
	case <-time.After(3 * time.Second):
		require.FailNow(t, "callback never ran")
	}
}

func TestStart_RunsRepeatedlyUntilStopped(t *testing.T) {
	var calls atomic.Int64
	r, err := Start(context.Background(), 50*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, r.Stop())
	// a firing already handed to the executor may still start
	time.Sleep(100 * time.Millisecond)
	after := calls.Load()
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no runs after Stop")
	assert.Equal(t, after, r.Runs())

	assert.NoError(t, r.Stop(), "second Stop is a no-op")
}

func TestStart_ErrorsAndPanicsDoNotStopSchedule(t *testing.T) {
	var calls atomic.Int64
	r, err := Start(context.Background(), 40*time.Millisecond, func(context.Context) error {
		n := calls.Add(1)
		if n == 1 {
			panic("first run blows up")
		}
		return errors.New("later runs fail")
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop() })

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)
}

func TestStart_RunsNeverOverlap(t *testing.T) {
	var active, maxActive atomic.Int64
	r, err := Start(context.Background(), 20*time.Millisecond, func(context.Context) error {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(70 * time.Millisecond)
		return nil
	}, nil)
	require.NoError(t, err)

	time.Sleep(400 * time.Millisecond)
	require.NoError(t, r.Stop())

	assert.Equal(t, int64(1), maxActive.Load())
}

func TestStop_DoesNotCancelContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan context.Context, 1)
	r, err := Start(ctx, 30*time.Millisecond, func(c context.Context) error {
		select {
		case seen <- c:
		default:
		}
		return nil
	}, nil)
	require.NoError(t, err)

	var got context.Context
	select {
	case got = <-seen:
	case <-time.After(3 * time.Second):
		require.FailNow(t, "callback never ran")
	}

	require.NoError(t, r.Stop())
	assert.NoError(t, got.Err())
}

func TestStop_DoesNotWaitForRunInProgress(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var once sync.Once
	defer once.Do(func() { close(release) })

	r, err := Start(context.Background(), 50*time.Millisecond, func(context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}, nil)
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		require.FailNow(t, "callback never ran")
	}

	begin := time.Now()
	require.NoError(t, r.Stop())
	assert.Less(t, time.Since(begin), 500*time.Millisecond, "Stop waited for the running callback")
	assert.Equal(t, int64(1), r.Runs())

	once.Do(func() { close(release) })
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(1), r.Runs(), "no run starts after Stop")
}

func TestStop_NilRunner(t *testing.T) {
	var r *Runner
	assert.NoError(t, r.Stop())
}
