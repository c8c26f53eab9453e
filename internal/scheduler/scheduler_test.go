package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_AddInvalidSpec(t *testing.T) {
	s := New(discardLogger())

	err := s.Add("bad", "not a cron spec", func(ctx context.Context) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to schedule job bad")
}

func TestScheduler_AcceptsSixFieldSpec(t *testing.T) {
	s := New(discardLogger())

	// Seconds-first expression, every minute
	assert.NoError(t, s.Add("poll", "0 */1 * * * *", func(ctx context.Context) error { return nil }))
}

func TestScheduler_JobFires(t *testing.T) {
	s := New(discardLogger())

	var runs atomic.Int32
	err := s.Add("tick", "* * * * * *", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	s.Start()
	defer func() { <-s.Stop().Done() }()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	s := New(discardLogger())

	var runs atomic.Int32
	err := s.Add("flaky", "* * * * * *", func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("transient")
	})
	require.NoError(t, err)

	s.Start()
	defer func() { <-s.Stop().Done() }()

	// The error is logged; subsequent ticks still fire
	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 4*time.Second, 50*time.Millisecond)
}

func TestScheduler_StopWaitsForRunningJobs(t *testing.T) {
	s := New(discardLogger())

	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool
	err := s.Add("slow", "* * * * * *", func(ctx context.Context) error {
		once.Do(func() { close(started) })
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	require.NoError(t, err)

	s.Start()
	<-started

	<-s.Stop().Done()
	assert.True(t, finished.Load())
}
