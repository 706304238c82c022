package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Add(t *testing.T) {
	t.Parallel()

	s := New(time.Second)

	require.NoError(t, s.Add("0 3 * * *", "sync", func(context.Context) error { return nil }))
	assert.Equal(t, 1, s.Entries())

	err := s.Add("not a cron", "bad", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "invalid cron expression")
	assert.Equal(t, 1, s.Entries())
}

func TestScheduler_RunExecutesJobs(t *testing.T) {
	t.Parallel()

	s := New(time.Second)
	var calls int32
	require.NoError(t, s.Add("@every 1s", "tick", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		atomic.AddInt32(&calls, 1)
		return errors.New("logged, not fatal")
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	t.Parallel()

	s := New(0)
	var running, maxRunning int32
	require.NoError(t, s.Add("@every 1s", "slow", func(context.Context) error {
		n := atomic.AddInt32(&running, 1)
		if n > atomic.LoadInt32(&maxRunning) {
			atomic.StoreInt32(&maxRunning, n)
		}
		time.Sleep(1500 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
}
