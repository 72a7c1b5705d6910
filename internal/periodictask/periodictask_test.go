package periodictask

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicTask_RunsOnEveryTick(t *testing.T) {
	mockClock := clock.NewMock()
	runs := make(chan struct{}, 10)

	task := New(mockClock, time.Minute, func(ctx context.Context) {
		runs <- struct{}{}
	})
	task.Start()
	defer task.Stop()

	require.True(t, task.IsRunning())

	for i := 0; i < 3; i++ {
		mockClock.Add(time.Minute)
		select {
		case <-runs:
		case <-time.After(time.Second):
			t.Fatalf("task did not run on tick %d", i+1)
		}
	}
}

func TestPeriodicTask_StartTwiceIsNoop(t *testing.T) {
	task := New(clock.NewMock(), time.Minute, func(ctx context.Context) {})

	task.Start()
	task.Start()
	assert.True(t, task.IsRunning())

	task.Stop()
	assert.False(t, task.IsRunning())

	// Stopping again is safe
	task.Stop()
	assert.False(t, task.IsRunning())
}

func TestPeriodicTask_ZeroIntervalNeverStarts(t *testing.T) {
	task := New(clock.NewMock(), 0, func(ctx context.Context) {
		t.Error("task should not run")
	})

	task.Start()
	assert.False(t, task.IsRunning())
	task.Stop()
}

func TestPeriodicTask_StopCancelsTaskContext(t *testing.T) {
	mockClock := clock.NewMock()
	started := make(chan struct{})
	cancelled := make(chan struct{})

	task := New(mockClock, time.Second, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})
	task.Start()

	mockClock.Add(time.Second)
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("task did not start")
	}

	task.Stop()
	select {
	case <-cancelled:
	default:
		t.Fatal("Stop returned before the task observed cancellation")
	}
}

func TestNew_NilClockUsesWallClock(t *testing.T) {
	task := New(nil, time.Hour, func(ctx context.Context) {})
	assert.NotNil(t, task.clock)
}
