package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalJobRuns(t *testing.T) {
	s := NewEventScheduler()
	var runs atomic.Int32

	require.NoError(t, s.AddIntervalJob("heartbeat", 20*time.Millisecond, func() { runs.Add(1) }))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestIntervalJobWaitsForFirstTick(t *testing.T) {
	s := NewEventScheduler()
	var runs atomic.Int32

	require.NoError(t, s.AddIntervalJob("slow", time.Hour, func() { runs.Add(1) }))
	s.Start()
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, runs.Load())
}

func TestAddIntervalJobRejectsDuplicateAndBadInterval(t *testing.T) {
	s := NewEventScheduler()

	require.NoError(t, s.AddIntervalJob("heartbeat", time.Minute, func() {}))
	assert.ErrorIs(t, s.AddIntervalJob("heartbeat", time.Minute, func() {}), ErrJobExists)
	assert.Error(t, s.AddIntervalJob("bad", 0, func() {}))
}

func TestStartStop(t *testing.T) {
	s := NewEventScheduler()
	assert.False(t, s.IsRunning())

	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())
}
