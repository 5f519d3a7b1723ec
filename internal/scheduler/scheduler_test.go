package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dailypicks/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int // fail this many times, then succeed
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if int(n) <= j.failures {
		return errors.New("upstream unavailable")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&fakeJob{name: "daily_picks", schedule: "0 30 6 * * 1-5"}))

	err := s.AddJob(&fakeJob{name: "daily_picks", schedule: "@daily"})
	assert.Error(t, err)

	err = s.AddJob(&fakeJob{name: "broken", schedule: "30 6 * *"})
	assert.Error(t, err)

	assert.Equal(t, []string{"daily_picks"}, s.GetAllJobs())
}

func TestRunJob(t *testing.T) {
	tests := []struct {
		name        string
		failures    int
		retries     int
		wantSuccess bool
		wantCalls   int32
	}{
		{"success", 0, 0, true, 1},
		{"no retry by default", 1, 0, false, 1},
		{"recovers on retry", 1, 2, true, 2},
		{"exhausts retries", 5, 2, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(logger.Nop())
			if tt.retries > 0 {
				s.WithRetry(tt.retries, time.Millisecond)
			}

			job := &fakeJob{name: "daily_picks", schedule: "@daily", failures: tt.failures}
			require.NoError(t, s.AddJob(job))

			result, err := s.RunJob(context.Background(), "daily_picks")
			require.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantCalls, job.calls.Load())
			if !tt.wantSuccess {
				assert.Equal(t, "upstream unavailable", result.Error)
			}

			history, err := s.GetJobHistory("daily_picks")
			require.NoError(t, err)
			assert.Len(t, history.Results, 1)
		})
	}
}

func TestRunJob_CancelledStopsRetrying(t *testing.T) {
	s := New(logger.Nop()).WithRetry(5, time.Hour)
	job := &fakeJob{name: "daily_picks", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunJob(ctx, "daily_picks")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestRunJob_Unknown(t *testing.T) {
	_, err := New(logger.Nop()).RunJob(context.Background(), "missing")
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&fakeJob{name: "daily_picks", schedule: "0 30 6 * * 1-5"}))

	next, err := s.Next("daily_picks")
	require.NoError(t, err)
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())
}

func TestGetJobStats(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "daily_picks", schedule: "@daily", failures: 1}
	require.NoError(t, s.AddJob(job))

	_, _ = s.RunJob(context.Background(), "daily_picks")
	_, _ = s.RunJob(context.Background(), "daily_picks")

	stats := s.GetJobStats()["daily_picks"]
	assert.Equal(t, 2, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, 1, stats.FailureCount)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
	require.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestJobHistory_KeepsRecent(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{JobName: "daily_picks", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Empty(t, (&JobHistory{}).GetLatestResults(3))
}
