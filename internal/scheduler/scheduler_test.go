package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// flakyJob fails the first failures runs
type flakyJob struct {
	name     string
	spec     string
	failures int
	calls    int
}

func (j *flakyJob) Name() string     { return j.name }
func (j *flakyJob) Schedule() string { return j.spec }

func (j *flakyJob) Run(ctx context.Context) error {
	j.calls++
	if j.calls <= j.failures {
		return errors.New("upstream unavailable")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(time.UTC, logger.NewNop()).WithRetry(2, time.Millisecond)
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&flakyJob{name: "daily", spec: "0 30 16 * * 1-5"}))
	assert.Error(t, s.AddJob(&flakyJob{name: "daily", spec: "0 30 16 * * 1-5"}), "duplicate name")
	assert.Error(t, s.AddJob(&flakyJob{name: "bad", spec: "every day"}), "invalid spec")

	assert.Equal(t, []string{"daily"}, s.JobNames())
}

func TestRunJobRetries(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		wantSuccess  bool
		wantAttempts int
	}{
		{"first try", 0, true, 1},
		{"recovers", 2, true, 3},
		{"exhausted", 5, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler()
			job := &flakyJob{name: "scan", spec: "@every 1h", failures: tt.failures}
			require.NoError(t, s.AddJob(job))

			result, err := s.RunJob("scan")
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantAttempts, result.Attempts)
			if !tt.wantSuccess {
				assert.Equal(t, "upstream unavailable", result.Error)
			}

			stats := s.Stats()["scan"]
			assert.Equal(t, 1, stats.TotalRuns)
			require.NotNil(t, stats.LastRun)
		})
	}
}

func TestRunJobUnknown(t *testing.T) {
	_, err := newTestScheduler().RunJob("missing")
	assert.Error(t, err)
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&flakyJob{name: "regime", spec: "0 0 8 * * 1-5"}))

	require.NoError(t, s.RemoveJob("regime"))
	assert.Empty(t, s.JobNames())
	assert.Error(t, s.RemoveJob("regime"))
}

func TestStopCancelsRetries(t *testing.T) {
	s := New(time.UTC, logger.NewNop()).WithRetry(5, time.Hour)
	job := &flakyJob{name: "slow", spec: "@every 1h", failures: 10}
	require.NoError(t, s.AddJob(job))

	s.Start()
	done := make(chan JobResult, 1)
	go func() {
		r, _ := s.RunJob("slow")
		done <- r
	}()

	time.Sleep(20 * time.Millisecond)
	s.Stop()

	select {
	case r := <-done:
		assert.False(t, r.Success)
		assert.Equal(t, 1, r.Attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not observe Stop")
	}
}

func TestJobHistory(t *testing.T) {
	var h JobHistory
	_, ok := h.Last()
	assert.False(t, ok)
	assert.Zero(t, h.SuccessRate())

	for i := 0; i < historyLimit+10; i++ {
		h.Add(JobResult{Success: i%2 == 0, Attempts: i})
	}
	assert.Len(t, h.Results, historyLimit)
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, historyLimit+9, last.Attempts)
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-12)
}
