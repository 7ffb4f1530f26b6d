package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countJob struct {
	name string
	runs *atomic.Int32
	fn   func(ctx context.Context) error
}

func (j *countJob) Name() string { return j.name }

func (j *countJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.fn != nil {
		return j.fn(ctx)
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestQueueRunsJobs(t *testing.T) {
	q := NewQueue(2, zap.NewNop())
	q.Start()
	defer q.Stop()

	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		q.RunAfter(0, &countJob{name: "count", runs: &runs})
	}

	waitFor(t, func() bool { return runs.Load() == 5 })
}

func TestQueueRunAfterDelay(t *testing.T) {
	q := NewQueue(1, zap.NewNop())
	q.Start()
	defer q.Stop()

	var runs atomic.Int32
	q.RunAfter(20*time.Millisecond, &countJob{name: "delayed", runs: &runs})

	require.Equal(t, int32(0), runs.Load())
	waitFor(t, func() bool { return runs.Load() == 1 })
}

func TestQueueSurvivesPanic(t *testing.T) {
	q := NewQueue(1, zap.NewNop())
	q.Start()
	defer q.Stop()

	var runs atomic.Int32
	q.RunAfter(0, &countJob{name: "boom", runs: &runs, fn: func(ctx context.Context) error {
		panic("exploded")
	}})
	q.RunAfter(0, &countJob{name: "after", runs: &runs})

	// The worker that recovered must still drain the second job.
	waitFor(t, func() bool { return runs.Load() == 2 })
}

func TestQueueStopWaitsForInflight(t *testing.T) {
	q := NewQueue(1, zap.NewNop())
	q.Start()

	var runs atomic.Int32
	started := make(chan struct{})
	q.RunAfter(0, &countJob{name: "slow", runs: &runs, fn: func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		return nil
	}})

	<-started
	q.Stop()
	require.Equal(t, int32(1), runs.Load())
}

func TestQueueDropsAfterStop(t *testing.T) {
	q := NewQueue(1, zap.NewNop())
	q.Start()
	q.Stop()

	var runs atomic.Int32
	q.RunAfter(0, &countJob{name: "late", runs: &runs})

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(0), runs.Load())
}
