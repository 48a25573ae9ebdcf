package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/worker"
)

type countingJob struct {
	runs atomic.Int64
}

func (j *countingJob) Process(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestScheduler_RunsJobOnInterval(t *testing.T) {
	pool := worker.NewPool(1, 8)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &countingJob{}
	sched.Schedule(5*time.Millisecond, job)

	require.Eventually(t, func() bool { return job.runs.Load() >= 3 },
		time.Second, time.Millisecond)
}

func TestScheduler_StopHaltsTicking(t *testing.T) {
	pool := worker.NewPool(1, 8)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	job := &countingJob{}
	sched.Schedule(5*time.Millisecond, job)

	require.Eventually(t, func() bool { return job.runs.Load() >= 1 },
		time.Second, time.Millisecond)
	sched.Stop()

	// At most one already-enqueued run may still drain from the pool.
	settled := job.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, job.runs.Load(), settled+1)
}
