package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gbax/gbax-core/internal/testing/leaktest"
)

func TestPool_ProcessesJobs(t *testing.T) {
	var executed int32
	pool := NewPool(2, 10)
	pool.Start()

	job := JobFunc(func(context.Context) error {
		atomic.AddInt32(&executed, 1)
		return nil
	})
	pool.Enqueue(job)
	pool.Enqueue(job)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == 2
	}, time.Second, 5*time.Millisecond)

	pool.Stop()
}

func TestPool_StopReleasesWorkers(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := NewPool(4, 10)
		pool.Start()
		pool.Enqueue(JobFunc(func(context.Context) error { return nil }))
		pool.Stop()
	})
}

func TestPool_JobErrorKeepsWorkerAlive(t *testing.T) {
	var executed int32
	pool := NewPool(1, 10)
	pool.Start()

	pool.Enqueue(JobFunc(func(context.Context) error {
		return errors.New("boom")
	}))
	pool.Enqueue(JobFunc(func(context.Context) error {
		atomic.AddInt32(&executed, 1)
		return nil
	}))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == 1
	}, time.Second, 5*time.Millisecond)

	pool.Stop()
}
