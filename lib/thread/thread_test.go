package thread

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerQueue(t *testing.T) {
	tests := []struct {
		workers, jobs int
	}{
		{1, 0},
		{1, 1},
		{1, 10},
		{4, 10},
		{10, 4},
		{8, 1000},
	}

	for i := range tests {
		workers, jobs := tests[i].workers, tests[i].jobs
		done := make([]int32, jobs)
		var running, maxRunning int32
		inUse := make([]int32, workers)
		mu := &sync.Mutex{}

		err := WorkerQueue(context.Background(), workers, jobs,
			func(_ context.Context, worker, job int) error {
				n := atomic.AddInt32(&running, 1)
				mu.Lock()
				if n > maxRunning {
					maxRunning = n
				}
				mu.Unlock()

				if atomic.AddInt32(&inUse[worker], 1) != 1 {
					t.Errorf("%d) worker slot %d shared", i, worker)
				}
				atomic.AddInt32(&done[job], 1)
				atomic.AddInt32(&inUse[worker], -1)
				atomic.AddInt32(&running, -1)
				return nil
			})
		require.NoError(t, err, "%d", i)

		for job := range done {
			assert.Equal(t, int32(1), done[job], "%d) job %d", i, job)
		}
		assert.LessOrEqual(t, int(maxRunning), workers, "%d", i)
	}
}

func TestWorkerQueueError(t *testing.T) {
	boom := errors.New("job 3 failed")
	var ran int32

	err := WorkerQueue(context.Background(), 1, 100,
		func(_ context.Context, _, job int) error {
			atomic.AddInt32(&ran, 1)
			if job == 3 {
				return boom
			}
			return nil
		})
	require.ErrorIs(t, err, boom)
	assert.Less(t, int(atomic.LoadInt32(&ran)), 100)
}

func TestWorkerQueueBadWorkers(t *testing.T) {
	for _, workers := range []int{0, -1} {
		err := WorkerQueue(context.Background(), workers, 5,
			func(context.Context, int, int) error { return nil })
		assert.Error(t, err)
	}
}

func TestSet(t *testing.T) {
	assert.NoError(t, Set(2))
	assert.Error(t, Set(0))
	assert.Error(t, Set(-2))
	assert.NoError(t, Set(-1))
}
