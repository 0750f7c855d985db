package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int64
	done chan struct{}
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Process(ctx context.Context) error {
	j.runs.Add(1)
	select {
	case j.done <- struct{}{}:
	default:
	}
	return j.err
}

func TestPoolRunsJobs(t *testing.T) {
	pool := NewPool(2, 4)
	pool.Start()
	defer pool.Stop()

	job := &countingJob{done: make(chan struct{}, 1)}
	require.True(t, pool.Enqueue(job))

	select {
	case <-job.done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	assert.Equal(t, int64(1), job.runs.Load())
}

func TestPoolSurvivesFailingJob(t *testing.T) {
	pool := NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	failing := &countingJob{done: make(chan struct{}, 1), err: errors.New("boom")}
	ok := &countingJob{done: make(chan struct{}, 1)}

	require.True(t, pool.Enqueue(failing))
	require.True(t, pool.Enqueue(ok))

	for _, j := range []*countingJob{failing, ok} {
		select {
		case <-j.done:
		case <-time.After(time.Second):
			t.Fatal("job did not run")
		}
	}
}

func TestEnqueueFullQueue(t *testing.T) {
	// Never started, so nothing drains the queue.
	pool := NewPool(1, 1)

	job := &countingJob{done: make(chan struct{}, 1)}
	assert.True(t, pool.Enqueue(job))
	assert.False(t, pool.Enqueue(job), "second enqueue should be rejected, not block")
}
