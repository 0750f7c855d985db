// Package worker provides a small fixed-size pool for background jobs.
package worker

import (
	"context"
	"sync"

	"github.com/kittyscape/lootbot/internal/logger"
)

// Job is a unit of background work.
type Job interface {
	Name() string
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed set of goroutines. Job failures are logged
// and never crash a worker.
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
}

func NewPool(workers, queueSize int) *Pool {
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			ctx := logger.WithIngestID(context.Background(), logger.GenerateIngestID())
			if err := job.Process(ctx); err != nil {
				logger.FromContext(ctx).Error("background job failed", "job", job.Name(), "error", err)
			}
		case <-p.quit:
			return
		}
	}
}

// Enqueue queues a job without blocking. Returns false when the queue
// is full, in which case the job is dropped and the caller may retry on
// the next tick.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
