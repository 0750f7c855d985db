// Package scheduler ticks jobs onto the worker pool at fixed intervals.
package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kittyscape/lootbot/internal/worker"
)

// Scheduler enqueues registered jobs on their interval. It owns no
// execution; the worker pool does the running.
type Scheduler struct {
	pool *worker.Pool
	quit chan struct{}
	wg   sync.WaitGroup
}

func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule runs a job every interval, starting one interval from now.
// A full worker queue drops the tick; the job runs again next interval.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.pool.Enqueue(job) {
					slog.Warn("worker queue full, skipping tick", "job", job.Name())
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop halts all tickers and waits for them to exit.
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
