// Package parallel provides a small fixed-size worker pool used to run the
// solution-verification sampling check (§8's "verifiable by random
// sampling" property) concurrently across reported solutions. The search
// core itself (§5) stays single-threaded; this pool only ever touches
// read-only data (a finished Result's solution boxes), so there is no
// shared-mutable-state concern to design around.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// WorkerPool is a fixed-size pool of goroutines draining a shared task
// channel. No dynamic scaling, rate limiting, work stealing, or deadlock
// detection — the verification workload is a short, bounded, read-only
// batch, not a long-running service.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool creates a fixed-size worker pool. maxWorkers <= 0 defaults
// to runtime.NumCPU().
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			if task != nil {
				task()
			}
		case <-wp.shutdownChan:
			return
		}
	}
}

// Submit enqueues task, blocking until a slot is free, ctx is done, or the
// pool has been shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting new tasks and waits for in-flight workers to
// drain. Idempotent.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		wp.workerWg.Wait()
	})
}

// GetWorkerCount returns the fixed worker count.
func (wp *WorkerPool) GetWorkerCount() int { return wp.maxWorkers }

// GetQueueDepth returns the current number of queued, not-yet-started tasks.
func (wp *WorkerPool) GetQueueDepth() int { return len(wp.taskChan) }
