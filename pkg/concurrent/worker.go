package concurrent

import (
	"sync"
)

// WorkerPool runs generation jobs on a fixed set of workers. Each job is an
// independent engine invocation owning its own graph; the pool shares
// nothing between them.
type WorkerPool struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
}

func NewWorkerPool(numWorkers, queueSize int) *WorkerPool {
	pool := &WorkerPool{
		jobs: make(chan func(), queueSize),
	}
	for i := 0; i < numWorkers; i++ {
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			for job := range pool.jobs {
				job()
			}
		}()
	}
	return pool
}

// Submit enqueues a job; blocks when the queue is full.
func (p *WorkerPool) Submit(job func()) {
	p.jobs <- job
}

// Stop closes the queue and waits for in-flight jobs.
func (p *WorkerPool) Stop() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
