// Package parallel runs independent jobs, such as encoding output files, on
// a fixed set of goroutines.
package parallel

import (
	"errors"
	"runtime"
	"sync"
)

// Job is a unit of work. A returned error is kept for Wait.
type Job func() error

// Pool runs jobs on a fixed number of workers. With a single worker, Do runs
// each job inline.
type Pool struct {
	wg    sync.WaitGroup
	jobs  chan Job
	close func()

	mu   sync.Mutex
	errs []error
	done int
}

// Start launches numWorkers workers, or one per CPU if numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{close: func() {}}
	if numWorkers > 1 {
		pool.jobs = make(chan Job, numWorkers)
		for range numWorkers {
			pool.wg.Go(func() {
				for job := range pool.jobs {
					pool.finish(job())
				}
			})
		}
		pool.close = sync.OnceFunc(func() { close(pool.jobs) })
	}
	return pool
}

// Do queues job, blocking while every worker is busy. It must not be called
// after Wait.
func (p *Pool) Do(job Job) {
	if p.jobs == nil {
		p.finish(job())
		return
	}
	p.jobs <- job
}

// Wait stops accepting jobs, waits for the queued ones and returns their
// errors joined together.
func (p *Pool) Wait() error {
	p.close()
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

// Done returns how many jobs finished, failed ones included.
func (p *Pool) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Pool) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if err != nil {
		p.errs = append(p.errs, err)
	}
}
