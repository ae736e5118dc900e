package async

import "sync"

// Pool is a bounded worker pool. Tasks run on a fixed set of workers;
// Submit blocks once the queue is full instead of growing without bound.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewPool starts workers goroutines draining a queue of queueSize pending
// tasks.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{tasks: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit enqueues a task, blocking while the queue is full. Must not be
// called after Shutdown.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Shutdown stops accepting tasks and waits for queued and in-flight tasks to
// finish. Tasks already submitted always run to completion.
func (p *Pool) Shutdown() {
	close(p.tasks)
	p.wg.Wait()
}
