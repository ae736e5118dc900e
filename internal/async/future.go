package async

import "context"

// Future holds the eventual result of a task submitted to a Pool.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Run submits fn to the pool and returns a future for its result.
func Run[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	p.Submit(func() {
		f.value, f.err = fn()
		close(f.done)
	})
	return f
}

// Wait blocks until the task completes or ctx is done. A ctx expiry is a
// delivery failure only: the task itself still runs to completion and its
// effects stand.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed when the task has completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
