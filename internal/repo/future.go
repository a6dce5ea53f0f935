package repo

import "context"

// Future is the pending result of an operation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve stores the result. It must be called exactly once.
func (f *Future[T]) resolve(v T, err error) {
	f.value = v
	f.err = err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done.
// Giving up on ctx does not cancel the operation; a later Await still
// returns its result.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Optional is the result of a point lookup.
type Optional[T any] struct {
	Value T
	Found bool
}
