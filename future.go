package easyapi

import "context"

// Future is the pending outcome of CallAsync.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T, err error) {
	f.val, f.err = v, err
	close(f.done)
}

// Done is closed once the call has settled.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the call settles or ctx ends. ctx bounds only the wait;
// it does not cancel the call.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
