package restclient

import "context"

// Pending is the handle of an in-flight asynchronous call. It resolves
// exactly once.
type Pending[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func startPending[T any](fn func() (T, error)) *Pending[T] {
	p := &Pending[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.value, p.err = fn()
	}()
	return p
}

func resolvedPending[T any](value T, err error) *Pending[T] {
	p := &Pending[T]{done: make(chan struct{}), value: value, err: err}
	close(p.done)
	return p
}

// Done is closed once the call has completed.
func (p *Pending[T]) Done() <-chan struct{} { return p.done }

// Wait blocks until the call completes or ctx ends. Ending ctx stops the
// wait only; cancel the context passed to the operation to abort the call.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
