package dialog

import (
	"context"
	"sync"
	"time"
)

// Void is the result type of operations that complete without a value.
type Void = struct{}

// Operation is a single-resolution handle for one in-flight request. It
// resolves exactly once, to either a value or a failure; any number of
// goroutines may wait on it without blocking other operations.
type Operation[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	value   T
	err     error
	settled bool
}

func newOperation[T any]() *Operation[T] {
	return &Operation[T]{done: make(chan struct{})}
}

func completedOperation[T any](value T) *Operation[T] {
	op := newOperation[T]()
	op.complete(value)
	return op
}

func failedOperation[T any](err error) *Operation[T] {
	op := newOperation[T]()
	op.fail(err)
	return op
}

// complete resolves the handle to value. A completion arriving after the
// handle has already settled, for example after Cancel, is discarded.
func (o *Operation[T]) complete(value T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.settled {
		return false
	}

	o.value = value
	o.settled = true
	close(o.done)
	return true
}

func (o *Operation[T]) fail(err error) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.settled {
		return false
	}

	o.err = err
	o.settled = true
	close(o.done)
	return true
}

// Cancel resolves the handle with a cancellation failure. It reports false
// when the handle had already settled.
func (o *Operation[T]) Cancel() bool {
	return o.fail(opError("", FailureCancelled, ErrOperationCancelled))
}

// Done reports whether the operation has resolved, without blocking.
func (o *Operation[T]) Done() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Cancelled reports whether the handle was resolved through cancellation.
func (o *Operation[T]) Cancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settled && KindOf(o.err) == FailureCancelled
}

// Wait blocks until the operation resolves or ctx is done.
func (o *Operation[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WaitTimeout waits at most d for the operation to resolve.
func (o *Operation[T]) WaitTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-o.done:
		return o.result()
	case <-timer.C:
		var zero T
		return zero, context.DeadlineExceeded
	}
}

func (o *Operation[T]) result() (T, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value, o.err
}
