package proxy

import (
	"context"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

// Callback receives the outcome of an asynchronous operation. Passing a
// Callback as the last call argument selects the callback convention: the
// call completes through the callback instead of through a Future.
type Callback func(err error, value any)

// Future is the promise-convention result of an invocation. It resolves to
// the operation's value or to its original, unwrapped error.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(value any, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Await blocks until the invocation completes or ctx is done, and returns
// the operation's result or its error exactly as the operation produced it.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.value, f.err
	}
}

// Done returns a channel closed when the invocation completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// SplitCallback inspects the last element of args and, if it is a Callback
// (or a bare func(error, any)), returns it along with the remaining
// arguments. Otherwise it returns nil and args unchanged.
func SplitCallback(args []any) (Callback, []any) {
	if len(args) == 0 {
		return nil, args
	}
	switch cb := args[len(args)-1].(type) {
	case Callback:
		return cb, args[:len(args)-1]
	case func(error, any):
		return Callback(cb), args[:len(args)-1]
	default:
		return nil, args
	}
}

// Invoke normalizes a single type-level operation call across both calling
// conventions. If args ends with a Callback the call completes through it
// and Invoke returns nil; otherwise Invoke returns a Future. Exactly one
// underlying call is issued either way, and the same failure surfaces with
// identical error content on both paths.
func Invoke(ctx context.Context, op model.Operation, args []any) *Future {
	cb, rest := SplitCallback(args)
	return dispatch(cb, func() (any, error) {
		return op(ctx, rest)
	})
}

// InvokeRecord is Invoke for record-level operations. The identifier names
// the record the operation acts on.
func InvokeRecord(ctx context.Context, op model.RecordOperation, id string, args []any) *Future {
	cb, rest := SplitCallback(args)
	return dispatch(cb, func() (any, error) {
		return op(ctx, id, rest)
	})
}

// dispatch issues the underlying call and routes its outcome into the
// callback or the returned Future, never both.
func dispatch(cb Callback, call func() (any, error)) *Future {
	if cb != nil {
		go func() {
			value, err := call()
			if err != nil {
				cb(err, nil)
				return
			}
			cb(nil, value)
		}()
		return nil
	}
	f := newFuture()
	go func() {
		f.complete(call())
	}()
	return f
}
