package page

import (
	"context"
)

// Thunk is a zero-argument deferred computation for a lazy prop.
// It must not be invoked until the dispatcher decides its key is required.
type Thunk func(ctx context.Context) (interface{}, error)

// Value is a prop value in one of two states: eager (already computed)
// or lazy (computed on demand when its key is requested).
type Value struct {
	eager interface{}
	thunk Thunk
	lazy  bool
}

// Eager wraps an already-computed value
func Eager(v interface{}) Value {
	return Value{eager: v}
}

// Lazy wraps a deferred computation under a prop key
func Lazy(thunk Thunk) Value {
	return Value{thunk: thunk, lazy: true}
}

// IsLazy reports whether the value is a deferred computation
func (v Value) IsLazy() bool {
	return v.lazy
}

// Resolve produces the concrete value. Eager values return immediately;
// lazy values invoke their thunk.
func (v Value) Resolve(ctx context.Context) (interface{}, error) {
	if !v.lazy {
		return v.eager, nil
	}
	return v.thunk(ctx)
}
