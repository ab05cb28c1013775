// Package pipeline implements a small compositional layer over the
// prompt engine and its supporting abstractions: a generic Op trait
// plus combinators (Map, Then, Passthrough, Parallel, Lookup, Prompt)
// that wire agents and vector indexes into higher-level flows.
//
// Operators are purely structural: they introduce no concurrency
// primitive beyond what Parallel uses internally, mirroring the
// teacher's own preference for thin composition over new runtime
// machinery.
package pipeline

import "context"

// Op is the single-input, single-output unit of composition: a
// context-aware function from I to O that may fail.
type Op[I, O any] interface {
	Call(ctx context.Context, input I) (O, error)
}

// OpFunc adapts a plain function to the Op interface, the functional
// analogue of http.HandlerFunc.
type OpFunc[I, O any] func(ctx context.Context, input I) (O, error)

func (f OpFunc[I, O]) Call(ctx context.Context, input I) (O, error) { return f(ctx, input) }

// Map lifts a pure, infallible function into an Op.
func Map[I, O any](f func(I) O) Op[I, O] {
	return OpFunc[I, O](func(ctx context.Context, input I) (O, error) {
		return f(input), nil
	})
}

// Then wraps a fallible, context-aware function as an Op. It exists
// alongside Map so a pipeline reads the same way whether a stage is a
// pure transform or one with its own suspension points (an HTTP call,
// a tool invocation, anything else that can fail).
func Then[I, O any](f func(context.Context, I) (O, error)) Op[I, O] {
	return OpFunc[I, O](f)
}

// Passthrough is the identity Op.
func Passthrough[I any]() Op[I, I] {
	return OpFunc[I, I](func(ctx context.Context, input I) (I, error) {
		return input, nil
	})
}

// Pipe composes two Ops end to end, feeding first's output into
// second's input. Chained calls to Pipe build arbitrarily long
// sequential pipelines, the Go equivalent of the original's method-
// chaining combinators.
func Pipe[A, B, C any](first Op[A, B], second Op[B, C]) Op[A, C] {
	return OpFunc[A, C](func(ctx context.Context, input A) (C, error) {
		var zero C
		mid, err := first.Call(ctx, input)
		if err != nil {
			return zero, err
		}
		return second.Call(ctx, mid)
	})
}
