// Package oneormany provides a container that is statically guaranteed to
// hold at least one element. It is used wherever the core requires a
// message, content block, or embedding list to be non-empty by
// construction rather than by runtime check.
package oneormany

import "errors"

// ErrEmpty is returned by constructors given an empty slice.
var ErrEmpty = errors.New("oneormany: at least one element is required")

// OneOrMany holds one head element plus zero or more tail elements. The
// zero value is NOT valid; always construct through New or FromSlice.
type OneOrMany[T any] struct {
	first T
	rest  []T
}

// New builds a OneOrMany from an explicit head and optional tail.
func New[T any](first T, rest ...T) OneOrMany[T] {
	return OneOrMany[T]{first: first, rest: rest}
}

// FromSlice builds a OneOrMany from a slice, failing if it is empty.
func FromSlice[T any](items []T) (OneOrMany[T], error) {
	var zero OneOrMany[T]
	if len(items) == 0 {
		return zero, ErrEmpty
	}
	rest := make([]T, len(items)-1)
	copy(rest, items[1:])
	return OneOrMany[T]{first: items[0], rest: rest}, nil
}

// Len returns the total number of elements; always >= 1.
func (o OneOrMany[T]) Len() int {
	return 1 + len(o.rest)
}

// First returns the head element.
func (o OneOrMany[T]) First() T {
	return o.first
}

// Rest returns the tail elements (may be empty, never nil in practice once
// constructed via New/FromSlice with a tail, but callers must not assume
// non-nil on a fresh New(x) with no tail).
func (o OneOrMany[T]) Rest() []T {
	return o.rest
}

// Slice materializes the full ordered sequence as a new slice.
func (o OneOrMany[T]) Slice() []T {
	out := make([]T, 0, o.Len())
	out = append(out, o.first)
	out = append(out, o.rest...)
	return out
}

// Push appends an element, returning a new OneOrMany (the receiver is not
// mutated).
func (o OneOrMany[T]) Push(v T) OneOrMany[T] {
	rest := make([]T, len(o.rest)+1)
	copy(rest, o.rest)
	rest[len(o.rest)] = v
	return OneOrMany[T]{first: o.first, rest: rest}
}

// Map transforms every element, preserving order and non-emptiness.
func Map[T, U any](o OneOrMany[T], f func(T) U) OneOrMany[U] {
	rest := make([]U, len(o.rest))
	for i, v := range o.rest {
		rest[i] = f(v)
	}
	return OneOrMany[U]{first: f(o.first), rest: rest}
}

// Merge concatenates one or more OneOrMany values in argument order,
// preserving the relative order of every element. The signature
// requires at least one argument, since the empty case cannot produce a
// valid OneOrMany.
func Merge[T any](first OneOrMany[T], rest ...OneOrMany[T]) OneOrMany[T] {
	out := first
	for _, o := range rest {
		for _, v := range o.Slice() {
			out = out.Push(v)
		}
	}
	return out
}

// ForEach visits every element in order.
func (o OneOrMany[T]) ForEach(f func(T)) {
	f(o.first)
	for _, v := range o.rest {
		f(v)
	}
}
