// Package bfn holds call-shaping wrappers: Curry, which spreads a call's
// arguments over a chain of calls, and Memoize, which caches results by
// argument key.
package bfn

import (
	"slices"
)

// Curried collects arguments for fn across any number of calls. Calling it
// with one or more arguments returns the next link of the chain; calling it
// with none fires fn with everything collected so far.
type Curried[A, R any] func(args ...A) Step[A, R]

// Step is what a Curried returns: either fn's result or the next link.
type Step[A, R any] struct {
	next   Curried[A, R]
	result R
	done   bool
}

// Curry turns fn into a Curried chain. The chain is argument-count driven: an
// empty call is the trigger, so
//
//	Curry(sum)(1).Call(2, 3).Call().Result() == sum(1, 2, 3)
//	Curry(sum)().Result() == sum()
//
// Links are immutable and may be reused to branch a chain.
func Curry[A, R any](fn func(args ...A) R) Curried[A, R] {
	return curry(fn, nil)
}

func curry[A, R any](fn func(args ...A) R, collected []A) Curried[A, R] {
	return func(args ...A) Step[A, R] {
		if len(args) == 0 {
			return Step[A, R]{result: fn(slices.Clone(collected)...), done: true}
		}
		return Step[A, R]{next: curry(fn, slices.Concat(collected, args))}
	}
}

// Done reports whether fn has fired.
func (s Step[A, R]) Done() bool { return s.done }

// Result is fn's return value, or the zero R if the chain is still open.
func (s Step[A, R]) Result() R { return s.result }

// Next returns the next link, or nil once fn has fired.
func (s Step[A, R]) Next() Curried[A, R] { return s.next }

// Call continues the chain. Calling a fired or zero Step returns it unchanged.
func (s Step[A, R]) Call(args ...A) Step[A, R] {
	if s.done || s.next == nil {
		return s
	}
	return s.next(args...)
}

// Curry2 is classic fixed-arity currying for two-argument functions.
func Curry2[A, B, R any](fn func(A, B) R) func(A) func(B) R {
	return func(a A) func(B) R {
		return func(b B) R {
			return fn(a, b)
		}
	}
}

// Curry3 is classic fixed-arity currying for three-argument functions.
func Curry3[A, B, C, R any](fn func(A, B, C) R) func(A) func(B) func(C) R {
	return func(a A) func(B) func(C) R {
		return func(b B) func(C) R {
			return func(c C) R {
				return fn(a, b, c)
			}
		}
	}
}
