// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

// A BoundKind says how a [Bound] limits a range.
type BoundKind uint8

const (
	NoBound BoundKind = iota
	IncludedBound
	ExcludedBound
)

// A Bound is one end of a key range.
// The zero Bound places no limit.
type Bound[T any] struct {
	Value T
	Kind  BoundKind
}

// Included returns a bound that admits v itself.
func Included[T any](v T) Bound[T] { return Bound[T]{v, IncludedBound} }

// Excluded returns a bound that stops just short of v.
func Excluded[T any](v T) Bound[T] { return Bound[T]{v, ExcludedBound} }

// Unbounded returns the bound that places no limit.
func Unbounded[T any]() Bound[T] { return Bound[T]{} }

// below reports whether a key k with cmp.Compare(k, lo.Value) == c
// lies before the range that starts at lo.
func (lo Bound[T]) below(c int) bool {
	switch lo.Kind {
	case IncludedBound:
		return c < 0
	case ExcludedBound:
		return c <= 0
	}
	return false
}

// above reports whether a key k with cmp.Compare(k, hi.Value) == c
// lies after the range that ends at hi.
func (hi Bound[T]) above(c int) bool {
	switch hi.Kind {
	case IncludedBound:
		return c > 0
	case ExcludedBound:
		return c >= 0
	}
	return false
}
