// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// A Monoid is an associative operation with an identity element.
// Combine need not be commutative; trees always combine in key or
// position order.
type Monoid[T any] interface {
	Identity() T
	Combine(x, y T) T
}

// Number is the set of types the arithmetic monoids and actions work on.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum is addition with identity 0.
type Sum[T Number] struct{}

func (Sum[T]) Identity() T      { return 0 }
func (Sum[T]) Combine(x, y T) T { return x + y }

// Min is the minimum with identity Top,
// which must be at least every value combined.
type Min[T cmp.Ordered] struct {
	Top T
}

func (m Min[T]) Identity() T    { return m.Top }
func (Min[T]) Combine(x, y T) T { return min(x, y) }

// Max is the maximum with identity Bottom,
// which must be at most every value combined.
type Max[T cmp.Ordered] struct {
	Bottom T
}

func (m Max[T]) Identity() T    { return m.Bottom }
func (Max[T]) Combine(x, y T) T { return max(x, y) }

// Count is a lift function for a [FoldMap] that counts entries
// when paired with Sum[int].
func Count[K, V any](K, V) int { return 1 }
