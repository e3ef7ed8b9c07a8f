// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import "cmp"

// A MonoidAction describes the algebra behind a [Sequence]:
// elements E are summarized by aggregates A, which form a monoid,
// and updates F act on both.
//
// Single lifts one element to an aggregate.
// Identity and Combine form the aggregate monoid.
// ActIdentity and Compose form the update monoid;
// Compose(f, g) is the update that applies f and then g.
// ActElem applies an update to an element.
// ActAgg applies an update to an aggregate. If the aggregate does not
// carry enough information to do that, ActAgg returns false and the
// sequence recomputes the aggregate from the updated children instead.
// Reverse returns the aggregate of the same elements in reverse order;
// for commutative aggregates it is the identity function.
type MonoidAction[E, A, F any] interface {
	Single(x E) A
	Identity() A
	Combine(x, y A) A
	ActIdentity() F
	Compose(f, g F) F
	ActElem(x E, f F) E
	ActAgg(x A, f F) (A, bool)
	Reverse(x A) A
}

// FoldOnly turns a monoid into an action without updates.
// Its Reverse is the identity, so reversing a sequence over a
// non-commutative monoid needs an action of its own.
type FoldOnly[T any] struct {
	Monoid[T]
}

func (FoldOnly[T]) Single(x T) T                        { return x }
func (FoldOnly[T]) ActIdentity() struct{}               { return struct{}{} }
func (FoldOnly[T]) Compose(struct{}, struct{}) struct{} { return struct{}{} }
func (FoldOnly[T]) ActElem(x T, _ struct{}) T           { return x }
func (FoldOnly[T]) ActAgg(x T, _ struct{}) (T, bool)    { return x, true }
func (FoldOnly[T]) Reverse(x T) T                       { return x }

// A SumLen is a sum together with the number of elements summed.
type SumLen[T Number] struct {
	Sum T
	Len int
}

// SumAdd sums ranges and adds a constant to every element of a range.
type SumAdd[T Number] struct{}

func (SumAdd[T]) Single(x T) SumLen[T]          { return SumLen[T]{x, 1} }
func (SumAdd[T]) Identity() SumLen[T]           { return SumLen[T]{} }
func (SumAdd[T]) ActIdentity() T                { return 0 }
func (SumAdd[T]) Compose(f, g T) T              { return f + g }
func (SumAdd[T]) ActElem(x, f T) T              { return x + f }
func (SumAdd[T]) Reverse(x SumLen[T]) SumLen[T] { return x }

func (SumAdd[T]) Combine(x, y SumLen[T]) SumLen[T] {
	return SumLen[T]{x.Sum + y.Sum, x.Len + y.Len}
}

func (SumAdd[T]) ActAgg(x SumLen[T], f T) (SumLen[T], bool) {
	return SumLen[T]{x.Sum + f*T(x.Len), x.Len}, true
}

// MinAdd takes range minimums and adds a constant to every element of a range.
// Top is the identity of the minimum.
type MinAdd[T Number] struct {
	Top T
}

func (MinAdd[T]) Single(x T) T            { return x }
func (m MinAdd[T]) Identity() T           { return m.Top }
func (MinAdd[T]) Combine(x, y T) T        { return min(x, y) }
func (MinAdd[T]) ActIdentity() T          { return 0 }
func (MinAdd[T]) Compose(f, g T) T        { return f + g }
func (MinAdd[T]) ActElem(x, f T) T        { return x + f }
func (MinAdd[T]) ActAgg(x, f T) (T, bool) { return x + f, true }
func (MinAdd[T]) Reverse(x T) T           { return x }

// An Assign is an optional assignment. The zero Assign changes nothing.
type Assign[T any] struct {
	Val T
	Set bool
}

// AssignTo returns the update that sets every element to v.
func AssignTo[T any](v T) Assign[T] { return Assign[T]{v, true} }

// MaxAssign takes range maximums and assigns a value to every element of a range.
// Bottom is the identity of the maximum.
type MaxAssign[T cmp.Ordered] struct {
	Bottom T
}

func (MaxAssign[T]) Single(x T) T           { return x }
func (m MaxAssign[T]) Identity() T          { return m.Bottom }
func (MaxAssign[T]) Combine(x, y T) T       { return max(x, y) }
func (MaxAssign[T]) ActIdentity() Assign[T] { return Assign[T]{} }
func (MaxAssign[T]) Reverse(x T) T          { return x }

func (MaxAssign[T]) Compose(f, g Assign[T]) Assign[T] {
	if g.Set {
		return g
	}
	return f
}

func (MaxAssign[T]) ActElem(x T, f Assign[T]) T {
	if f.Set {
		return f.Val
	}
	return x
}

func (MaxAssign[T]) ActAgg(x T, f Assign[T]) (T, bool) {
	if f.Set {
		return f.Val, true
	}
	return x, true
}

// An Affine is the map x ↦ Mul·x + Add.
type Affine[T Number] struct {
	Mul, Add T
}

// SumAffine sums ranges and applies an affine map to every element of a range.
type SumAffine[T Number] struct{}

func (SumAffine[T]) Single(x T) SumLen[T]          { return SumLen[T]{x, 1} }
func (SumAffine[T]) Identity() SumLen[T]           { return SumLen[T]{} }
func (SumAffine[T]) ActIdentity() Affine[T]        { return Affine[T]{1, 0} }
func (SumAffine[T]) ActElem(x T, f Affine[T]) T    { return f.Mul*x + f.Add }
func (SumAffine[T]) Reverse(x SumLen[T]) SumLen[T] { return x }

func (SumAffine[T]) Combine(x, y SumLen[T]) SumLen[T] {
	return SumLen[T]{x.Sum + y.Sum, x.Len + y.Len}
}

func (SumAffine[T]) Compose(f, g Affine[T]) Affine[T] {
	return Affine[T]{g.Mul * f.Mul, g.Mul*f.Add + g.Add}
}

func (SumAffine[T]) ActAgg(x SumLen[T], f Affine[T]) (SumLen[T], bool) {
	return SumLen[T]{f.Mul*x.Sum + f.Add*T(x.Len), x.Len}, true
}
