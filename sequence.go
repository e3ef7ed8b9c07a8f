// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import (
	"fmt"
	"iter"
)

// A Sequence is an indexed sequence of elements E summarized by
// aggregates A and updated in bulk by actions F, as described by a
// [MonoidAction]. Positions count from 0 and ranges are half-open:
// [lo, hi) holds the elements at positions lo through hi-1.
//
// Range updates and reversals are lazy: they cost O(log n) amortized
// however long the range, and reach individual elements only when an
// operation looks at them.
//
// The zero value of a Sequence is not meaningful; use [NewSequence].
type Sequence[E, A, F any] struct {
	engine[item[E, A, F], lazyPolicy[E, A, F]]
	root Handle
	mods int // bumped by every mutation
}

// NewSequence returns an empty sequence using act.
func NewSequence[E, A, F any](act MonoidAction[E, A, F]) *Sequence[E, A, F] {
	return NewSequenceCap(act, 0)
}

// NewSequenceCap returns an empty sequence using act,
// with room for capacity elements before its storage has to grow.
func NewSequenceCap[E, A, F any](act MonoidAction[E, A, F], capacity int) *Sequence[E, A, F] {
	s := new(Sequence[E, A, F])
	s.pool = NewPool[node[item[E, A, F]]](capacity)
	s.policy = lazyPolicy[E, A, F]{act}
	return s
}

// FromSlice returns a sequence holding the elements of xs.
func FromSlice[E, A, F any](act MonoidAction[E, A, F], xs []E) *Sequence[E, A, F] {
	s := NewSequenceCap(act, len(xs))
	s.Append(xs...)
	return s
}

// Grow makes room in s's storage for n more elements.
func (s *Sequence[E, A, F]) Grow(n int) {
	s.pool.Grow(n)
}

func (s *Sequence[E, A, F]) newItem(x E) item[E, A, F] {
	return item[E, A, F]{elem: x, lazy: s.policy.act.ActIdentity()}
}

// Len returns the number of elements in s.
func (s *Sequence[E, A, F]) Len() int {
	return s.size(s.root)
}

func (s *Sequence[E, A, F]) checkRange(lo, hi int) {
	if lo < 0 || hi > s.Len() || lo > hi {
		panic(fmt.Sprintf("splay: range [%d, %d) out of bounds for length %d", lo, hi, s.Len()))
	}
}

func (s *Sequence[E, A, F]) checkPos(op string, pos, n int) {
	if pos < 0 || pos > n {
		panic(fmt.Sprintf("splay: %s position %d out of range [0, %d]", op, pos, n))
	}
}

// isolate splits s into the trees holding [0, lo), [lo, hi) and [hi, Len).
// restore puts them back together.
func (s *Sequence[E, A, F]) isolate(lo, hi int) (l, mid, r Handle) {
	s.checkRange(lo, hi)
	l, mid = s.split(s.root, s.fromPosition(lo))
	mid, r = s.split(mid, s.fromPosition(hi-lo))
	s.root = 0
	return l, mid, r
}

func (s *Sequence[E, A, F]) restore(l, mid, r Handle) {
	s.root = s.merge(s.merge(l, mid), r)
}

// splayAt splays the element at pos, which must be in range, to the root.
func (s *Sequence[E, A, F]) splayAt(pos int) *node[item[E, A, F]] {
	s.root, _ = s.splayBy(s.root, s.byPosition(pos))
	return s.node(s.root)
}

// Get returns the element at pos.
func (s *Sequence[E, A, F]) Get(pos int) (x E, ok bool) {
	if pos < 0 || pos >= s.Len() {
		return x, false
	}
	return s.splayAt(pos).data.elem, true
}

// Set replaces the element at pos with x.
// It panics if pos is out of range.
func (s *Sequence[E, A, F]) Set(pos int, x E) {
	s.checkPos("Set", pos, s.Len()-1)
	s.splayAt(pos).data.elem = x
	s.pullUp(s.root)
	s.mods++
}

// Insert inserts x at pos, shifting later elements up by one.
// Inserting at Len appends. Insert panics if pos is out of range.
func (s *Sequence[E, A, F]) Insert(pos int, x E) {
	s.checkPos("Insert", pos, s.Len())
	l, r := s.split(s.root, s.fromPosition(pos))
	s.root = s.join3(l, s.alloc(s.newItem(x)), r)
	s.mods++
}

// Push appends x to s.
func (s *Sequence[E, A, F]) Push(x E) {
	s.Insert(s.Len(), x)
}

// Append appends xs to s.
func (s *Sequence[E, A, F]) Append(xs ...E) {
	if len(xs) == 0 {
		return
	}
	s.pool.Grow(len(xs))
	hs := make([]Handle, len(xs))
	for i, x := range xs {
		hs[i] = s.alloc(s.newItem(x))
	}
	s.root = s.merge(s.root, s.build(hs))
	s.mods++
}

// Remove removes and returns the element at pos.
// If pos is out of range, Remove does nothing and returns false.
func (s *Sequence[E, A, F]) Remove(pos int) (x E, ok bool) {
	if pos < 0 || pos >= s.Len() {
		return x, false
	}
	s.splayAt(pos)
	y := s.root
	s.root = s.takeRoot(y)
	s.mods++
	return s.pool.Deallocate(y).data.elem, true
}

// Fold returns the aggregate of the elements in [lo, hi).
// An empty range folds to the identity.
func (s *Sequence[E, A, F]) Fold(lo, hi int) A {
	l, mid, r := s.isolate(lo, hi)
	agg := s.policy.act.Identity()
	if mid != 0 {
		agg = s.node(mid).data.agg
	}
	s.restore(l, mid, r)
	return agg
}

// Apply applies f to every element in [lo, hi).
func (s *Sequence[E, A, F]) Apply(lo, hi int, f F) {
	l, mid, r := s.isolate(lo, hi)
	if mid != 0 {
		s.policy.apply(s.pool, mid, f)
	}
	s.restore(l, mid, r)
	s.mods++
}

// Reverse reverses the order of the elements in [lo, hi).
func (s *Sequence[E, A, F]) Reverse(lo, hi int) {
	l, mid, r := s.isolate(lo, hi)
	if mid != 0 {
		s.policy.reverse(s.pool, mid)
	}
	s.restore(l, mid, r)
	s.mods++
}

// SplitAt moves the elements at positions pos and later into a new
// sequence, which it returns. The two sequences share storage.
func (s *Sequence[E, A, F]) SplitAt(pos int) *Sequence[E, A, F] {
	s.checkPos("SplitAt", pos, s.Len())
	more := &Sequence[E, A, F]{engine: s.engine}
	s.root, more.root = s.split(s.root, s.fromPosition(pos))
	s.mods++
	return more
}

// Concat moves the elements of more to the end of s, leaving more empty.
func (s *Sequence[E, A, F]) Concat(more *Sequence[E, A, F]) {
	if more == s {
		panic("splay: Concat of Sequence with itself")
	}
	root := s.adopt(&more.engine, more.root)
	more.root = 0
	more.mods++
	s.root = s.merge(s.root, root)
	s.mods++
}

// RotateLeft rotates s in place so that the element at mid becomes the first.
func (s *Sequence[E, A, F]) RotateLeft(mid int) {
	n := s.Len()
	s.checkPos("RotateLeft", mid, n)
	if mid == 0 || mid == n {
		return
	}
	l, r := s.split(s.root, s.fromPosition(mid))
	s.root = s.merge(r, l)
	s.mods++
}

// RotateRight rotates s in place so that the last k elements come first.
func (s *Sequence[E, A, F]) RotateRight(k int) {
	n := s.Len()
	s.checkPos("RotateRight", k, n)
	s.RotateLeft(n - k)
}

// Search returns the first position p in [lo, hi) such that pred holds
// for the aggregate of [lo, p+1). pred must be monotone: once it holds
// for a prefix, it holds for every longer prefix.
func (s *Sequence[E, A, F]) Search(lo, hi int, pred func(A) bool) (int, bool) {
	act := s.policy.act
	acc := act.Identity()
	return s.search(lo, hi, func(x Handle) int {
		n := s.node(x)
		if n.left != 0 {
			next := act.Combine(acc, s.node(n.left).data.agg)
			if pred(next) {
				return -1
			}
			acc = next
		}
		acc = act.Combine(acc, act.Single(n.data.elem))
		if pred(acc) {
			return 0
		}
		return +1
	})
}

// SearchLast returns the last position p in [lo, hi) such that pred holds
// for the aggregate of [p, hi). pred must be monotone: once it holds
// for a suffix, it holds for every longer suffix.
func (s *Sequence[E, A, F]) SearchLast(lo, hi int, pred func(A) bool) (int, bool) {
	act := s.policy.act
	acc := act.Identity()
	return s.search(lo, hi, func(x Handle) int {
		n := s.node(x)
		if n.right != 0 {
			next := act.Combine(s.node(n.right).data.agg, acc)
			if pred(next) {
				return +1
			}
			acc = next
		}
		acc = act.Combine(act.Single(n.data.elem), acc)
		if pred(acc) {
			return 0
		}
		return -1
	})
}

func (s *Sequence[E, A, F]) search(lo, hi int, seek func(Handle) int) (int, bool) {
	l, mid, r := s.isolate(lo, hi)
	mid, c := s.splayBy(mid, seek)
	pos := -1
	if c == 0 {
		pos = lo + s.size(s.node(mid).left)
	}
	s.restore(l, mid, r)
	return pos, pos >= 0
}

// All returns an iterator over the positions and elements of s.
// If s is modified during the iteration, the iteration continues
// from the position after the last one visited.
func (s *Sequence[E, A, F]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		if s.root == 0 {
			return
		}
		s.root = s.first(s.root)
		x := s.root
		for i := 0; x != 0; i++ {
			mods := s.mods
			if !yield(i, s.node(x).data.elem) {
				return
			}
			switch {
			case s.mods == mods:
				x = s.next(x)
			case i+1 < s.Len():
				s.splayAt(i + 1)
				x = s.root
			default:
				return
			}
		}
	}
}

// Slice returns the elements of s in order.
func (s *Sequence[E, A, F]) Slice() []E {
	xs := make([]E, 0, s.Len())
	s.walk(s.root, func(x Handle) bool {
		xs = append(xs, s.node(x).data.elem)
		return true
	})
	return xs
}

// Clear removes every element from s.
func (s *Sequence[E, A, F]) Clear() {
	s.release(s.root)
	s.root = 0
	s.mods++
}

// Depth returns the height of the tree.
func (s *Sequence[E, A, F]) Depth() int {
	return s.depth(s.root)
}

// Verify checks the parent links, subtree sizes and aggregates of the tree.
// It applies pending updates on the way, so it costs O(n).
func (s *Sequence[E, A, F]) Verify() error {
	return s.verify(s.root)
}
