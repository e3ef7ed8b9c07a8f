// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import "slices"

// A Handle identifies a slot in a [Pool].
// The zero Handle is the nil handle and never refers to a live slot.
type Handle uint32

// A Pool is a typed arena handing out stable handles to its slots.
// Freed slots are threaded onto a free list and reused before the
// arena grows. The zero value of a Pool is an empty Pool ready to use.
//
// A Pool does not detect double frees; callers own that contract.
// Access through a nil, out-of-range or freed handle panics.
type Pool[T any] struct {
	slots []slot[T]
	free  Handle // head of the free list
	live  int
	nfree int
}

type slot[T any] struct {
	val  T
	next Handle // next free slot, valid only when !used
	used bool
}

// NewPool returns an empty pool with room for capacity values
// before it has to grow.
func NewPool[T any](capacity int) *Pool[T] {
	p := new(Pool[T])
	p.Grow(capacity)
	return p
}

// Grow makes room for n more values, if necessary,
// so that the next n calls to Allocate do not grow the arena.
func (p *Pool[T]) Grow(n int) {
	if len(p.slots) == 0 {
		// slot 0 is the nil handle
		p.slots = append(p.slots, slot[T]{})
	}
	if n -= p.nfree; n > 0 {
		p.slots = slices.Grow(p.slots, n)
	}
}

// Allocate stores v in a free slot and returns its handle.
func (p *Pool[T]) Allocate(v T) Handle {
	if len(p.slots) == 0 {
		// slot 0 is the nil handle
		p.slots = append(p.slots, slot[T]{})
	}
	var h Handle
	if p.free != 0 {
		h = p.free
		s := &p.slots[h]
		p.free = s.next
		p.nfree--
		s.val, s.next, s.used = v, 0, true
	} else {
		h = Handle(len(p.slots))
		p.slots = append(p.slots, slot[T]{val: v, used: true})
	}
	p.live++
	return h
}

// Deallocate releases h and returns the value it held.
// The slot is zeroed so the pool no longer retains anything v references.
func (p *Pool[T]) Deallocate(h Handle) T {
	s := p.slot(h)
	v := s.val
	var zero T
	s.val, s.next, s.used = zero, p.free, false
	p.free = h
	p.live--
	p.nfree++
	return v
}

// Get returns a pointer to the value stored at h.
// The pointer is valid until the next Allocate.
func (p *Pool[T]) Get(h Handle) *T {
	return &p.slot(h).val
}

func (p *Pool[T]) slot(h Handle) *slot[T] {
	if h == 0 || int(h) >= len(p.slots) {
		panic("splay: invalid handle")
	}
	s := &p.slots[h]
	if !s.used {
		panic("splay: use of freed handle")
	}
	return s
}

// Len returns the number of live slots.
func (p *Pool[T]) Len() int { return p.live }

// Free returns the number of slots on the free list.
func (p *Pool[T]) Free() int { return p.nfree }

// Cap returns the number of slots the pool has created,
// live or free.
func (p *Pool[T]) Cap() int { return max(len(p.slots)-1, 0) }

// Reset releases every slot at once, invalidating all handles.
// The sweep is a flat loop over the slots, so the cost does not
// depend on the shape of whatever was stored in them.
func (p *Pool[T]) Reset() {
	clear(p.slots)
	if len(p.slots) > 0 {
		p.slots = p.slots[:1]
	}
	p.free, p.live, p.nfree = 0, 0, 0
}
