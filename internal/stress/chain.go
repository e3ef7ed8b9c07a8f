// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stress

import (
	"context"
	"math/bits"

	"rsc.io/splay"
)

// Chain builds degenerate trees of cfg.Size nodes by inserting in
// order, checks them, splays their deepest nodes and tears them down.
// cfg.Ops bounds the number of random lookups made on the chain
// before teardown.
func Chain(ctx context.Context, cfg Config) (Report, error) {
	r := newRun(ctx, "chain", cfg)
	n := max(cfg.Size, 1)

	var m splay.Map[int, int]
	m.Grow(n)
	for i := range n {
		m.Set(i, i)
	}
	r.depth(m.Depth())
	if m.Depth() != n {
		return r.rep, r.fail("in-order inserts gave depth %d, want %d", m.Depth(), n)
	}
	if err := r.check(m.Verify()); err != nil {
		return r.rep, err
	}

	// Splaying the deepest node halves the height.
	if v, ok := m.Get(0); !ok || v != 0 {
		return r.rep, r.fail("Get(0) = %d, %v", v, ok)
	}
	if d := m.Depth(); d > n/2+2 {
		return r.rep, r.fail("depth %d after splaying the deepest node of %d", d, n)
	}
	for op := range cfg.Ops {
		if err := r.step(op); err != nil {
			return r.rep, err
		}
		k := r.rand.IntN(n)
		if v, ok := m.Get(k); !ok || v != k {
			return r.rep, r.fail("Get(%d) = %d, %v", k, v, ok)
		}
	}
	if err := r.check(m.Verify()); err != nil {
		return r.rep, err
	}
	m.Clear()
	if m.Len() != 0 {
		return r.rep, r.fail("Len() = %d after Clear", m.Len())
	}

	// A bulk build of the same keys is balanced from the start.
	b := splay.CollectMap(func(yield func(int, int) bool) {
		for i := range n {
			if !yield(i, i) {
				return
			}
		}
	})
	if d, limit := b.Depth(), bits.Len(uint(n)); d > limit {
		return r.rep, r.fail("bulk build of %d keys has depth %d, want at most %d", n, d, limit)
	}
	if err := r.check(b.Verify()); err != nil {
		return r.rep, err
	}
	b.Clear()

	s := splay.NewSequenceCap[int, splay.SumLen[int], int](splay.SumAdd[int]{}, n)
	for i := range n {
		s.Push(i)
	}
	r.depth(s.Depth())
	if want := n * (n - 1) / 2; s.Fold(0, n).Sum != want {
		return r.rep, r.fail("Fold(0, %d) = %d, want %d", n, s.Fold(0, n).Sum, want)
	}
	if err := r.check(s.Verify()); err != nil {
		return r.rep, err
	}
	s.Clear()
	return r.done(m.Len() + s.Len()), nil
}
