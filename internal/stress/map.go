// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stress

import (
	"context"
	"slices"

	"rsc.io/splay"
)

// sortedMap is the reference model for the map workload.
type sortedMap struct {
	keys, vals []int
}

func (m *sortedMap) find(k int) (int, bool) {
	return slices.BinarySearch(m.keys, k)
}

func (m *sortedMap) set(k, v int) (old int, replaced bool) {
	i, ok := m.find(k)
	if ok {
		old, m.vals[i] = m.vals[i], v
		return old, true
	}
	m.keys = slices.Insert(m.keys, i, k)
	m.vals = slices.Insert(m.vals, i, v)
	return 0, false
}

func (m *sortedMap) delete(k int) (int, bool) {
	i, ok := m.find(k)
	if !ok {
		return 0, false
	}
	v := m.vals[i]
	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)
	return v, true
}

// sum adds up the values with lo ≤ key < hi.
func (m *sortedMap) sum(lo, hi int) int {
	i, _ := m.find(lo)
	j, _ := m.find(hi)
	total := 0
	for _, v := range m.vals[i:max(i, j)] {
		total += v
	}
	return total
}

// Map runs a random mix of map operations over keys in [0, cfg.Size)
// against a sorted-slice model. Values are summed with a FoldMap.
func Map(ctx context.Context, cfg Config) (Report, error) {
	r := newRun(ctx, "map", cfg)
	n := max(cfg.Size, 1)
	m := splay.NewFoldMap(splay.Monoid[int](splay.Sum[int]{}), func(k, v int) int { return v })
	var ref sortedMap

	for op := range cfg.Ops {
		if err := r.step(op); err != nil {
			return r.rep, err
		}
		k := r.rand.IntN(n)
		switch r.rand.IntN(10) {
		case 0, 1, 2:
			v := r.rand.IntN(1 << 20)
			old, replaced := m.Set(k, v)
			wold, wreplaced := ref.set(k, v)
			if old != wold || replaced != wreplaced {
				return r.rep, r.fail("Set(%d) = %d, %v, want %d, %v", k, old, replaced, wold, wreplaced)
			}
		case 3:
			v, ok := m.Delete(k)
			wv, wok := ref.delete(k)
			if v != wv || ok != wok {
				return r.rep, r.fail("Delete(%d) = %d, %v, want %d, %v", k, v, ok, wv, wok)
			}
		case 4:
			v, ok := m.Get(k)
			i, wok := ref.find(k)
			if ok != wok || ok && v != ref.vals[i] {
				return r.rep, r.fail("Get(%d) = %d, %v, want present=%v", k, v, ok, wok)
			}
		case 5:
			lo, hi := r.span(n)
			if got, want := m.Fold(splay.Included(lo), splay.Excluded(hi)), ref.sum(lo, hi); got != want {
				return r.rep, r.fail("Fold(%d, %d) = %d, want %d", lo, hi, got, want)
			}
		case 6:
			got, _, ok := m.LowerBound(k)
			i, _ := ref.find(k)
			if ok != (i < len(ref.keys)) || ok && got != ref.keys[i] {
				return r.rep, r.fail("LowerBound(%d) = %d, %v", k, got, ok)
			}
		case 7:
			i, _ := ref.find(k)
			if got := m.Rank(k); got != i {
				return r.rep, r.fail("Rank(%d) = %d, want %d", k, got, i)
			}
			if i < len(ref.keys) {
				if got, _, _ := m.At(i); got != ref.keys[i] {
					return r.rep, r.fail("At(%d) = %d, want %d", i, got, ref.keys[i])
				}
			}
		case 8:
			more := m.Split(k)
			if got, want := more.Len(), len(ref.keys)-m.Rank(k); got != want {
				return r.rep, r.fail("Split(%d) moved %d entries, want %d", k, got, want)
			}
			m.Join(more)
		case 9:
			if r.rand.IntN(20) == 0 {
				lo, hi := r.span(n)
				m.DeleteRange(lo, hi)
				for _, key := range slices.Clone(ref.keys) {
					if lo <= key && key <= hi {
						ref.delete(key)
					}
				}
			}
		}
		if m.Len() != len(ref.keys) {
			return r.rep, r.fail("Len() = %d, want %d", m.Len(), len(ref.keys))
		}
		if op%256 == 0 {
			if err := r.check(m.Verify()); err != nil {
				return r.rep, err
			}
			r.depth(m.Depth())
		}
	}

	i := 0
	for k, v := range m.All() {
		if i >= len(ref.keys) || k != ref.keys[i] || v != ref.vals[i] {
			return r.rep, r.fail("All() entry %d = %d:%d", i, k, v)
		}
		i++
	}
	if err := r.check(m.Verify()); err != nil {
		return r.rep, err
	}
	r.depth(m.Depth())
	return r.done(m.Len()), nil
}
