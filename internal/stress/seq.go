// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stress

import (
	"context"
	"slices"

	"rsc.io/splay"
)

// Seq runs a random mix of sequence operations against a plain slice,
// starting from cfg.Size elements. Ranges are summed, shifted by
// constants and reversed.
func Seq(ctx context.Context, cfg Config) (Report, error) {
	r := newRun(ctx, "seq", cfg)
	ref := make([]int, max(cfg.Size, 0))
	for i := range ref {
		ref[i] = r.rand.IntN(1000)
	}
	s := splay.FromSlice[int, splay.SumLen[int], int](splay.SumAdd[int]{}, ref)

	for op := range cfg.Ops {
		if err := r.step(op); err != nil {
			return r.rep, err
		}
		switch r.rand.IntN(9) {
		case 0, 1:
			pos, x := r.rand.IntN(len(ref)+1), r.rand.IntN(1000)
			s.Insert(pos, x)
			ref = slices.Insert(ref, pos, x)
		case 2:
			pos := r.rand.IntN(len(ref) + 1)
			x, ok := s.Remove(pos)
			if ok != (pos < len(ref)) || ok && x != ref[pos] {
				return r.rep, r.fail("Remove(%d) = %d, %v", pos, x, ok)
			}
			if ok {
				ref = slices.Delete(ref, pos, pos+1)
			}
		case 3:
			lo, hi := r.span(len(ref))
			want := splay.SumLen[int]{Len: hi - lo}
			for _, x := range ref[lo:hi] {
				want.Sum += x
			}
			if got := s.Fold(lo, hi); got != want {
				return r.rep, r.fail("Fold(%d, %d) = %+v, want %+v", lo, hi, got, want)
			}
		case 4:
			lo, hi := r.span(len(ref))
			f := r.rand.IntN(201) - 100
			s.Apply(lo, hi, f)
			for i := lo; i < hi; i++ {
				ref[i] += f
			}
		case 5:
			lo, hi := r.span(len(ref))
			s.Reverse(lo, hi)
			slices.Reverse(ref[lo:hi])
		case 6:
			pos := r.rand.IntN(len(ref) + 1)
			more := s.SplitAt(pos)
			if s.Len() != pos || more.Len() != len(ref)-pos {
				return r.rep, r.fail("SplitAt(%d) left %d and %d elements", pos, s.Len(), more.Len())
			}
			s.Concat(more)
		case 7:
			mid := r.rand.IntN(len(ref) + 1)
			s.RotateLeft(mid)
			ref = append(ref[mid:], ref[:mid]...)
		case 8:
			if len(ref) > 0 {
				pos := r.rand.IntN(len(ref))
				if x, _ := s.Get(pos); x != ref[pos] {
					return r.rep, r.fail("Get(%d) = %d, want %d", pos, x, ref[pos])
				}
			}
		}
		if s.Len() != len(ref) {
			return r.rep, r.fail("Len() = %d, want %d", s.Len(), len(ref))
		}
		if op%256 == 0 {
			if err := r.check(s.Verify()); err != nil {
				return r.rep, err
			}
			r.depth(s.Depth())
		}
	}

	if got := s.Slice(); !slices.Equal(got, ref) {
		return r.rep, r.fail("final contents differ from reference")
	}
	if err := r.check(s.Verify()); err != nil {
		return r.rep, err
	}
	r.depth(s.Depth())
	return r.done(s.Len()), nil
}
