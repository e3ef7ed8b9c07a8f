// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import (
	"math/rand/v2"
	"testing"
)

// A mapper is the part of the map API the benchmarks drive.
type mapper[K, V any] interface {
	Get(K) (V, bool)
	Set(K, V) (V, bool)
	Delete(K) (V, bool)
	Depth() int
}

var maps = []struct {
	name string
	new  func() mapper[int, int]
}{
	{"Map", func() mapper[int, int] { return new(Map[int, int]) }},
	{"FoldMap", func() mapper[int, int] {
		return NewFoldMap(Monoid[int](Sum[int]{}), func(k, v int) int { return v })
	}},
}

func benchMaps(b *testing.B, bench func(b *testing.B, newMap func() mapper[int, int])) {
	for _, m := range maps {
		b.Run(m.name, func(b *testing.B) { bench(b, m.new) })
	}
}

func BenchmarkGetRandRand(b *testing.B) {
	benchMaps(b, func(b *testing.B, newMap func() mapper[int, int]) {
		const N = 100000
		m := newMap()
		rand := rand.New(rand.NewPCG(1, 1))
		for _, v := range rand.Perm(N) {
			m.Set(v, v)
		}
		perm := rand.Perm(N)
		b.ResetTimer()
		n := 0
		for range b.N {
			m.Get(perm[n])
			n++
			if n == N {
				n = 0
			}
		}
	})
}

func BenchmarkGetSeqRand(b *testing.B) {
	benchMaps(b, func(b *testing.B, newMap func() mapper[int, int]) {
		const N = 100000
		rand := rand.New(rand.NewPCG(1, 1))
		m := newMap()
		for v := range N {
			m.Set(v, v)
		}
		perm := rand.Perm(N)
		b.ResetTimer()
		n := 0
		for range b.N {
			m.Get(perm[n])
			n++
			if n == N {
				n = 0
			}
		}
	})
}

// Repeated lookups of a few hot keys are where splaying pays off.
func BenchmarkGetHot(b *testing.B) {
	benchMaps(b, func(b *testing.B, newMap func() mapper[int, int]) {
		const N = 100000
		rand := rand.New(rand.NewPCG(1, 1))
		m := newMap()
		for _, v := range rand.Perm(N) {
			m.Set(v, v)
		}
		b.ResetTimer()
		for i := range b.N {
			m.Get(i % 16 * 1000)
		}
	})
}

func BenchmarkSetDelete(b *testing.B) {
	benchMaps(b, func(b *testing.B, newMap func() mapper[int, int]) {
		const N = 100000
		perm := rand.Perm(N)
		perm2 := rand.Perm(N)
		m := newMap()
		b.ResetTimer()
		n := 0
		for range b.N {
			if n < N {
				m.Set(perm[n], perm[n])
			} else {
				m.Delete(perm2[n-N])
			}
			n++
			if n == 2*N {
				n = 0
			}
		}
	})
}

func BenchmarkSequenceApplyFold(b *testing.B) {
	const N = 100000
	rand := rand.New(rand.NewPCG(1, 1))
	s := FromSlice[int, SumLen[int], int](SumAdd[int]{}, rand.Perm(N))
	b.ResetTimer()
	for i := range b.N {
		lo := rand.IntN(N)
		hi := lo + rand.IntN(N-lo+1)
		if i%2 == 0 {
			s.Apply(lo, hi, 1)
		} else {
			s.Fold(lo, hi)
		}
	}
}

func BenchmarkSequenceReverse(b *testing.B) {
	const N = 100000
	rand := rand.New(rand.NewPCG(1, 1))
	s := FromSlice[int, SumLen[int], int](SumAdd[int]{}, rand.Perm(N))
	b.ResetTimer()
	for range b.N {
		lo := rand.IntN(N)
		s.Reverse(lo, lo+rand.IntN(N-lo+1))
	}
}
