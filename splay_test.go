// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	for range 10 {
		const N = 10
		var tr Map[int, int]
		perm := rand.Perm(N)
		inv := make([]int, N)
		for i, x := range perm {
			tr.Set(x, i)
			inv[x] = i
		}
		require.NoError(t, tr.Verify(), "tree: %s", tr.Dump())

		for i, x := range perm {
			v, ok := tr.Get(x)
			if v != i || !ok {
				t.Errorf("Get(%d) = %d, %v, want %d, true", x, v, ok, i)
			}
		}

		var all []int
		for k, v := range tr.All() {
			if v != inv[k] {
				t.Errorf("All() returned %d, %d want %d, %d", k, v, k, inv[k])
			}
			all = append(all, k)
			if len(all) > N+5 {
				break
			}
		}
		if !match(all, 0, N-1) {
			t.Errorf("All() = %v, want 0..%d", all, N-1)
		}
		for lo := -1; lo <= N; lo++ {
			for hi := lo; hi <= N; hi++ {
				var scan []int
				for k, v := range tr.Scan(lo, hi) {
					if v != inv[k] {
						t.Errorf("Scan() returned %d, %d want %d, %d", k, v, k, inv[k])
					}
					scan = append(scan, k)
					if len(scan) > N+5 {
						break
					}
				}
				if !match(scan, max(lo, 0), min(hi, N-1)) {
					t.Errorf("Scan(%d, %d) = %v, want %d..%d", lo, hi, scan, lo, hi)
				}
			}
		}

		for i, x := range perm {
			tr.Delete(x)
			var list []int
			for k := range tr.All() {
				list = append(list, k)
			}
			want := slices.Clone(perm[i+1:])
			slices.Sort(want)
			if !slices.Equal(list, want) {
				t.Errorf("after Delete [%v], All() = %v, want %v", perm[:i+1], list, want)
			}
			if err := tr.Verify(); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func match(xs []int, lo, hi int) bool {
	if len(xs) != hi+1-lo {
		return false
	}
	for i, x := range xs {
		if x != lo+i {
			return false
		}
	}
	return true
}

func TestMapExample(t *testing.T) {
	m := NewFoldMap(Monoid[int](Sum[int]{}), Count[int, string])
	m.Set(5, "a")
	m.Set(2, "b")
	m.Set(8, "c")
	v, ok := m.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, m.Fold(Included(2), Included(5)))
	assert.Equal(t, 1, m.Fold(Excluded(2), Included(5)))
	assert.Equal(t, 3, m.Fold(Unbounded[int](), Unbounded[int]()))
	assert.Equal(t, 0, m.Fold(Included(3), Excluded(5)))
	assert.Panics(t, func() { m.Fold(Included(5), Included(2)) })
	assert.NoError(t, m.Verify())
}

func TestMapLaws(t *testing.T) {
	var m Map[string, int]

	old, replaced := m.Set("x", 1)
	assert.False(t, replaced)
	assert.Zero(t, old)
	old, replaced = m.Set("x", 2)
	assert.True(t, replaced)
	assert.Equal(t, 1, old)
	assert.Equal(t, 1, m.Len(), "Set of an existing key must not duplicate it")

	v, ok := m.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = m.Delete("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())

	v, ok = m.Delete("x")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = m.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMapEmpty(t *testing.T) {
	var m Map[int, int]
	_, _, ok := m.Min()
	assert.False(t, ok)
	_, _, ok = m.Max()
	assert.False(t, ok)
	_, _, ok = m.LowerBound(0)
	assert.False(t, ok)
	_, _, ok = m.At(0)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Rank(3))
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, "nil", m.Dump())
	m.DeleteRange(0, 10)
	m.Clear()
	assert.NoError(t, m.Verify())
}

func TestMapBounds(t *testing.T) {
	var m Map[int, string]
	for _, k := range []int{10, 20, 30, 40} {
		m.Set(k, "")
	}
	for _, tt := range []struct {
		key          int
		lower, upper int
		lok, uok     bool
	}{
		{5, 10, 10, true, true},
		{10, 10, 20, true, true},
		{15, 20, 20, true, true},
		{40, 40, 0, true, false},
		{45, 0, 0, false, false},
	} {
		k, _, ok := m.LowerBound(tt.key)
		assert.Equal(t, tt.lok, ok, "LowerBound(%d)", tt.key)
		if ok {
			assert.Equal(t, tt.lower, k, "LowerBound(%d)", tt.key)
		}
		k, _, ok = m.UpperBound(tt.key)
		assert.Equal(t, tt.uok, ok, "UpperBound(%d)", tt.key)
		if ok {
			assert.Equal(t, tt.upper, k, "UpperBound(%d)", tt.key)
		}
	}
	k, _, _ := m.Min()
	assert.Equal(t, 10, k)
	k, _, _ = m.Max()
	assert.Equal(t, 40, k)
	require.NoError(t, m.Verify())
}

func TestMapOrderStatistics(t *testing.T) {
	var m Map[int, int]
	const N = 200
	for _, x := range rand.Perm(N) {
		m.Set(2*x, x)
	}
	for i := range N {
		k, v, ok := m.At(i)
		require.True(t, ok)
		assert.Equal(t, 2*i, k)
		assert.Equal(t, i, v)
		assert.Equal(t, i, m.Rank(2*i))
		assert.Equal(t, i+1, m.Rank(2*i+1))
	}
	_, _, ok := m.At(N)
	assert.False(t, ok)
	_, _, ok = m.At(-1)
	assert.False(t, ok)

	k, _, ok := m.DeleteAt(0)
	assert.True(t, ok)
	assert.Equal(t, 0, k)
	k, _, ok = m.DeleteAt(m.Len() - 1)
	assert.True(t, ok)
	assert.Equal(t, 2*(N-1), k)
	assert.Equal(t, N-2, m.Len())
	require.NoError(t, m.Verify())
}

func TestMapRange(t *testing.T) {
	var m Map[int, int]
	for i := range 10 {
		m.Set(i, i)
	}
	collect := func(lo, hi Bound[int]) []int {
		var keys []int
		for k := range m.Range(lo, hi) {
			keys = append(keys, k)
		}
		return keys
	}
	assert.Equal(t, []int{2, 3, 4, 5}, collect(Included(2), Included(5)))
	assert.Equal(t, []int{3, 4}, collect(Excluded(2), Excluded(5)))
	assert.Equal(t, []int{0, 1, 2}, collect(Unbounded[int](), Excluded(3)))
	assert.Equal(t, []int{8, 9}, collect(Excluded(7), Unbounded[int]()))
	assert.Nil(t, collect(Excluded(4), Excluded(5)))
	assert.Panics(t, func() { m.Range(Included(5), Included(4)) })
}

func TestMapDeleteDuringIteration(t *testing.T) {
	var m Map[int, int]
	for i := range 20 {
		m.Set(i, i)
	}
	var seen []int
	for k := range m.All() {
		seen = append(seen, k)
		m.Delete(k)
		m.Delete(k + 1)
	}
	want := []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}
	assert.Equal(t, want, seen)
	assert.Equal(t, 0, m.Len())
}

func TestMapSplitJoin(t *testing.T) {
	for range 20 {
		const N = 100
		var m Map[int, int]
		for _, x := range rand.Perm(N) {
			m.Set(x, -x)
		}
		key := rand.IntN(N + 2)
		more := m.Split(key)
		require.NoError(t, m.Verify())
		require.NoError(t, more.Verify())
		assert.Equal(t, min(key, N), m.Len())
		for k := range m.All() {
			assert.Less(t, k, key)
		}
		for k := range more.All() {
			assert.GreaterOrEqual(t, k, key)
		}

		m.Join(more)
		assert.Equal(t, 0, more.Len())
		assert.Equal(t, N, m.Len())
		require.NoError(t, m.Verify())
		var keys []int
		for k, v := range m.All() {
			assert.Equal(t, -k, v)
			keys = append(keys, k)
		}
		assert.True(t, match(keys, 0, N-1))
	}
}

func TestMapJoinSeparatePools(t *testing.T) {
	var a, b Map[int, string]
	for i := range 5 {
		a.Set(i, "a")
		b.Set(i+10, "b")
	}
	a.Join(&b)
	assert.Equal(t, 10, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.pool.Len())
	require.NoError(t, a.Verify())
	v, ok := a.Get(12)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	var c Map[int, string]
	c.Set(3, "c")
	assert.Panics(t, func() { a.Join(&c) })
	assert.Panics(t, func() { a.Join(&a) })
}

func TestMapDeleteRange(t *testing.T) {
	var m Map[int, int]
	for i := range 10 {
		m.Set(i, i)
	}
	m.DeleteRange(7, 3)
	assert.Equal(t, 10, m.Len())
	m.DeleteRange(3, 6)
	var keys []int
	for k := range m.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []int{0, 1, 2, 7, 8, 9}, keys)
	assert.Equal(t, 6, m.pool.Len())
	require.NoError(t, m.Verify())
}

func TestMapFunc(t *testing.T) {
	m := NewMapFunc[string, int](func(x, y string) int {
		return cmp.Compare(strings.ToLower(x), strings.ToLower(y))
	})
	m.Set("b", 1)
	m.Set("A", 2)
	m.Set("B", 3)
	assert.Equal(t, 2, m.Len())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	v, _ = m.Get("b")
	assert.Equal(t, 3, v)

	more := m.Split("b")
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, more.Len())
	m.Join(more)
	assert.Equal(t, 2, m.Len())
	require.NoError(t, m.Verify())
}

// mapModel is a sorted-slice reference for Map.
type mapModel struct {
	keys, vals []int
}

func (m *mapModel) set(k, v int) {
	i, ok := slices.BinarySearch(m.keys, k)
	if ok {
		m.vals[i] = v
		return
	}
	m.keys = slices.Insert(m.keys, i, k)
	m.vals = slices.Insert(m.vals, i, v)
}

func (m *mapModel) delete(k int) bool {
	i, ok := slices.BinarySearch(m.keys, k)
	if ok {
		m.keys = slices.Delete(m.keys, i, i+1)
		m.vals = slices.Delete(m.vals, i, i+1)
	}
	return ok
}

func TestFoldMapRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	m := NewFoldMap(Monoid[int](Sum[int]{}), func(k, v int) int { return v })
	var ref mapModel
	const K = 300
	for op := range 5000 {
		k := r.IntN(K)
		switch r.IntN(4) {
		case 0, 1:
			v := r.IntN(1000)
			m.Set(k, v)
			ref.set(k, v)
		case 2:
			_, ok := m.Delete(k)
			require.Equal(t, ref.delete(k), ok, "op %d: Delete(%d)", op, k)
		case 3:
			lo, hi := k, k+r.IntN(K/3)
			want := 0
			for i, key := range ref.keys {
				if lo <= key && key < hi {
					want += ref.vals[i]
				}
			}
			require.Equal(t, want, m.Fold(Included(lo), Excluded(hi)), "op %d: Fold(%d, %d)", op, lo, hi)
		}
		require.Equal(t, len(ref.keys), m.Len())
		require.NoError(t, m.Verify(), "op %d", op)
		total := 0
		for _, v := range ref.vals {
			total += v
		}
		require.Equal(t, total, m.Fold(Unbounded[int](), Unbounded[int]()), "op %d: full Fold", op)
	}
	var keys []int
	for k := range m.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, ref.keys, keys)
}

func TestMapDegenerate(t *testing.T) {
	// Sequential inserts leave a linear chain behind.
	var m Map[int, int]
	const N = 100000
	for i := range N {
		m.Set(i, i)
	}
	assert.Equal(t, N, m.Depth())
	dump := m.Dump()
	assert.True(t, strings.HasPrefix(dump, "(99999:99999 (99998:99998 (99997:99997 "), "Dump() = %.40s...", dump)
	assert.True(t, strings.HasSuffix(dump, "(0:0 nil nil) nil) nil)"), "Dump() = ...%s", dump[len(dump)-40:])
	require.NoError(t, m.Verify())
	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.pool.Len())
}

func TestMapSetAll(t *testing.T) {
	// Increasing keys build a balanced tree directly.
	const N = 1000
	vals := make([]int, N)
	for i := range vals {
		vals[i] = i * i
	}
	m := CollectMap(slices.All(vals))
	require.NoError(t, m.Verify())
	assert.Equal(t, N, m.Len())
	assert.Equal(t, N, m.pool.Cap())
	assert.LessOrEqual(t, m.Depth(), 10)
	for i, x := range vals {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, x, v)
	}

	// Unordered keys fall back to Set.
	perm := rand.Perm(N)
	u := CollectMap(func(yield func(int, int) bool) {
		for _, k := range perm {
			if !yield(k, -k) {
				return
			}
		}
	})
	require.NoError(t, u.Verify())
	var keys []int
	for k, v := range u.All() {
		require.Equal(t, -k, v)
		keys = append(keys, k)
	}
	assert.True(t, match(keys, 0, N-1))

	// Later duplicates win, even after an ordered prefix.
	d := CollectMap(func(yield func(int, string) bool) {
		_ = yield(1, "a") && yield(2, "b") && yield(3, "c") && yield(2, "B") && yield(1, "A")
	})
	require.NoError(t, d.Verify())
	assert.Equal(t, 3, d.Len())
	for k, want := range map[int]string{1: "A", 2: "B", 3: "c"} {
		v, ok := d.Get(k)
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}

	// SetAll into a non-empty map merges by key.
	d.SetAll(slices.All([]string{"z", "y"}))
	assert.Equal(t, 4, d.Len())
	v, _ := d.Get(1)
	assert.Equal(t, "y", v)
	require.NoError(t, d.Verify())

	f := NewFoldMap(Monoid[int](Sum[int]{}), func(k, v int) int { return v })
	f.SetAll(slices.All([]int{5, 6, 7, 8}))
	require.NoError(t, f.Verify())
	assert.Equal(t, 26, f.Fold(Unbounded[int](), Unbounded[int]()))
	assert.Equal(t, 13, f.Fold(Included(1), Excluded(3)))

	fn := NewMapFunc[string, int](strings.Compare)
	fn.SetAll(func(yield func(string, int) bool) {
		_ = yield("a", 1) && yield("b", 2)
	})
	assert.Equal(t, "(b:2 (a:1 nil nil) nil)", fn.Dump())
}

func TestMapClearReusesStorage(t *testing.T) {
	var m Map[int, int]
	m.Grow(64)
	assert.Equal(t, 0, m.pool.Cap())
	c := cap(m.pool.slots)
	require.GreaterOrEqual(t, c, 65)
	for i := range 64 {
		m.Set(i, i)
	}
	assert.Equal(t, c, cap(m.pool.slots), "Set grew the pool after Grow")
	more := m.Split(32)
	m.Clear()
	// more still lives in the pool, so only m's nodes are freed.
	assert.Equal(t, 32, m.pool.Free())
	require.NoError(t, more.Verify())
	assert.Equal(t, 32, more.Len())

	more.Clear()
	assert.Equal(t, 0, more.pool.Len())
	assert.Equal(t, 0, more.pool.Free())
	m.Set(1, 1)
	assert.Equal(t, Handle(1), m.root)
}

func TestFoldMapVerifyAggregates(t *testing.T) {
	m := NewFoldMap(Monoid[int](Sum[int]{}), func(k, v int) int { return k * v })
	for i := range 20 {
		m.Set(i, 2)
	}
	require.NoError(t, m.Verify())
	m.node(m.root).data.agg++
	assert.ErrorContains(t, m.Verify(), "aggregate")
}
