// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import (
	"bytes"
	"fmt"
	"iter"
)

// keyMap is the key-ordered splay tree shared by Map, MapFunc and FoldMap.
type keyMap[K, V, A any, S policy[entry[K, V, A]]] struct {
	engine[entry[K, V, A], S]
	cmp  func(K, K) int
	root Handle
	mods int // bumped whenever entries leave the tree
}

func (m *keyMap[K, V, A, S]) init(cmp func(K, K) int) {
	if m.pool == nil {
		m.pool = new(Pool[node[entry[K, V, A]]])
	}
	if m.cmp == nil {
		m.cmp = cmp
	}
}

func (m *keyMap[K, V, A, S]) key(x Handle) K {
	return m.node(x).data.key
}

// locate splays the node closest to key to the root
// and returns the comparison of key with the root's key.
func (m *keyMap[K, V, A, S]) locate(key K) int {
	root, c := m.splayBy(m.root, func(x Handle) int {
		return m.cmp(key, m.key(x))
	})
	m.root = root
	return c
}

func (m *keyMap[K, V, A, S]) atLeast(key K) func(Handle) bool {
	return func(x Handle) bool { return m.cmp(m.key(x), key) >= 0 }
}

func (m *keyMap[K, V, A, S]) greater(key K) func(Handle) bool {
	return func(x Handle) bool { return m.cmp(m.key(x), key) > 0 }
}

// search returns the first node for which pred holds, or 0.
func (m *keyMap[K, V, A, S]) search(pred func(Handle) bool) Handle {
	l, r := m.split(m.root, pred)
	if r != 0 {
		r = m.first(r)
	}
	m.root = m.merge(l, r)
	return r
}

// Len returns the number of entries in m.
func (m *keyMap[K, V, A, S]) Len() int {
	if m == nil {
		return 0
	}
	return m.size(m.root)
}

// Get returns the value stored under key.
// Lookups splay the tree, so Get modifies m.
func (m *keyMap[K, V, A, S]) Get(key K) (val V, ok bool) {
	if m == nil || m.locate(key) != 0 {
		return val, false
	}
	return m.node(m.root).data.val, true
}

func (m *keyMap[K, V, A, S]) set(key K, val V) (old V, replaced bool) {
	c := m.locate(key)
	y := m.root
	if y != 0 && c == 0 {
		n := m.node(y)
		old, n.data.val = n.data.val, val
		m.pullUp(y)
		return old, true
	}
	x := m.alloc(entry[K, V, A]{key: key, val: val})
	switch {
	case y == 0:
		m.root = x
	case c < 0:
		m.root = m.join3(m.cutLeft(y), x, y)
	default:
		m.root = m.join3(y, x, m.cutRight(y))
	}
	return old, false
}

// SetAll sets m[key] = val for every pair in seq, later pairs
// replacing earlier ones with the same key. If m is empty and seq
// yields strictly increasing keys, the tree is built directly
// in linear time.
func (m *keyMap[K, V, A, S]) SetAll(seq iter.Seq2[K, V]) {
	var batch []entry[K, V, A]
	sorted := m.root == 0
	for k, v := range seq {
		if sorted && len(batch) > 0 && m.cmp(batch[len(batch)-1].key, k) >= 0 {
			sorted = false
			for _, e := range batch {
				m.set(e.key, e.val)
			}
			batch = nil
		}
		if !sorted {
			m.set(k, v)
			continue
		}
		batch = append(batch, entry[K, V, A]{key: k, val: v})
	}
	if len(batch) == 0 {
		return
	}
	m.pool.Grow(len(batch))
	xs := make([]Handle, len(batch))
	for i, e := range batch {
		xs[i] = m.alloc(e)
	}
	m.root = m.build(xs)
}

// Grow makes room in m's storage for n more entries.
func (m *keyMap[K, V, A, S]) Grow(n int) {
	if m.pool == nil {
		m.pool = new(Pool[node[entry[K, V, A]]])
	}
	m.pool.Grow(n)
}

// Delete deletes m[key], returning the value it held.
// Deleting a missing key does nothing.
func (m *keyMap[K, V, A, S]) Delete(key K) (val V, ok bool) {
	if m == nil {
		panic("Delete of nil Map")
	}
	if m.locate(key) != 0 {
		return val, false
	}
	return m.removeRoot().val, true
}

func (m *keyMap[K, V, A, S]) removeRoot() entry[K, V, A] {
	x := m.root
	m.root = m.takeRoot(x)
	m.mods++
	return m.pool.Deallocate(x).data
}

func (m *keyMap[K, V, A, S]) entryAt(x Handle) (key K, val V, ok bool) {
	if x == 0 {
		return key, val, false
	}
	d := &m.node(x).data
	return d.key, d.val, true
}

// LowerBound returns the entry with the least key ≥ key.
func (m *keyMap[K, V, A, S]) LowerBound(key K) (K, V, bool) {
	return m.entryAt(m.search(m.atLeast(key)))
}

// UpperBound returns the entry with the least key > key.
func (m *keyMap[K, V, A, S]) UpperBound(key K) (K, V, bool) {
	return m.entryAt(m.search(m.greater(key)))
}

// Min returns the entry with the least key.
func (m *keyMap[K, V, A, S]) Min() (K, V, bool) {
	m.root = m.first(m.root)
	return m.entryAt(m.root)
}

// Max returns the entry with the greatest key.
func (m *keyMap[K, V, A, S]) Max() (K, V, bool) {
	m.root = m.last(m.root)
	return m.entryAt(m.root)
}

// At returns the entry with the i'th smallest key, counting from 0.
func (m *keyMap[K, V, A, S]) At(i int) (key K, val V, ok bool) {
	if i < 0 || i >= m.Len() {
		return key, val, false
	}
	m.root, _ = m.splayBy(m.root, m.byPosition(i))
	return m.entryAt(m.root)
}

// DeleteAt deletes the entry with the i'th smallest key and returns it.
func (m *keyMap[K, V, A, S]) DeleteAt(i int) (key K, val V, ok bool) {
	if i < 0 || i >= m.Len() {
		return key, val, false
	}
	m.root, _ = m.splayBy(m.root, m.byPosition(i))
	e := m.removeRoot()
	return e.key, e.val, true
}

// Rank returns the number of keys in m less than key.
func (m *keyMap[K, V, A, S]) Rank(key K) int {
	l, r := m.split(m.root, m.atLeast(key))
	n := m.size(l)
	m.root = m.merge(l, r)
	return n
}

// isolate splits m into the entries before lo, those within [lo, hi],
// and those after hi. restore undoes it.
func (m *keyMap[K, V, A, S]) isolate(lo, hi Bound[K]) (l, mid, r Handle) {
	if lo.Kind != NoBound && hi.Kind != NoBound && m.cmp(lo.Value, hi.Value) > 0 {
		panic("splay: range start after range end")
	}
	mid = m.root
	m.root = 0
	if lo.Kind != NoBound {
		l, mid = m.split(mid, func(x Handle) bool {
			return !lo.below(m.cmp(m.key(x), lo.Value))
		})
	}
	if hi.Kind != NoBound {
		mid, r = m.split(mid, func(x Handle) bool {
			return hi.above(m.cmp(m.key(x), hi.Value))
		})
	}
	return l, mid, r
}

func (m *keyMap[K, V, A, S]) restore(l, mid, r Handle) {
	m.root = m.merge(m.merge(l, mid), r)
}

// DeleteRange deletes every entry with lo ≤ key ≤ hi.
func (m *keyMap[K, V, A, S]) DeleteRange(lo, hi K) {
	if m == nil {
		panic("nil DeleteRange")
	}
	if m.root == 0 || m.cmp(lo, hi) > 0 {
		return
	}
	l, mid, r := m.isolate(Included(lo), Included(hi))
	m.release(mid)
	m.mods++
	m.restore(l, 0, r)
}

// Clear deletes every entry in m.
func (m *keyMap[K, V, A, S]) Clear() {
	m.release(m.root)
	m.root = 0
	m.mods++
}

// splitOff moves the entries with keys ≥ key into a new tree
// sharing m's pool.
func (m *keyMap[K, V, A, S]) splitOff(key K) keyMap[K, V, A, S] {
	more := keyMap[K, V, A, S]{engine: m.engine, cmp: m.cmp}
	if m.root == 0 {
		return more
	}
	m.root, more.root = m.split(m.root, m.atLeast(key))
	m.mods++
	return more
}

// join moves every entry of more, all of whose keys must follow m's,
// to the end of m.
func (m *keyMap[K, V, A, S]) join(more *keyMap[K, V, A, S]) {
	if more == m {
		panic("splay: Join of Map with itself")
	}
	if more.root == 0 {
		return
	}
	if m.root != 0 {
		m.root = m.last(m.root)
		more.root = more.first(more.root)
		if m.cmp(m.key(m.root), more.key(more.root)) >= 0 {
			panic("splay: Join misuse: keys out of order")
		}
	}
	root := m.adopt(&more.engine, more.root)
	more.root = 0
	more.mods++
	m.root = m.merge(m.root, root)
}

// All returns an iterator over the map m.
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *keyMap[K, V, A, S]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil || m.root == 0 {
			return
		}
		m.root = m.first(m.root)
		m.scan(m.root, func(K) bool { return false }, yield)
	}
}

// Scan returns an iterator over the map m
// limited to keys k satisfying lo ≤ k ≤ hi.
//
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *keyMap[K, V, A, S]) Scan(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil || m.root == 0 {
			return
		}
		x := m.search(m.atLeast(lo))
		m.scan(x, func(k K) bool { return m.cmp(k, hi) > 0 }, yield)
	}
}

// Range returns an iterator over the entries of m between lo and hi.
// It panics if lo lies after hi.
func (m *keyMap[K, V, A, S]) Range(lo, hi Bound[K]) iter.Seq2[K, V] {
	if m != nil && m.cmp != nil && lo.Kind != NoBound && hi.Kind != NoBound && m.cmp(lo.Value, hi.Value) > 0 {
		panic("splay: range start after range end")
	}
	return func(yield func(K, V) bool) {
		if m == nil || m.root == 0 {
			return
		}
		var x Handle
		if lo.Kind == NoBound {
			m.root = m.first(m.root)
			x = m.root
		} else {
			x = m.search(func(x Handle) bool {
				return !lo.below(m.cmp(m.key(x), lo.Value))
			})
		}
		m.scan(x, func(k K) bool { return hi.above(m.cmp(k, hi.Value)) }, yield)
	}
}

// scan yields the entries from x onward until past reports true.
func (m *keyMap[K, V, A, S]) scan(x Handle, past func(K) bool, yield func(K, V) bool) {
	for x != 0 {
		d := m.node(x).data
		if past(d.key) {
			return
		}
		mods := m.mods
		if !yield(d.key, d.val) {
			return
		}
		if m.mods == mods {
			x = m.next(x)
		} else {
			// x may have been deleted.
			x = m.search(m.greater(d.key))
		}
	}
}

// Depth returns the height of the tree.
func (m *keyMap[K, V, A, S]) Depth() int {
	return m.depth(m.root)
}

// Verify checks the structure of the tree: parent links,
// subtree sizes, aggregates and strictly increasing keys.
func (m *keyMap[K, V, A, S]) Verify() error {
	if err := m.verify(m.root); err != nil {
		return err
	}
	var prev Handle
	var err error
	m.walk(m.root, func(x Handle) bool {
		if prev != 0 && m.cmp(m.key(prev), m.key(x)) >= 0 {
			err = fmt.Errorf("splay: key %v at node %d does not follow key %v at node %d",
				m.key(x), x, m.key(prev), prev)
			return false
		}
		prev = x
		return true
	})
	return err
}

// Dump returns a parenthesized rendering of the tree shape,
// with "nil" for missing children.
func (m *keyMap[K, V, A, S]) Dump() string {
	type piece struct {
		x   Handle
		lit string
	}
	var buf bytes.Buffer
	stack := []piece{{x: m.root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case p.lit != "":
			buf.WriteString(p.lit)
		case p.x == 0:
			buf.WriteString("nil")
		default:
			n := m.node(p.x)
			fmt.Fprintf(&buf, "(%v:%v ", n.data.key, n.data.val)
			stack = append(stack, piece{lit: ")"}, piece{x: n.right}, piece{lit: " "}, piece{x: n.left})
		}
	}
	return buf.String()
}
