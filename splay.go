// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package splay implements in-memory splay trees stored in an arena.
// [Map][K, V] is an ordered map for ordered types K,
// while [MapFunc][K, V] supports arbitrary keys and comparison functions.
// [FoldMap][K, V, A] additionally folds a monoid over key ranges,
// and [Sequence][E, A, F] is an indexed sequence with range folds,
// lazy range updates and reversal.
//
// Nodes live in a [Pool] and refer to each other by [Handle].
// Every operation, including lookups, restructures the tree,
// so none of the types is safe for concurrent use, even by readers.
package splay

import (
	"cmp"
	"iter"
)

// A Map is a map[K]V ordered according to K's standard Go ordering.
// The zero value of a Map is an empty Map ready to use.
type Map[K cmp.Ordered, V any] struct {
	keyMap[K, V, struct{}, sizePolicy[K, V]]
}

// Set sets m[key] = val, returning the value it replaced, if any.
func (m *Map[K, V]) Set(key K, val V) (old V, replaced bool) {
	m.init(cmp.Compare[K])
	return m.set(key, val)
}

// SetAll sets m[key] = val for every pair in seq.
// Later pairs replace earlier ones with the same key.
func (m *Map[K, V]) SetAll(seq iter.Seq2[K, V]) {
	m.init(cmp.Compare[K])
	m.keyMap.SetAll(seq)
}

// CollectMap returns a new Map holding the pairs in seq.
// Keys already in increasing order build the tree in linear time.
func CollectMap[K cmp.Ordered, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	m := new(Map[K, V])
	m.SetAll(seq)
	return m
}

// Split moves the entries with keys ≥ key into a new Map, which it returns.
// The two maps share storage.
func (m *Map[K, V]) Split(key K) *Map[K, V] {
	m.init(cmp.Compare[K])
	return &Map[K, V]{m.splitOff(key)}
}

// Join moves every entry of more into m, leaving more empty.
// Every key in more must be greater than every key in m.
func (m *Map[K, V]) Join(more *Map[K, V]) {
	m.init(cmp.Compare[K])
	m.join(&more.keyMap)
}

// A MapFunc is a map[K]V ordered according to an arbitrary comparison function.
// The zero value of a MapFunc is not meaningful; use [NewMapFunc].
type MapFunc[K, V any] struct {
	keyMap[K, V, struct{}, sizePolicy[K, V]]
}

// NewMapFunc returns a new MapFunc ordered by cmp.
func NewMapFunc[K, V any](cmp func(K, K) int) *MapFunc[K, V] {
	m := new(MapFunc[K, V])
	m.init(cmp)
	return m
}

func (m *MapFunc[K, V]) Set(key K, val V) (old V, replaced bool) {
	return m.set(key, val)
}

func (m *MapFunc[K, V]) Split(key K) *MapFunc[K, V] {
	return &MapFunc[K, V]{m.splitOff(key)}
}

func (m *MapFunc[K, V]) Join(more *MapFunc[K, V]) {
	m.join(&more.keyMap)
}

// A FoldMap is an ordered map that also maintains, for every subtree,
// the monoid combination of lift(key, val) over its entries in key order.
type FoldMap[K, V, A any] struct {
	keyMap[K, V, A, foldPolicy[K, V, A]]
}

// NewFoldMap returns a new FoldMap ordered by K's standard ordering.
func NewFoldMap[K cmp.Ordered, V, A any](m Monoid[A], lift func(K, V) A) *FoldMap[K, V, A] {
	return NewFoldMapFunc(cmp.Compare[K], m, lift)
}

// NewFoldMapFunc returns a new FoldMap ordered by cmp.
func NewFoldMapFunc[K, V, A any](cmp func(K, K) int, m Monoid[A], lift func(K, V) A) *FoldMap[K, V, A] {
	f := new(FoldMap[K, V, A])
	f.policy = foldPolicy[K, V, A]{m, lift}
	f.init(cmp)
	return f
}

func (m *FoldMap[K, V, A]) Set(key K, val V) (old V, replaced bool) {
	return m.set(key, val)
}

func (m *FoldMap[K, V, A]) Split(key K) *FoldMap[K, V, A] {
	return &FoldMap[K, V, A]{m.splitOff(key)}
}

func (m *FoldMap[K, V, A]) Join(more *FoldMap[K, V, A]) {
	m.join(&more.keyMap)
}

// Fold returns the combination of lift(key, val) over the entries
// between lo and hi, in key order. An empty range folds to the identity.
// Fold panics if lo lies after hi.
func (m *FoldMap[K, V, A]) Fold(lo, hi Bound[K]) A {
	l, mid, r := m.isolate(lo, hi)
	agg := m.policy.m.Identity()
	if mid != 0 {
		agg = m.node(mid).data.agg
	}
	m.restore(l, mid, r)
	return agg
}
