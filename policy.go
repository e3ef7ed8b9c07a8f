// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

import (
	"fmt"
	"reflect"
)

// A policy supplies the per-node maintenance the engine runs while it
// restructures a tree. It is a type parameter of the engine, so each
// tree kind gets its own instantiation instead of an interface call.
//
// pushDown moves pending state on x into its children; it runs before
// the children of x are inspected. pullUp recomputes the aggregate of x
// from its children, which are already current. Sizes are maintained
// by the engine itself. check reports whether the aggregate of x, which
// has no pending state, matches what pullUp would compute.
type policy[D any] interface {
	pushDown(p *Pool[node[D]], x Handle)
	pullUp(p *Pool[node[D]], x Handle)
	check(p *Pool[node[D]], x Handle) error
}

// An Equaler compares aggregates. Verify uses it when the monoid or
// action implements it, and reflect.DeepEqual otherwise, so algebras
// with inexact aggregates such as floating-point sums should provide one.
type Equaler[A any] interface {
	Equal(x, y A) bool
}

func checkAgg[A any](algebra any, x Handle, have, want A) error {
	var ok bool
	if eq, isEq := algebra.(Equaler[A]); isEq {
		ok = eq.Equal(have, want)
	} else {
		ok = reflect.DeepEqual(have, want)
	}
	if !ok {
		return fmt.Errorf("splay: node %d has aggregate %v, want %v", x, have, want)
	}
	return nil
}

// An entry is the payload of a map node.
type entry[K, V, A any] struct {
	key K
	val V
	agg A
}

// sizePolicy maintains nothing beyond subtree sizes.
type sizePolicy[K, V any] struct{}

func (sizePolicy[K, V]) pushDown(*Pool[node[entry[K, V, struct{}]]], Handle)    {}
func (sizePolicy[K, V]) pullUp(*Pool[node[entry[K, V, struct{}]]], Handle)      {}
func (sizePolicy[K, V]) check(*Pool[node[entry[K, V, struct{}]]], Handle) error { return nil }

// foldPolicy aggregates lift(key, val) over a subtree with a monoid.
type foldPolicy[K, V, A any] struct {
	m    Monoid[A]
	lift func(K, V) A
}

func (foldPolicy[K, V, A]) pushDown(*Pool[node[entry[K, V, A]]], Handle) {}

func (s foldPolicy[K, V, A]) pullUp(p *Pool[node[entry[K, V, A]]], x Handle) {
	p.Get(x).data.agg = s.fold(p, x)
}

func (s foldPolicy[K, V, A]) check(p *Pool[node[entry[K, V, A]]], x Handle) error {
	return checkAgg(s.m, x, p.Get(x).data.agg, s.fold(p, x))
}

// fold combines the aggregates of x's children around x's own entry.
func (s foldPolicy[K, V, A]) fold(p *Pool[node[entry[K, V, A]]], x Handle) A {
	n := p.Get(x)
	agg := s.lift(n.data.key, n.data.val)
	if n.left != 0 {
		agg = s.m.Combine(p.Get(n.left).data.agg, agg)
	}
	if n.right != 0 {
		agg = s.m.Combine(agg, p.Get(n.right).data.agg)
	}
	return agg
}

// An item is the payload of a sequence node.
// agg already reflects lazy and rev; the children do not yet.
type item[E, A, F any] struct {
	elem    E
	agg     A
	lazy    F
	pending bool // lazy is not the identity
	rev     bool // children are swapped but not yet reversed inside
}

// lazyPolicy maintains a monoid aggregate under lazily applied actions
// and reversals.
type lazyPolicy[E, A, F any] struct {
	act MonoidAction[E, A, F]
}

func (s lazyPolicy[E, A, F]) pushDown(p *Pool[node[item[E, A, F]]], x Handle) {
	n := p.Get(x)
	if n.data.pending {
		f := n.data.lazy
		n.data.lazy, n.data.pending = s.act.ActIdentity(), false
		if n.left != 0 {
			s.apply(p, n.left, f)
		}
		if n.right != 0 {
			s.apply(p, n.right, f)
		}
	}
	if n.data.rev {
		n.data.rev = false
		if n.left != 0 {
			s.reverse(p, n.left)
		}
		if n.right != 0 {
			s.reverse(p, n.right)
		}
	}
}

func (s lazyPolicy[E, A, F]) pullUp(p *Pool[node[item[E, A, F]]], x Handle) {
	p.Get(x).data.agg = s.fold(p, x)
}

func (s lazyPolicy[E, A, F]) check(p *Pool[node[item[E, A, F]]], x Handle) error {
	d := &p.Get(x).data
	if d.pending || d.rev {
		return fmt.Errorf("splay: node %d still has pending state", x)
	}
	return checkAgg(s.act, x, d.agg, s.fold(p, x))
}

func (s lazyPolicy[E, A, F]) fold(p *Pool[node[item[E, A, F]]], x Handle) A {
	n := p.Get(x)
	agg := s.act.Single(n.data.elem)
	if n.left != 0 {
		agg = s.act.Combine(p.Get(n.left).data.agg, agg)
	}
	if n.right != 0 {
		agg = s.act.Combine(agg, p.Get(n.right).data.agg)
	}
	return agg
}

// apply applies f to the whole subtree rooted at x:
// to x's element and aggregate now, to its children later.
func (s lazyPolicy[E, A, F]) apply(p *Pool[node[item[E, A, F]]], x Handle, f F) {
	n := p.Get(x)
	if n.data.pending {
		n.data.lazy = s.act.Compose(n.data.lazy, f)
	} else {
		n.data.lazy, n.data.pending = f, true
	}
	n.data.elem = s.act.ActElem(n.data.elem, f)
	if agg, ok := s.act.ActAgg(n.data.agg, f); ok {
		n.data.agg = agg
		return
	}
	// The aggregate cannot absorb f; push it into the children and rebuild.
	s.pushDown(p, x)
	s.pullUp(p, x)
}

// reverse reverses the subtree rooted at x.
func (s lazyPolicy[E, A, F]) reverse(p *Pool[node[item[E, A, F]]], x Handle) {
	n := p.Get(x)
	n.left, n.right = n.right, n.left
	n.data.agg = s.act.Reverse(n.data.agg)
	n.data.rev = !n.data.rev
}
