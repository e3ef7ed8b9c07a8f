// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splay

// The engine is a bottom-up splay tree stored in a Pool.
// See Sleator & Tarjan, Self-Adjusting Binary Search Trees (1985).
//
// Every engine function takes and returns root handles rather than
// owning a single root, so that the pieces produced by split can live
// side by side in one pool until they are merged again.
//
// Pending state (lazy actions, reversal) is pushed down on a node
// before any of its children is looked at, and size and aggregate are
// pulled up on a node after its children are final. Splay only ever
// rotates nodes that have been reached by a push-down descent.

import "fmt"

// A node is a tree node in the pool.
type node[D any] struct {
	parent Handle
	left   Handle
	right  Handle
	size   int
	data   D
}

type engine[D any, S policy[D]] struct {
	pool *Pool[node[D]]
	policy S
}

func (e *engine[D, S]) node(x Handle) *node[D] {
	return e.pool.Get(x)
}

func (e *engine[D, S]) size(x Handle) int {
	if x == 0 {
		return 0
	}
	return e.node(x).size
}

// alloc returns a detached single-node tree holding d.
func (e *engine[D, S]) alloc(d D) Handle {
	x := e.pool.Allocate(node[D]{size: 1, data: d})
	e.pullUp(x)
	return x
}

func (e *engine[D, S]) pushDown(x Handle) {
	e.policy.pushDown(e.pool, x)
}

func (e *engine[D, S]) pullUp(x Handle) {
	n := e.node(x)
	n.size = 1 + e.size(n.left) + e.size(n.right)
	e.policy.pullUp(e.pool, x)
}

func (e *engine[D, S]) setLeft(x, y Handle) {
	e.node(x).left = y
	if y != 0 {
		e.node(y).parent = x
	}
}

func (e *engine[D, S]) setRight(x, y Handle) {
	e.node(x).right = y
	if y != 0 {
		e.node(y).parent = x
	}
}

// cutLeft detaches and returns the left subtree of x.
func (e *engine[D, S]) cutLeft(x Handle) Handle {
	n := e.node(x)
	y := n.left
	n.left = 0
	if y != 0 {
		e.node(y).parent = 0
	}
	e.pullUp(x)
	return y
}

// cutRight detaches and returns the right subtree of x.
func (e *engine[D, S]) cutRight(x Handle) Handle {
	n := e.node(x)
	y := n.right
	n.right = 0
	if y != 0 {
		e.node(y).parent = 0
	}
	e.pullUp(x)
	return y
}

// rotate rotates x above its parent p,
// turning (p (x a b) c) into (x a (p b c)) or the mirror image.
// Only p is pulled up; x is left for the caller.
func (e *engine[D, S]) rotate(x Handle) {
	xn := e.node(x)
	p := xn.parent
	pn := e.node(p)
	g := pn.parent

	if pn.left == x {
		b := xn.right
		pn.left = b
		if b != 0 {
			e.node(b).parent = p
		}
		xn.right = p
	} else {
		b := xn.left
		pn.right = b
		if b != 0 {
			e.node(b).parent = p
		}
		xn.left = p
	}
	pn.parent = x
	xn.parent = g

	if g != 0 {
		gn := e.node(g)
		switch {
		case gn.left == p:
			gn.left = x
		case gn.right == p:
			gn.right = x
		default:
			// unreachable
			panic("splay: corrupt tree")
		}
	}
	e.pullUp(p)
}

// splay rotates x to the root of its tree.
func (e *engine[D, S]) splay(x Handle) {
	for {
		p := e.node(x).parent
		if p == 0 {
			break
		}
		if g := e.node(p).parent; g != 0 {
			if (e.node(g).left == p) == (e.node(p).left == x) {
				e.rotate(p) // zig-zig
			} else {
				e.rotate(x) // zig-zag
			}
		}
		e.rotate(x)
	}
	e.pullUp(x)
}

// splayBy descends from root, asking seek at every node which way to go:
// seek(x) < 0 means left, > 0 means right, 0 means stop at x.
// The last node visited is splayed to the root.
// splayBy returns the new root and the last result of seek.
// On an empty tree it returns 0, -1.
func (e *engine[D, S]) splayBy(root Handle, seek func(Handle) int) (Handle, int) {
	if root == 0 {
		return 0, -1
	}
	x := root
	for {
		e.pushDown(x)
		c := seek(x)
		n := e.node(x)
		next := n.right
		if c < 0 {
			next = n.left
		}
		if c == 0 || next == 0 {
			e.splay(x)
			return x, c
		}
		x = next
	}
}

// byPosition returns a seeker for splayBy that stops at index i
// of the tree it descends.
func (e *engine[D, S]) byPosition(i int) func(Handle) int {
	return func(x Handle) int {
		l := e.size(e.node(x).left)
		switch {
		case i < l:
			return -1
		case i > l:
			i -= l + 1
			return +1
		}
		return 0
	}
}

// fromPosition returns a predicate for split that holds
// for index i and everything after it.
func (e *engine[D, S]) fromPosition(i int) func(Handle) bool {
	return func(x Handle) bool {
		l := e.size(e.node(x).left)
		if i <= l {
			return true
		}
		i -= l + 1
		return false
	}
}

func (e *engine[D, S]) first(root Handle) Handle {
	x, _ := e.splayBy(root, func(Handle) int { return -1 })
	return x
}

func (e *engine[D, S]) last(root Handle) Handle {
	x, _ := e.splayBy(root, func(Handle) int { return +1 })
	return x
}

// split splits root into the nodes for which pred is false
// and those for which it is true.
// pred must be monotone in tree order: false for a prefix, true after it.
func (e *engine[D, S]) split(root Handle, pred func(Handle) bool) (left, right Handle) {
	if root == 0 {
		return 0, 0
	}
	var last Handle
	var in bool
	for x := root; x != 0; {
		e.pushDown(x)
		last, in = x, pred(x)
		if in {
			x = e.node(x).left
		} else {
			x = e.node(x).right
		}
	}
	// last is the boundary element, either the last false node
	// or the first true one.
	e.splay(last)
	if in {
		return e.cutLeft(last), last
	}
	return last, e.cutRight(last)
}

// merge concatenates two trees. Every node of left precedes every node of right.
func (e *engine[D, S]) merge(left, right Handle) Handle {
	if left == 0 {
		return right
	}
	if right == 0 {
		return left
	}
	left = e.last(left)
	e.setRight(left, right)
	e.pullUp(left)
	return left
}

// join3 makes the detached node x the root over left and right.
func (e *engine[D, S]) join3(left, x, right Handle) Handle {
	e.pushDown(x)
	e.setLeft(x, left)
	e.setRight(x, right)
	e.pullUp(x)
	return x
}

// takeRoot unlinks root from its tree and returns what remains.
// The caller must have pushed root down, as splayBy does.
func (e *engine[D, S]) takeRoot(root Handle) Handle {
	n := e.node(root)
	left, right := n.left, n.right
	n.left, n.right = 0, 0
	n.size = 1
	if left != 0 {
		e.node(left).parent = 0
	}
	if right != 0 {
		e.node(right).parent = 0
	}
	return e.merge(left, right)
}

// build links the detached nodes xs, in order, into a balanced tree.
func (e *engine[D, S]) build(xs []Handle) Handle {
	if len(xs) == 0 {
		return 0
	}
	m := len(xs) / 2
	x := xs[m]
	e.setLeft(x, e.build(xs[:m]))
	e.setRight(x, e.build(xs[m+1:]))
	e.pullUp(x)
	return x
}

// next returns the in-order successor of x, or 0.
// x and its ancestors must already be pushed down.
func (e *engine[D, S]) next(x Handle) Handle {
	if r := e.node(x).right; r != 0 {
		x = r
		for {
			e.pushDown(x)
			l := e.node(x).left
			if l == 0 {
				return x
			}
			x = l
		}
	}
	for {
		p := e.node(x).parent
		if p == 0 || e.node(p).left == x {
			return p
		}
		x = p
	}
}

// walk calls yield for each node of root in order, pushing pending
// state down on the way. yield must not change the tree.
func (e *engine[D, S]) walk(root Handle, yield func(Handle) bool) bool {
	var stack []Handle
	x := root
	for x != 0 || len(stack) > 0 {
		for x != 0 {
			e.pushDown(x)
			stack = append(stack, x)
			x = e.node(x).left
		}
		x = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !yield(x) {
			return false
		}
		x = e.node(x).right
	}
	return true
}

// free returns every node of root to the pool and reports how many there were.
// It uses an explicit stack, so degenerate trees cannot exhaust the goroutine stack.
func (e *engine[D, S]) free(root Handle) int {
	if root == 0 {
		return 0
	}
	n := 0
	stack := []Handle{root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		xn := e.node(x)
		if xn.left != 0 {
			stack = append(stack, xn.left)
		}
		if xn.right != 0 {
			stack = append(stack, xn.right)
		}
		e.pool.Deallocate(x)
		n++
	}
	return n
}

// release frees the tree root. If root holds every live node in the
// pool, the whole pool is reset in one sweep instead.
func (e *engine[D, S]) release(root Handle) {
	if root != 0 && e.size(root) == e.pool.Len() {
		e.pool.Reset()
		return
	}
	e.free(root)
}

// adopt moves the tree root out of src's pool into e's pool and
// returns the new root.
func (e *engine[D, S]) adopt(src *engine[D, S], root Handle) Handle {
	if root == 0 || src.pool == e.pool {
		return root
	}
	var data []D
	src.walk(root, func(x Handle) bool {
		data = append(data, src.node(x).data)
		return true
	})
	src.free(root)
	xs := make([]Handle, len(data))
	for i, d := range data {
		xs[i] = e.pool.Allocate(node[D]{size: 1, data: d})
	}
	return e.build(xs)
}

func (e *engine[D, S]) depth(root Handle) int {
	if root == 0 {
		return 0
	}
	type frame struct {
		x Handle
		d int
	}
	deepest := 0
	stack := []frame{{root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		deepest = max(deepest, it.d)
		n := e.node(it.x)
		if n.left != 0 {
			stack = append(stack, frame{n.left, it.d + 1})
		}
		if n.right != 0 {
			stack = append(stack, frame{n.right, it.d + 1})
		}
	}
	return deepest
}

// verify checks parent links and subtree sizes below root,
// then pushes all pending state down and has the policy check
// every node's aggregate against its children.
func (e *engine[D, S]) verify(root Handle) error {
	if root == 0 {
		return nil
	}
	if p := e.node(root).parent; p != 0 {
		return fmt.Errorf("splay: root %d has parent %d", root, p)
	}
	// Preorder, then check sizes in reverse so children come first.
	var order []Handle
	stack := []Handle{root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, x)
		if len(order) > e.pool.Len() {
			return fmt.Errorf("splay: cycle below root %d", root)
		}
		n := e.node(x)
		for _, c := range [2]Handle{n.left, n.right} {
			if c == 0 {
				continue
			}
			if p := e.node(c).parent; p != x {
				return fmt.Errorf("splay: node %d has parent %d, want %d", c, p, x)
			}
			stack = append(stack, c)
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		x := order[i]
		n := e.node(x)
		if want := 1 + e.size(n.left) + e.size(n.right); n.size != want {
			return fmt.Errorf("splay: node %d has size %d, want %d", x, n.size, want)
		}
	}
	e.walk(root, func(Handle) bool { return true })
	for _, x := range order {
		if err := e.policy.check(e.pool, x); err != nil {
			return err
		}
	}
	return nil
}
