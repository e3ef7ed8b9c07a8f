// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stress runs randomized operation streams against the splay
// trees and checks every result against a naive reference model.
package stress

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Config describes one run of a workload.
type Config struct {
	Ops  int    // number of operations
	Size int    // key space for maps, initial length for sequences, chain length
	Seed uint64 // PCG seed; the same seed replays the same run
}

// A Report summarizes a completed run.
type Report struct {
	Workload string
	Seed     uint64
	Ops      int
	Len      int // entries left at the end
	Depth    int // tree height at the end
	MaxDepth int
	Elapsed  time.Duration
}

func (r Report) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s seed=%d: %d ops, %d entries, depth %d (max %d) in %v",
		r.Workload, r.Seed, r.Ops, r.Len, r.Depth, r.MaxDepth, r.Elapsed.Round(time.Millisecond))
}

// A Divergence reports a tree result that disagrees with the reference model.
type Divergence struct {
	Workload string
	Seed     uint64
	Op       int
	Msg      string
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("%s seed=%d op %d: %s", d.Workload, d.Seed, d.Op, d.Msg)
}

// A Workload runs cfg.Ops operations and reports on them.
type Workload func(ctx context.Context, cfg Config) (Report, error)

var workloads = map[string]Workload{
	"map":   Map,
	"seq":   Seq,
	"chain": Chain,
}

// Lookup returns the workload with the given name.
func Lookup(name string) (Workload, bool) {
	w, ok := workloads[name]
	return w, ok
}

// Names returns the names of all workloads, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(workloads))
}

// A run carries the state shared by every workload.
type run struct {
	ctx   context.Context
	name  string
	cfg   Config
	rand  *rand.Rand
	op    int
	start time.Time
	rep   Report
}

func newRun(ctx context.Context, name string, cfg Config) *run {
	return &run{
		ctx:   ctx,
		name:  name,
		cfg:   cfg,
		rand:  rand.New(rand.NewPCG(cfg.Seed, 0)),
		start: time.Now(),
		rep:   Report{Workload: name, Seed: cfg.Seed},
	}
}

// step advances to the next operation, checking for cancellation now and then.
func (r *run) step(op int) error {
	r.op = op
	r.rep.Ops = op
	if op%1024 == 0 {
		return r.ctx.Err()
	}
	return nil
}

func (r *run) fail(format string, args ...any) error {
	return &Divergence{Workload: r.name, Seed: r.cfg.Seed, Op: r.op, Msg: fmt.Sprintf(format, args...)}
}

func (r *run) check(err error) error {
	if err != nil {
		return r.fail("%v", err)
	}
	return nil
}

func (r *run) depth(d int) {
	r.rep.Depth = d
	r.rep.MaxDepth = max(r.rep.MaxDepth, d)
}

func (r *run) done(n int) Report {
	r.rep.Len = n
	r.rep.Ops = r.cfg.Ops
	r.rep.Elapsed = time.Since(r.start)
	return r.rep
}

// span returns a random half-open range within [0, n).
func (r *run) span(n int) (lo, hi int) {
	lo = r.rand.IntN(n + 1)
	return lo, lo + r.rand.IntN(n-lo+1)
}
