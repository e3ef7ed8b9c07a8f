// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command splaystress runs randomized workloads against the splay trees
// and checks them against naive reference models.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	_ "go.uber.org/automaxprocs"

	"rsc.io/splay/internal/stress"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var log = slog.Default().With("system", "splaystress")

func main() {
	if err := run(os.Args); err != nil {
		log.Error("exiting process", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "splaystress",
		Usage:   "randomized consistency checks for splay maps and sequences",
		Version: versioninfo.Short(),
	}
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "ops",
			Aliases: []string{"n"},
			Usage:   "number of operations per run",
			Value:   100000,
			EnvVars: []string{"SPLAY_OPS"},
		},
		&cli.IntFlag{
			Name:    "size",
			Usage:   "key space for maps, initial length for sequences, chain length",
			Value:   1000,
			EnvVars: []string{"SPLAY_SIZE"},
		},
		&cli.Uint64Flag{
			Name:    "seed",
			Usage:   "seed of the first run; run i uses seed+i",
			Value:   1,
			EnvVars: []string{"SPLAY_SEED"},
		},
		&cli.IntFlag{
			Name:    "runs",
			Usage:   "number of independent runs",
			Value:   1,
			EnvVars: []string{"SPLAY_RUNS"},
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "number of runs to execute in parallel",
			Value:   runtime.NumCPU(),
			EnvVars: []string{"SPLAY_JOBS"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			Value:   "info",
			EnvVars: []string{"SPLAY_LOG_LEVEL", "LOG_LEVEL"},
		},
	}
	app.Before = func(cctx *cli.Context) error {
		configLogger(cctx, os.Stderr)
		return nil
	}
	for _, name := range stress.Names() {
		app.Commands = append(app.Commands, &cli.Command{
			Name:   name,
			Usage:  fmt.Sprintf("run the %s workload", name),
			Action: func(cctx *cli.Context) error { return runWorkloads(cctx, name) },
		})
	}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "all",
		Usage:  "run every workload",
		Action: func(cctx *cli.Context) error { return runWorkloads(cctx, stress.Names()...) },
	})
	return app.Run(args)
}

func configLogger(cctx *cli.Context, writer io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	log = logger.With("system", "splaystress")
	return logger
}

func runWorkloads(cctx *cli.Context, names ...string) error {
	ctx := cctx.Context
	runs := max(cctx.Int("runs"), 1)
	base := stress.Config{
		Ops:  cctx.Int("ops"),
		Size: cctx.Int("size"),
		Seed: cctx.Uint64("seed"),
	}

	workloads := make([]stress.Workload, len(names))
	for i, name := range names {
		w, ok := stress.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown workload %q", name)
		}
		workloads[i] = w
	}

	var (
		mu    sync.Mutex
		total int
	)
	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(cctx.Int("jobs"), 1))
	for j, name := range names {
		w := workloads[j]
		for i := range runs {
			cfg := base
			cfg.Seed += uint64(i)
			eg.Go(func() error {
				log.Debug("starting run", "workload", name, "seed", cfg.Seed, "ops", cfg.Ops, "size", cfg.Size)
				rep, err := w(ctx, cfg)
				if err != nil {
					return fmt.Errorf("%s run %d: %w", name, i, err)
				}
				log.Info("run complete", "workload", name, "seed", rep.Seed, "len", rep.Len,
					"depth", rep.Depth, "maxDepth", rep.MaxDepth, "elapsed", rep.Elapsed)
				log.Debug(rep.String())
				mu.Lock()
				total += rep.Ops
				mu.Unlock()
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	elapsed := time.Since(start)
	log.Info("all runs passed",
		"workloads", strings.Join(names, ","),
		"runs", runs*len(names),
		"ops", p.Sprintf("%d", total),
		"opsPerSec", p.Sprintf("%.0f", float64(total)/max(elapsed.Seconds(), 1e-9)),
		"elapsed", elapsed)
	return nil
}
