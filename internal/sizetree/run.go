package sizetree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Engine names.
const (
	// EngineWalker is the slot buffer walker.
	EngineWalker = "walker"
	// EngineFastwalk walks with github.com/charlievieth/fastwalk.
	EngineFastwalk = "fastwalk"
)

// Engines lists the valid engine names.
//
//nolint:gochecknoglobals // Config constant
var Engines = []string{EngineWalker, EngineFastwalk}

// ErrUnsupportedRoot is returned when the root is neither a regular file nor
// a directory.
var ErrUnsupportedRoot = errors.New("path is neither a regular file nor a directory")

// logger provides conditional debug output.
type logger struct {
	enabled bool
	w       io.Writer
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(l.w, format, args...)
	}
}

// Options configures a walk.
type Options struct {
	// Path is the file or directory to walk.
	Path string
	// Workers bounds concurrent walk tasks (0 = DefaultWorkers).
	Workers int
	// SingleThreaded forces a bound of one worker.
	SingleThreaded bool
	// Engine selects the traversal engine (empty = EngineWalker).
	Engine string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// DebugOutput receives debug output (nil = os.Stderr).
	DebugOutput io.Writer
}

// Result is a completed walk.
type Result struct {
	// Root is the size-annotated tree.
	Root Entry
	// Stats describes the walk.
	Stats Stats
}

// workers resolves the concurrency bound from the options.
func (opt Options) workers() int {
	switch {
	case opt.SingleThreaded:
		return 1
	case opt.Workers <= 0:
		return DefaultWorkers
	default:
		return opt.Workers
	}
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, c *counters, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.files.Load(), c.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Run walks opt.Path and returns its size-annotated tree.
//
// A regular file yields a single File entry. A directory is walked with the
// selected engine under a single concurrency bound shared by all levels. Any
// filesystem error aborts the walk; no partial tree is returned.
//
// Progress updates are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Result, error) {
	log := logger{enabled: opt.Debug, w: opt.DebugOutput}
	if log.w == nil {
		log.w = os.Stderr
	}

	if opt.Engine == "" {
		opt.Engine = EngineWalker
	}

	if !slices.Contains(Engines, opt.Engine) {
		return nil, fmt.Errorf("unknown engine %q: must be one of %v", opt.Engine, Engines)
	}

	opt.Path = filepath.Clean(opt.Path)

	// Stat rather than Lstat: a symlinked root is what the user asked for.
	info, err := os.Stat(opt.Path)
	if err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	}

	count := &counters{}
	workers := opt.workers()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, count, progressHook, opt.ProgressInterval)

	log.printf("[debug]: path: %s\n", opt.Path)
	log.printf("[debug]: engine: %s\n", opt.Engine)
	log.printf("[debug]: workers: %d\n", workers)

	start := time.Now()

	var (
		root Entry
		peak int
	)

	switch kind := kindOf(info.Mode()); {
	case kind == KindFile:
		size, err := OS{}.Size(opt.Path)
		if err != nil {
			return nil, err
		}

		count.addFile(size)
		root = File{Name: rootName(opt.Path), Bytes: size}
	case kind != KindDir:
		return nil, fmt.Errorf("%q: %w", opt.Path, ErrUnsupportedRoot)
	case opt.Engine == EngineWalker:
		sched := NewScheduler(workers)

		dir, err := newWalker(OS{}, sched, count, log).walkRoot(ctx, opt.Path)
		if err != nil {
			return nil, err
		}

		root, peak = dir, sched.Peak()
	default:
		dir, err := walkFast(ctx, opt.Path, workers, count, log)
		if err != nil {
			return nil, err
		}

		root = dir
	}

	stats := count.snapshot()
	stats.Elapsed = time.Since(start)
	stats.Workers = workers
	stats.PeakWorkers = peak
	stats.Engine = opt.Engine

	if opt.Debug {
		if err := Validate(root); err != nil {
			return nil, fmt.Errorf("validating tree: %w", err)
		}

		log.printf("[debug]: %d files, %d dirs, %d skipped in %v\n",
			stats.Files, stats.Dirs, stats.Skipped, stats.Elapsed)
	}

	return &Result{Root: root, Stats: stats}, nil
}
