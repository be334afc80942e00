package sizetree

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// task is a deferred subdirectory walk writing into a reserved slot.
type task struct {
	name string
	slot int
}

// walker builds Dir entries by walking directories through an FS.
type walker struct {
	fs    FS
	sched *Scheduler
	count *counters
	log   logger
}

// newWalker returns a walker reading through fsys under sched.
func newWalker(fsys FS, sched *Scheduler, count *counters, log logger) *walker {
	return &walker{fs: fsys, sched: sched, count: count, log: log}
}

// walkRoot builds the tree for the directory at root.
//
// The root is treated as a single pending slot: a token is taken for it, it
// is walked synchronously and its slot is drained into the returned Dir.
func (w *walker) walkRoot(ctx context.Context, root string) (Dir, error) {
	buf := newSlots(1)
	slot := buf.reserve()

	if err := w.sched.acquire(ctx); err != nil {
		return Dir{}, err
	}

	dir, err := w.walkDir(ctx, root, rootName(root))
	if err != nil {
		return Dir{}, err
	}

	buf.fill(slot, dir)

	entries, err := buf.drain()
	if err != nil {
		return Dir{}, err
	}

	return entries[0].(Dir), nil //nolint:forcetypeassert // The only slot holds the root Dir.
}

// walkDir walks the directory at path. The caller must hold a scheduler
// token, which walkDir releases once the directory itself has been scanned.
func (w *walker) walkDir(ctx context.Context, path, name string) (Dir, error) {
	buf, tasks, err := w.scan(path)

	w.sched.release()

	if err != nil {
		return Dir{}, err
	}

	w.count.dirs.Add(1)

	if err := w.spawn(ctx, path, buf, tasks); err != nil {
		return Dir{}, err
	}

	entries, err := buf.drain()
	if err != nil {
		return Dir{}, fmt.Errorf("collecting %q: %w", path, err)
	}

	return NewDir(name, entries), nil
}

// scan lists path, sizes its regular files and reserves one slot per
// subdirectory.
func (w *walker) scan(path string) (*slots, []task, error) {
	children, err := w.fs.List(path)
	if err != nil {
		return nil, nil, err
	}

	buf := newSlots(len(children))

	var tasks []task

	for _, child := range children {
		switch child.Kind {
		case KindFile:
			size, err := w.fs.Size(filepath.Join(path, child.Name))
			if err != nil {
				return nil, nil, err
			}

			w.count.addFile(size)
			buf.push(File{Name: child.Name, Bytes: size})
		case KindDir:
			tasks = append(tasks, task{name: child.Name, slot: buf.reserve()})
		default:
			w.count.skipped.Add(1)
			w.log.printf("[debug]: skipping %s: %s\n", child.Kind, filepath.Join(path, child.Name))
		}
	}

	return buf, tasks, nil
}

// spawn runs tasks in order, admitting each one as soon as the scheduler has
// a free token, and waits for all of them. Each task writes only its own slot.
//
// The first failure stops admission at every level below this one. Tasks
// already running finish, and their results are discarded.
func (w *walker) spawn(ctx context.Context, parent string, buf *slots, tasks []task) error {
	group, gctx := errgroup.WithContext(ctx)

	for _, t := range tasks {
		if err := w.sched.acquire(gctx); err != nil {
			if werr := group.Wait(); werr != nil {
				return werr
			}

			return fmt.Errorf("scheduling %q: %w", filepath.Join(parent, t.name), err)
		}

		group.Go(func() error {
			dir, err := w.walkDir(gctx, filepath.Join(parent, t.name), t.name)
			if err != nil {
				return err
			}

			buf.fill(t.slot, dir)

			return nil
		})
	}

	return group.Wait()
}

// rootName returns the name shown for the walk root.
func rootName(root string) string {
	return filepath.Base(filepath.Clean(root))
}
