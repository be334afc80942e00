package sizetree

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the default bound on concurrent walk tasks.
const DefaultWorkers = 4

// Scheduler bounds the number of walk tasks doing filesystem work at the same
// time. One Scheduler is shared by every level of a walk, so the bound holds
// for the whole tree rather than per directory.
//
// A task holds its token only while it lists its directory and sizes its
// files. It gives the token back before waiting on its own subdirectories,
// which is what keeps a shared bound free of deadlocks. Waiters are admitted
// in the order they asked.
type Scheduler struct {
	sem *semaphore.Weighted

	active atomic.Int64
	peak   atomic.Int64
}

// NewScheduler returns a Scheduler admitting at most limit tasks at once.
// A limit below 1 is treated as 1.
func NewScheduler(limit int) *Scheduler {
	if limit < 1 {
		limit = 1
	}

	return &Scheduler{
		sem: semaphore.NewWeighted(int64(limit)),
	}
}

// Peak returns the highest number of tasks that held a token at once.
func (s *Scheduler) Peak() int {
	return int(s.peak.Load())
}

// acquire blocks until a token is free or ctx is done.
func (s *Scheduler) acquire(ctx context.Context) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	n := s.active.Add(1)

	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	return nil
}

// release returns a token taken by acquire.
func (s *Scheduler) release() {
	s.active.Add(-1)
	s.sem.Release(1)
}
