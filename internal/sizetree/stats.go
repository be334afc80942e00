package sizetree

import (
	"sync/atomic"
	"time"
)

// Stats holds aggregate statistics for a walk.
type Stats struct {
	// Files is the number of regular files sized.
	Files int64 `json:"files"`
	// Dirs is the number of directories walked, the root included.
	Dirs int64 `json:"dirs"`
	// Skipped is the number of entries that were neither files nor directories.
	Skipped int64 `json:"skipped"`
	// TotalBytes is the cumulative size of all files.
	TotalBytes int64 `json:"total_bytes"`
	// Workers is the concurrency bound used.
	Workers int `json:"workers"`
	// PeakWorkers is the highest number of tasks that ran at once.
	PeakWorkers int `json:"peak_workers"`
	// Engine names the traversal engine used.
	Engine string `json:"engine"`
	// Elapsed is the total time taken for the walk.
	Elapsed time.Duration `json:"elapsed"`
}

// counters are updated concurrently by walk tasks.
type counters struct {
	files   atomic.Int64
	dirs    atomic.Int64
	skipped atomic.Int64
	bytes   atomic.Int64
}

// addFile records one sized file.
func (c *counters) addFile(size int64) {
	c.files.Add(1)
	c.bytes.Add(size)
}

// snapshot copies the counters into a Stats.
func (c *counters) snapshot() Stats {
	return Stats{
		Files:      c.files.Load(),
		Dirs:       c.dirs.Load(),
		Skipped:    c.skipped.Load(),
		TotalBytes: c.bytes.Load(),
	}
}
