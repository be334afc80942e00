// Package sizetree builds size-annotated trees of a filesystem subtree.
//
// Every regular file is sized, directory sizes are aggregated bottom-up and
// siblings are sorted by ascending size. Subdirectories are walked
// concurrently under one process-wide bound, and each walk collects its
// results in a slot buffer whose indices are reserved before any task starts,
// so no lock guards the collected entries.
package sizetree
