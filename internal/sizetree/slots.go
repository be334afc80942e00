package sizetree

import (
	"errors"
	"fmt"
)

// ErrPending is returned when a slot buffer is drained while a reserved slot
// was never filled.
var ErrPending = errors.New("slot still pending")

// slots collects the entries of one directory.
//
// Completed entries are pushed by the owning walker; subdirectories reserve
// an index up front and their walk task fills exactly that index. All
// reservations happen before any task is spawned, so the backing array never
// moves while tasks write to it, and no two tasks share an index. The owner
// reads the buffer only after every task has been joined.
type slots struct {
	items  []Entry
	filled []bool
}

// newSlots returns an empty buffer with room for n entries.
func newSlots(n int) *slots {
	return &slots{
		items:  make([]Entry, 0, n),
		filled: make([]bool, 0, n),
	}
}

// push appends a completed entry.
func (s *slots) push(e Entry) {
	s.items = append(s.items, e)
	s.filled = append(s.filled, true)
}

// reserve appends a pending slot and returns its index.
func (s *slots) reserve() int {
	s.items = append(s.items, nil)
	s.filled = append(s.filled, false)

	return len(s.items) - 1
}

// fill writes the pending slot at index i. It must be called at most once
// per reserved index.
func (s *slots) fill(i int, e Entry) {
	if s.filled[i] {
		panic(fmt.Sprintf("sizetree: slot %d written twice", i))
	}

	s.items[i] = e
	s.filled[i] = true
}

// drain returns the entries in index order.
func (s *slots) drain() ([]Entry, error) {
	for i, ok := range s.filled {
		if !ok {
			return nil, fmt.Errorf("draining slot %d: %w", i, ErrPending)
		}
	}

	entries := s.items
	s.items, s.filled = nil, nil

	return entries, nil
}
