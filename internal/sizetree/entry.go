package sizetree

import (
	"fmt"
	"slices"
)

// Entry is the result of walking one filesystem object.
// It is either a File or a Dir.
type Entry interface {
	// Basename is the final path element of the entry.
	Basename() string
	// Size is the size in bytes. For a Dir it is the sum of its children.
	Size() int64

	entry()
}

// File is a regular file.
type File struct {
	// Name is the file name.
	Name string
	// Bytes is the file length.
	Bytes int64
}

// Basename implements Entry.
func (f File) Basename() string { return f.Name }

// Size implements Entry.
func (f File) Size() int64 { return f.Bytes }

func (File) entry() {}

// Dir is a directory with its aggregate size and sorted children.
type Dir struct {
	// Name is the directory name.
	Name string
	// Bytes is the aggregate size of Children.
	Bytes int64
	// Children are sorted ascending by size.
	Children []Entry
}

// Basename implements Entry.
func (d Dir) Basename() string { return d.Name }

// Size implements Entry.
func (d Dir) Size() int64 { return d.Bytes }

func (Dir) entry() {}

// NewDir aggregates and sorts children into a completed Dir.
// The slice is taken over by the returned Dir.
func NewDir(name string, children []Entry) Dir {
	var total int64

	for _, child := range children {
		total += child.Size()
	}

	// Ties keep no particular order.
	slices.SortFunc(children, func(a, b Entry) int {
		switch {
		case a.Size() < b.Size():
			return -1
		case a.Size() > b.Size():
			return 1
		default:
			return 0
		}
	})

	return Dir{Name: name, Bytes: total, Children: children}
}

// Visit calls fn for every entry in depth-first pre-order, children in
// their stored order. The root has depth 0.
func Visit(root Entry, fn func(e Entry, depth int)) {
	visit(root, 0, fn)
}

func visit(e Entry, depth int, fn func(Entry, int)) {
	fn(e, depth)

	if d, ok := e.(Dir); ok {
		for _, child := range d.Children {
			visit(child, depth+1, fn)
		}
	}
}

// Validate checks that every Dir below root has the sum of its children as
// size and that its children are sorted ascending by size.
func Validate(root Entry) error {
	switch e := root.(type) {
	case File:
		if e.Bytes < 0 {
			return fmt.Errorf("file %q has negative size %d", e.Name, e.Bytes)
		}

		return nil
	case Dir:
		var total int64

		for i, child := range e.Children {
			if err := Validate(child); err != nil {
				return err
			}

			if i > 0 && e.Children[i-1].Size() > child.Size() {
				return fmt.Errorf("directory %q: child %q out of order", e.Name, child.Basename())
			}

			total += child.Size()
		}

		if total != e.Bytes {
			return fmt.Errorf("directory %q: size %d, children sum to %d", e.Name, e.Bytes, total)
		}

		return nil
	default:
		return fmt.Errorf("unknown entry type %T", root)
	}
}

// Equal reports whether two trees have the same names, sizes and shape.
// Siblings of equal size are compared by name, so tie order does not matter.
func Equal(a, b Entry) bool {
	switch x := a.(type) {
	case File:
		y, ok := b.(File)

		return ok && x == y
	case Dir:
		y, ok := b.(Dir)
		if !ok || x.Name != y.Name || x.Bytes != y.Bytes || len(x.Children) != len(y.Children) {
			return false
		}

		left, right := canonical(x.Children), canonical(y.Children)
		for i := range left {
			if !Equal(left[i], right[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func canonical(children []Entry) []Entry {
	sorted := slices.Clone(children)

	slices.SortStableFunc(sorted, func(a, b Entry) int {
		if a.Size() != b.Size() {
			if a.Size() < b.Size() {
				return -1
			}

			return 1
		}

		switch {
		case a.Basename() < b.Basename():
			return -1
		case a.Basename() > b.Basename():
			return 1
		default:
			return 0
		}
	})

	return sorted
}
