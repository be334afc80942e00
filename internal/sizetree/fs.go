package sizetree

import (
	"fmt"
	"io/fs"
	"os"
)

// Kind classifies a directory child without following links.
type Kind int

const (
	// KindOther is anything that is neither a regular file nor a directory:
	// symlinks, devices, sockets, pipes.
	KindOther Kind = iota
	// KindFile is a regular file.
	KindFile
	// KindDir is a directory.
	KindDir
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// kindOf maps file mode type bits to a Kind.
func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	default:
		return KindOther
	}
}

// Child is a name and kind pair yielded by listing a directory.
type Child struct {
	Name string
	Kind Kind
}

// FS is the filesystem the walker consumes.
// List gives no ordering guarantee.
type FS interface {
	List(path string) ([]Child, error)
	Size(path string) (int64, error)
}

// OS is the FS backed by the operating system.
type OS struct{}

// List returns the immediate children of the directory at path.
func (OS) List(path string) ([]Child, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("listing directory %q: %w", path, err)
	}

	children := make([]Child, 0, len(entries))
	for _, e := range entries {
		children = append(children, Child{Name: e.Name(), Kind: kindOf(e.Type())})
	}

	return children, nil
}

// Size opens the file at path and returns its length.
func (OS) Size(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening file %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("reading size of %q: %w", path, err)
	}

	return info.Size(), nil
}
