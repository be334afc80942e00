//go:build !windows

package sizetree_test

import (
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/idelchi/sizetree/internal/sizetree"
)

func Test_Run_Skips_Named_Pipes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, filepath.Join("sub", "a"), 3)

	if err := unix.Mkfifo(filepath.Join(root, "sub", "pipe"), 0o600); err != nil {
		t.Fatalf("mkfifo: %v", err)
	}

	for _, engine := range sizetree.Engines {
		result := run(t, sizetree.Options{Path: root, Engine: engine})

		if result.Root.Size() != 3 {
			t.Fatalf("%s: size: got=%d want=3", engine, result.Root.Size())
		}

		sizetree.Visit(result.Root, func(e sizetree.Entry, _ int) {
			if e.Basename() == "pipe" {
				t.Fatalf("%s: named pipe appeared in tree", engine)
			}
		})
	}
}
