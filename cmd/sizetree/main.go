// Command sizetree prints a size-annotated tree of a directory.
package main

import (
	"os"

	"github.com/idelchi/sizetree/internal/cli"
)

// version is set at build time.
//
//nolint:gochecknoglobals // Set by ldflags
var version = "unknown - unofficial & generated by unknown"

func main() {
	os.Exit(cli.New(version).Main(os.Args[1:]))
}
