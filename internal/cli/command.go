// Package cli implements the sizetree command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/pflag"

	"github.com/idelchi/sizetree/internal/sizetree"
)

// ErrArgs is returned when the command is not given exactly one path.
var ErrArgs = errors.New("Please provide a path to a file") //nolint:staticcheck // User-facing message

// Output formats.
const (
	OutputTree = "tree"
	OutputJSON = "json"
)

// DefaultWidth is the column the size of every tree line is aligned to.
const DefaultWidth = 80

// CLI represents the command-line interface.
type CLI struct {
	version string
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new CLI instance with the given version writing to the
// process streams.
func New(version string) CLI {
	return CLI{version: version, stdout: os.Stdout, stderr: os.Stderr}
}

// WithOutput returns a copy of the CLI writing to the given streams.
func (c CLI) WithOutput(stdout, stderr io.Writer) CLI {
	c.stdout, c.stderr = stdout, stderr

	return c
}

// options holds the parsed command line.
type options struct {
	walk       sizetree.Options
	output     string
	width      int
	stats      bool
	configPath string
	version    bool
}

func (c CLI) help(flags *pflag.FlagSet) {
	fmt.Fprintln(c.stderr, heredoc.Doc(`
		sizetree prints a directory tree annotated with the size of every entry.

		Usage:

			sizetree [flags] <path>

		Positional Arguments:
		  path                   File or directory to measure.

		Directory sizes are the sum of their contents. Siblings are listed from
		smallest to largest. Symbolic links and special files are skipped.

		Flags:
	`))
	flags.SetOutput(c.stderr)
	flags.PrintDefaults()
}

// Main runs the CLI and maps its outcome to a process exit status.
func (c CLI) Main(args []string) int {
	if err := c.Execute(args); err != nil {
		fmt.Fprintf(c.stderr, "ERROR: %v\n", err)

		return 1
	}

	return 0
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute(args []string) error {
	var opt options

	flags := pflag.NewFlagSet("sizetree", pflag.ContinueOnError)

	flags.BoolVar(&opt.walk.SingleThreaded, "single-threaded", false, "Walk with a single worker")
	flags.IntVarP(&opt.walk.Workers, "workers", "w", sizetree.DefaultWorkers, "Maximum number of concurrent walk tasks")
	flags.StringVar(&opt.walk.Engine, "engine", sizetree.EngineWalker, "Traversal engine: walker or fastwalk")
	flags.StringVarP(&opt.output, "output", "o", OutputTree, "Output format: tree or json")
	flags.IntVar(&opt.width, "width", DefaultWidth, "Column to align sizes to")
	flags.BoolVar(&opt.stats, "stats", false, "Print walk statistics to stderr")
	flags.StringVar(&opt.configPath, "config", "", "INI file with default settings (env: "+ConfigEnv+")")
	flags.BoolVar(&opt.walk.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&opt.version, "version", "v", false, "Show version and exit")

	// Parse errors are reported once by Main.
	flags.SortFlags = false
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			c.help(flags)

			return nil
		}

		return err
	}

	if opt.version {
		fmt.Fprintln(c.stdout, c.version)

		return nil
	}

	if flags.NArg() != 1 {
		return ErrArgs
	}

	opt.walk.Path = flags.Arg(0)
	opt.walk.DebugOutput = c.stderr

	if err := applyConfig(&opt, flags); err != nil {
		return err
	}

	if !slices.Contains([]string{OutputTree, OutputJSON}, opt.output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", opt.output, []string{OutputTree, OutputJSON})
	}

	if !slices.Contains(sizetree.Engines, opt.walk.Engine) {
		return fmt.Errorf("invalid engine %q: must be one of %v", opt.walk.Engine, sizetree.Engines)
	}

	if opt.walk.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	return c.logic(opt)
}
