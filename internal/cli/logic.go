package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/sizetree/internal/sizetree"
)

// interactive reports whether the CLI's stderr is a terminal.
func (c CLI) interactive() bool {
	f, ok := c.stderr.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func (c CLI) logic(opt options) error {
	enableProgress := opt.output != OutputJSON &&
		!opt.walk.Debug &&
		c.interactive()

	ctx := context.Background()

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(c.stderr, "\033[?25l")
		defer fmt.Fprint(c.stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %s files, %s",
				humanize.Comma(files), humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(c.stderr, "\r\033[2K%s\r", msg)
		}
	}

	result, err := sizetree.Run(ctx, opt.walk, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(c.stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	// Render fully before writing so a failure leaves stdout untouched.
	var out bytes.Buffer

	switch opt.output {
	case OutputJSON:
		err = PrintJSON(result, &out)
	default:
		err = PrintTree(result.Root, &out, opt.width)
	}

	if err != nil {
		return err
	}

	if _, err := out.WriteTo(c.stdout); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if opt.stats {
		return PrintSummary(result.Stats, c.stderr)
	}

	return nil
}
