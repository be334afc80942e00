package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/idelchi/sizetree/internal/sizetree"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2

	indentUnit = "| "
	branch     = "-- "

	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

// HumanSize formats a byte count with two decimals in B, KB, MB or GB.
// Exactly one GiB is still shown in MB.
func HumanSize(bytes int64) string {
	value := float64(bytes)

	switch {
	case bytes < kib:
		return fmt.Sprintf("%.2f B", value)
	case bytes < mib:
		return fmt.Sprintf("%.2f KB", value/kib)
	case bytes <= gib:
		return fmt.Sprintf("%.2f MB", value/mib)
	default:
		return fmt.Sprintf("%.2f GB", value/gib)
	}
}

// padding returns the dot leader filling a line to width columns, or the
// empty string when the line is already full.
func padding(n int) string {
	if n <= 0 {
		return ""
	}

	return " " + strings.Repeat(".", n-1)
}

// PrintTree writes one line per entry in depth-first pre-order:
//
//	{indent}-- {name}{padding}{size}
//
// where indent is "| " per level and padding aligns the size to width.
func PrintTree(root sizetree.Entry, writer io.Writer, width int) error {
	w := bufio.NewWriter(writer)

	sizetree.Visit(root, func(e sizetree.Entry, depth int) {
		indent := strings.Repeat(indentUnit, depth)
		size := HumanSize(e.Size())
		used := len(indent) + len(branch) + runewidth.StringWidth(e.Basename()) + len(size)

		fmt.Fprintf(w, "%s%s%s%s%s\n", indent, branch, e.Basename(), padding(width-used), size)
	})

	return w.Flush()
}

// jsonEntry is the JSON form of an Entry.
type jsonEntry struct {
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Size     int64       `json:"size"`
	Children []jsonEntry `json:"children,omitempty"`
}

func toJSON(e sizetree.Entry) jsonEntry {
	switch v := e.(type) {
	case sizetree.Dir:
		children := make([]jsonEntry, 0, len(v.Children))
		for _, child := range v.Children {
			children = append(children, toJSON(child))
		}

		return jsonEntry{Name: v.Name, Kind: sizetree.KindDir.String(), Size: v.Bytes, Children: children}
	default:
		return jsonEntry{Name: e.Basename(), Kind: sizetree.KindFile.String(), Size: e.Size()}
	}
}

// PrintJSON outputs the tree and its statistics in JSON format.
func PrintJSON(result *sizetree.Result, writer io.Writer) error {
	data, err := json.MarshalIndent(struct {
		Tree  jsonEntry      `json:"tree"`
		Stats sizetree.Stats `json:"stats"`
	}{toJSON(result.Root), result.Stats}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintSummary outputs walk statistics in human-readable table format.
func PrintSummary(stats sizetree.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total files:\t%s\n", humanize.Comma(stats.Files))
	fmt.Fprintf(w, "Total directories:\t%s\n", humanize.Comma(stats.Dirs))
	fmt.Fprintf(w, "Skipped entries:\t%s\n", humanize.Comma(stats.Skipped))
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(stats.TotalBytes)), stats.TotalBytes) //nolint:gosec // Sizes are never negative
	fmt.Fprintf(w, "Engine:\t%s\n", stats.Engine)

	if stats.PeakWorkers > 0 {
		fmt.Fprintf(w, "Workers:\t%d (peak %d)\n", stats.Workers, stats.PeakWorkers)
	} else {
		fmt.Fprintf(w, "Workers:\t%d\n", stats.Workers)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
