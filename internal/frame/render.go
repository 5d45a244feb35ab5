// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frame

import (
	"fmt"
	"io"
	"strings"

	"github.com/c2h5oh/datasize"
)

// naDisplay is how missing cells appear in rendered tables.
const naDisplay = "<NA>"

// maxCellWidth caps a rendered column, longer cells are truncated with an
// ellipsis.
const maxCellWidth = 30

// RenderTable writes the frame as a fixed-width text table. At most
// maxRows rows are printed; a footer notes how many were elided. A
// maxRows of 0 or less prints everything.
func (f *Frame) RenderTable(w io.Writer, maxRows int) {
	if f.NRows() == 0 || f.NCols() == 0 {
		fmt.Fprintln(w, "Empty frame.")
		return
	}

	rows := f.NRows()
	if maxRows > 0 && maxRows < rows {
		rows = maxRows
	}

	widths := make([]int, f.NCols())
	for j, c := range f.cols {
		widths[j] = len(c.Name())
		for i := 0; i < rows; i++ {
			if n := len(c.Render(i, naDisplay)); n > widths[j] {
				widths[j] = n
			}
		}
		if widths[j] > maxCellWidth {
			widths[j] = maxCellWidth
		}
	}

	total := 0
	for j, c := range f.cols {
		fmt.Fprintf(w, "%-*s", widths[j], truncate(c.Name(), widths[j]))
		total += widths[j]
		if j < len(f.cols)-1 {
			fmt.Fprint(w, "  ")
			total += 2
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", total))

	for i := 0; i < rows; i++ {
		for j, c := range f.cols {
			fmt.Fprintf(w, "%-*s", widths[j], truncate(c.Render(i, naDisplay), widths[j]))
			if j < len(f.cols)-1 {
				fmt.Fprint(w, "  ")
			}
		}
		fmt.Fprintln(w)
	}

	if rows < f.NRows() {
		fmt.Fprintf(w, "\n... (%d more rows)\n", f.NRows()-rows)
	}
}

// Info writes a per-column summary: type, non-null count, and the
// approximate memory footprint of the frame.
func (f *Frame) Info(w io.Writer) {
	fmt.Fprintf(w, "Frame %q: %d rows x %d columns\n", f.name, f.NRows(), f.NCols())
	if f.index != "" {
		fmt.Fprintf(w, "Index: %s\n", f.index)
	}

	fmt.Fprintf(w, "%-4s  %-25s  %-10s  %s\n", "#", "Column", "Non-null", "Type")
	fmt.Fprintln(w, strings.Repeat("-", 55))

	var bytes int64
	for i, c := range f.cols {
		fmt.Fprintf(w, "%-4d  %-25s  %-10d  %s\n",
			i, truncate(c.Name(), 25), c.Len()-c.NullCount(), c.Type())
		bytes += c.memoryBytes()
	}
	fmt.Fprintf(w, "\nMemory usage: %s\n", datasize.ByteSize(bytes).HumanReadable())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
