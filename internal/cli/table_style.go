package cli

import (
	"fmt"
	"io"
	"strings"
)

// PlainTableWriter renders kubectl-style plain tables: uppercase headers,
// space-aligned columns, no box-drawing characters. The format survives
// copy/paste and pipes cleanly into grep, awk, and cut.
type PlainTableWriter struct {
	headers     []string
	rows        [][]string
	minPadding  int
	showHeaders bool
	output      io.Writer
}

// NewPlainTableWriter creates a plain table writer. Headers are shown by
// default; use SetNoHeaders(true) for scripting mode.
func NewPlainTableWriter(output io.Writer) *PlainTableWriter {
	return &PlainTableWriter{
		minPadding:  3,
		showHeaders: true,
		output:      output,
	}
}

// SetHeaders sets the column headers. Headers display in uppercase.
func (w *PlainTableWriter) SetHeaders(headers ...string) {
	w.headers = make([]string, len(headers))
	for i, h := range headers {
		w.headers[i] = strings.ToUpper(h)
	}
}

// SetNoHeaders controls whether the header row is suppressed.
func (w *PlainTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a data row. Rows shorter than the header row are padded
// with empty cells; extra cells beyond the header width are dropped.
func (w *PlainTableWriter) AppendRow(cells ...string) {
	row := make([]string, len(w.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	w.rows = append(w.rows, row)
}

// Render writes the table. Column widths are computed over headers and all
// rows, so nothing prints until the full table is known.
func (w *PlainTableWriter) Render() {
	if len(w.headers) == 0 {
		return
	}
	if len(w.rows) == 0 && !w.showHeaders {
		return
	}

	widths := make([]int, len(w.headers))
	for i, h := range w.headers {
		widths[i] = len(h)
	}
	for _, row := range w.rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if w.showHeaders {
		w.writeRow(w.headers, widths)
	}
	for _, row := range w.rows {
		w.writeRow(row, widths)
	}
}

// writeRow prints one row with column alignment. The last column is never
// padded so lines carry no trailing spaces.
func (w *PlainTableWriter) writeRow(row []string, widths []int) {
	var sb strings.Builder
	for i, cell := range row {
		if i == len(row)-1 {
			sb.WriteString(cell)
			continue
		}
		sb.WriteString(fmt.Sprintf("%-*s", widths[i]+w.minPadding, cell))
	}
	fmt.Fprintln(w.output, strings.TrimRight(sb.String(), " "))
}
