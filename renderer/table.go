/*
Package renderer turns split results into displayable tables.

PURPOSE:
  Converts the engine's labeled split matrix into markdown (the canonical
  text form), an ANSI-styled terminal rendering of that markdown, and a
  plain fixed-width table with the synthetic rows colored. The engine
  stays presentation-free; everything visual lives here.

FORMATTING:
  Cells are printed with two fractional digits. The first column holds row
  labels and is left-aligned; every amount column is right-aligned. The
  total row prints green and the leftover row dim in the plain rendering.

SEE ALSO:
  - terminal.go: Markdown to ANSI via glamour
  - money.go: Currency-aware display values for the web UI
*/
package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/warp/billsplit/receipt"
)

var (
	totalColor    = color.New(color.FgGreen)
	leftoverColor = color.New(color.FgHiBlack)
)

// Markdown renders the splits as a markdown table: a label column followed
// by one right-aligned column per participant plus the row totals.
func Markdown(s *receipt.Splits) string {
	b := &bytes.Buffer{}

	fmt.Fprintf(b, "| Item |")
	for _, col := range s.Columns {
		fmt.Fprintf(b, " %s |", col)
	}
	fmt.Fprintln(b)

	fmt.Fprintf(b, "|:---|")
	for range s.Columns {
		fmt.Fprintf(b, "---:|")
	}
	fmt.Fprintln(b)

	for i, label := range s.Labels {
		fmt.Fprintf(b, "| %s |", label)
		for _, cell := range s.Rows[i] {
			fmt.Fprintf(b, " %s |", cell.StringFixed(2))
		}
		fmt.Fprintln(b)
	}
	return b.String()
}

// WritePlain prints a fixed-width table. The total row is green and the
// leftover row dim; disable globally with color.NoColor.
func WritePlain(w io.Writer, s *receipt.Splits) {
	widths := columnWidths(s)

	header := formatRow("Item", s.Columns, widths)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for i, label := range s.Labels {
		line := formatRow(label, cellStrings(s.Rows[i]), widths)
		switch label {
		case receipt.LabelTotal:
			totalColor.Fprintln(w, line)
		case receipt.LabelLeftover:
			leftoverColor.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
}

// columnWidths returns the width of the label column followed by the width
// of each amount column, sized to the widest header or cell.
func columnWidths(s *receipt.Splits) []int {
	widths := make([]int, len(s.Columns)+1)
	widths[0] = len("Item")
	for _, label := range s.Labels {
		if len(label) > widths[0] {
			widths[0] = len(label)
		}
	}
	for j, col := range s.Columns {
		widths[j+1] = len(col)
		for _, row := range s.Rows {
			if cell := len(row[j].StringFixed(2)); cell > widths[j+1] {
				widths[j+1] = cell
			}
		}
	}
	return widths
}

func formatRow(label string, cells []string, widths []int) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%-*s", widths[0], label)
	for j, cell := range cells {
		fmt.Fprintf(b, "  %*s", widths[j+1], cell)
	}
	return b.String()
}

func cellStrings(row []decimal.Decimal) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = cell.StringFixed(2)
	}
	return cells
}
