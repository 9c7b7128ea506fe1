/*
terminal.go - ANSI rendering of markdown tables

PURPOSE:
  The CLI's default output path: the markdown table styled for the
  terminal through glamour. Word wrap is disabled so wide tables are
  never broken mid-row; the caller falls back to WritePlain when ANSI
  rendering fails or is unwanted.
*/
package renderer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/warp/billsplit/receipt"
)

// RenderANSI styles a markdown document for the terminal.
func RenderANSI(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// WriteTable prints the splits to w, styled when possible. Plain mode and
// ANSI failures both take the fixed-width colored path.
func WriteTable(w io.Writer, s *receipt.Splits, plain bool) {
	if !plain {
		if out, err := RenderANSI(Markdown(s)); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	WritePlain(w, s)
}
