package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// printer writes human output. fatih/color drops escape codes when stdout is
// not a terminal.
type printer struct {
	w io.Writer
}

func (p printer) section(title string) {
	_, _ = headerColor.Fprintf(p.w, "▸ %s\n\n", title)
}

func (p printer) success(msg string) {
	_, _ = successColor.Fprintf(p.w, "✓ %s\n", msg)
}

func (p printer) warning(msg string) {
	_, _ = warningColor.Fprintf(p.w, "⚠ %s\n", msg)
}

func (p printer) labelValue(label, value string) {
	_, _ = labelColor.Fprintf(p.w, "  %s: ", label)
	_, _ = valueColor.Fprintln(p.w, value)
}

func (p printer) empty(msg string) {
	_, _ = dimColor.Fprintf(p.w, "  %s\n", msg)
}

func (p printer) table(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	fmt.Fprint(p.w, "  ")
	for i, header := range headers {
		if i > 0 {
			fmt.Fprint(p.w, "  ")
		}
		_, _ = headerColor.Fprintf(p.w, "%-*s", widths[i], header)
	}
	fmt.Fprintln(p.w)
	fmt.Fprint(p.w, "  ")
	for i, width := range widths {
		if i > 0 {
			fmt.Fprint(p.w, "  ")
		}
		fmt.Fprint(p.w, strings.Repeat("-", width))
	}
	fmt.Fprintln(p.w)
	for _, row := range rows {
		fmt.Fprint(p.w, "  ")
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				fmt.Fprint(p.w, "  ")
			}
			_, _ = valueColor.Fprintf(p.w, "%-*s", widths[i], cell)
		}
		fmt.Fprintln(p.w)
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
