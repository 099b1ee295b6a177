package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3AA99F"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6F6E69"))
)

// table is a plain column table. The first column is left aligned, the
// others right aligned.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i, width := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == 0 {
				parts[i] = fmt.Sprintf("%-*s", width, cell)
			} else {
				parts[i] = fmt.Sprintf("%*s", width, cell)
			}
		}
		return "  " + strings.Join(parts, "  ")
	}

	fmt.Fprintln(w, headerStyle.Render(line(t.headers)))

	total := 0
	for _, width := range widths {
		total += width + 2
	}
	fmt.Fprintln(w, mutedStyle.Render("  "+strings.Repeat("-", total-2)))

	for _, row := range t.rows {
		fmt.Fprintln(w, line(row))
	}
}

func printTitle(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(format, args...)))
}
