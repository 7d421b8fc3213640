// Package formatter aligns markdown tables for the listings report.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// alignment of a table column, read from the separator row.
type alignment int

const (
	alignNone alignment = iota
	alignLeft
	alignCenter
	alignRight
)

// FormatMarkdown pads every pipe table in content so its columns line up in
// terminal display width. Text outside tables is left untouched.
func FormatMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var table []string

	flush := func() {
		if len(table) > 0 {
			out = append(out, formatTable(table)...)
			table = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1 {
			table = append(table, trimmed)

			continue
		}

		flush()

		out = append(out, line)
	}

	flush()

	return strings.Join(out, "\n")
}

// EscapeCell makes text safe to place inside a table cell. Backslashes are
// escaped first so SplitRow reads the cell back unchanged.
func EscapeCell(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	text = strings.ReplaceAll(text, `\`, `\\`)

	return strings.ReplaceAll(text, "|", `\|`)
}

// Row renders cells as a raw (unaligned) table row.
func Row(cells ...string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// SeparatorRow renders the header separator for n columns.
func SeparatorRow(n int) string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = "---"
	}

	return Row(cells...)
}

func formatTable(rows []string) []string {
	if len(rows) < 2 {
		return rows
	}

	cells := make([][]string, len(rows))
	cols := 0

	for i, row := range rows {
		cells[i] = SplitRow(row)
		if len(cells[i]) > cols {
			cols = len(cells[i])
		}
	}

	aligns, ok := parseSeparator(cells[1])
	if !ok {
		return rows
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for i, row := range cells {
		if i == 1 {
			continue
		}

		for j, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}

	result := make([]string, len(cells))

	for i, row := range cells {
		var sb strings.Builder

		sb.WriteString("|")

		for j := 0; j < cols; j++ {
			sb.WriteString(" ")

			if i == 1 {
				sb.WriteString(separatorCell(alignAt(aligns, j), widths[j]))
			} else {
				cell := ""
				if j < len(row) {
					cell = row[j]
				}

				sb.WriteString(padCell(cell, alignAt(aligns, j), widths[j]))
			}

			sb.WriteString(" |")
		}

		result[i] = sb.String()
	}

	return result
}

// SplitRow splits a table row on pipes that are not escaped with a backslash.
func SplitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")

	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, `\|`) {
		row = row[:len(row)-1]
	}

	var (
		cells   []string
		current strings.Builder
	)

	escaped := false

	for _, r := range row {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			current.WriteRune(r)
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(cells, strings.TrimSpace(current.String()))
}

func parseSeparator(cells []string) ([]alignment, bool) {
	aligns := make([]alignment, len(cells))

	for i, cell := range cells {
		c := strings.ReplaceAll(cell, " ", "")
		if c == "" || strings.Trim(c, ":-") != "" || !strings.Contains(c, "-") {
			return nil, false
		}

		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")

		switch {
		case left && right:
			aligns[i] = alignCenter
		case right:
			aligns[i] = alignRight
		case left:
			aligns[i] = alignLeft
		}
	}

	return aligns, true
}

func alignAt(aligns []alignment, i int) alignment {
	if i < len(aligns) {
		return aligns[i]
	}

	return alignNone
}

func separatorCell(a alignment, width int) string {
	switch a {
	case alignLeft:
		return ":" + strings.Repeat("-", width-1)
	case alignRight:
		return strings.Repeat("-", width-1) + ":"
	case alignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	}

	return strings.Repeat("-", width)
}

func padCell(cell string, a alignment, width int) string {
	gap := width - runewidth.StringWidth(cell)
	if gap <= 0 {
		return cell
	}

	switch a {
	case alignRight:
		return strings.Repeat(" ", gap) + cell
	case alignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	}

	return cell + strings.Repeat(" ", gap)
}
