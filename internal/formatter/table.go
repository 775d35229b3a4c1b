// Package formatter renders run summaries as aligned Markdown tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps separator cells at least "---".
const minColumnWidth = 3

// Table renders header and rows as a Markdown table whose columns are padded
// to the widest cell by display width, so wide runes stay aligned.
func Table(header []string, rows [][]string) []string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return nil
	}

	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	measure(header)

	for _, row := range rows {
		measure(row)
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, renderRow(header, colWidths, false))
	lines = append(lines, renderRow(nil, colWidths, true))

	for _, row := range rows {
		lines = append(lines, renderRow(row, colWidths, false))
	}

	return lines
}

func renderRow(row []string, widths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range widths {
		sb.WriteString(" ")

		if separator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

// Cell escapes s for use inside a table cell and truncates it to maxWidth
// display columns. A maxWidth of 0 disables truncation.
func Cell(s string, maxWidth int) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.Join(strings.Fields(s), " ")

	if maxWidth > 0 && runewidth.StringWidth(s) > maxWidth {
		s = runewidth.Truncate(s, maxWidth, "...")
	}

	return s
}
