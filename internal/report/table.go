package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const cellSeparator = " | "

type column struct {
	width int
	right bool
}

// formatTable pads every cell to its column's display width. Columns listed
// in rightAlign are padded on the left; the rest on the right.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	cols := measureColumns(headers, rows)
	if len(cols) == 0 {
		return nil
	}
	for i := range cols {
		cols[i].right = rightAlign[i]
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, joinCells(headers, cols))
	}
	for _, row := range rows {
		lines = append(lines, joinCells(row, cols))
	}
	return lines
}

// probabilityColumns marks every column after the row label for right alignment.
func probabilityColumns(count int) map[int]bool {
	out := make(map[int]bool, count)
	for i := 1; i <= count; i++ {
		out[i] = true
	}
	return out
}

func measureColumns(headers []string, rows [][]string) []column {
	count := len(headers)
	for _, row := range rows {
		count = max(count, len(row))
	}
	cols := make([]column, count)
	grow := func(cells []string) {
		for i, cell := range cells {
			cols[i].width = max(cols[i].width, runewidth.StringWidth(cell))
		}
	}
	grow(headers)
	for _, row := range rows {
		grow(row)
	}
	return cols
}

func joinCells(cells []string, cols []column) string {
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteString(cellSeparator)
		}
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(0, col.width-runewidth.StringWidth(cell)))
		if col.right {
			b.WriteString(pad + cell)
		} else {
			b.WriteString(cell + pad)
		}
	}
	return strings.TrimRight(b.String(), " ")
}
