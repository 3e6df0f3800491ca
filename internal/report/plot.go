package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/deckodds/internal/model"
)

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	// DefaultPlotHeight is the plot height in terminal rows.
	DefaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "100%"
	axisLabelMid        = "50%"
	axisLabelBottom     = "0%"
	axisSeparator       = " │ "
	plotTitle           = "Hit Probability by Turn"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// PlotCurves renders one braille line per category on a fixed 0-100% axis.
// Categories with no probabilities are skipped. A width of 0 fits the terminal.
func PlotCurves(w io.Writer, stats []model.CategoryStats, width, height int, forceColor bool) error {
	stats = plottable(stats)
	if len(stats) == 0 {
		return nil
	}
	turns := 0
	for _, st := range stats {
		if len(st.Probabilities) > turns {
			turns = len(st.Probabilities)
		}
	}

	if height <= 0 {
		height = DefaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	seriesCells := make([][][]uint8, 0, len(stats))
	for si, st := range stats {
		cells := makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		dot := func(x, y int) {
			if style.period <= 1 || x%style.period < style.on {
				setBrailleDot(cells, x, y)
			}
		}
		prevY := -1
		for x, p := range resampleSeries(st.Probabilities, width) {
			y := valueToRow(p, height*4)
			traceColumn(2*x, prevY, y, dot)
			prevY = y
		}
		seriesCells = append(seriesCells, cells)
	}

	useColor := shouldUseColor(w, forceColor)
	leftAxisWidth := len(axisLabelTop)
	axisLabels := makeAxisLabels(height)

	if _, err := fmt.Fprintln(w, plotTitle); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", leftAxisWidth, axisLabels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				row.WriteString(colorPalette[colorIdx%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	axisPad := strings.Repeat(" ", leftAxisWidth+utf8.RuneCountInString(axisSeparator))
	if _, err := fmt.Fprintln(w, axisPad+xAxisLabel(turns, width)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, renderLegend(stats, useColor)); err != nil {
		return err
	}
	return nil
}

func plottable(stats []model.CategoryStats) []model.CategoryStats {
	out := make([]model.CategoryStats, 0, len(stats))
	for _, st := range stats {
		if len(st.Probabilities) == 0 {
			continue
		}
		out = append(out, st)
	}
	return out
}

func xAxisLabel(turns, width int) string {
	left := "hand"
	right := fmt.Sprintf("turn %d", turns-1)
	if turns <= 1 {
		return left
	}
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	return IsTerminal(w)
}

func makeAxisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

// resampleSeries stretches a short series by linear interpolation, or
// averages buckets of a long one, to exactly width points.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// valueToRow maps a probability to a dot row; row 0 is 100%.
func valueToRow(p float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	row := int(math.Round((1 - p) * float64(rows-1)))
	if row < 0 {
		row = 0
	}
	if row >= rows {
		row = rows - 1
	}
	return row
}

func renderLegend(stats []model.CategoryStats, useColor bool) string {
	parts := make([]string, 0, len(stats))
	marker := brailleFromMask(0x01)
	for i, st := range stats {
		styleName := lineStyles[i%len(lineStyles)].name
		label := fmt.Sprintf("%c %s (%s)", marker, st.Name, styleName)
		if useColor {
			label = colorPalette[i%len(colorPalette)].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// traceColumn joins a curve point at dot column x to the previous point one
// column to the left. The step between prevY and y is split across both
// dot columns of the braille cell so rising curves stay connected.
// A negative prevY marks the first point of a series.
func traceColumn(x, prevY, y int, dot func(x, y int)) {
	if prevY < 0 || prevY == y {
		dot(x, y)
		return
	}
	step := 1
	if y < prevY {
		step = -1
	}
	mid := prevY + (y-prevY)/2
	for row := prevY; row != mid; row += step {
		dot(x-1, row)
	}
	for row := mid; row != y+step; row += step {
		dot(x, row)
	}
}

// brailleDots maps a dot at (row, column) within a 2x4 braille cell to its
// bit in the U+2800 block.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	row, col := y/4, x/2
	if row >= len(cells) || col >= len(cells[row]) {
		return
	}
	cells[row][col] |= brailleDots[y%4][x%2]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
