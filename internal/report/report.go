// Package report renders per-turn category probabilities as tables, CSV and plots.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/deckodds/internal/model"
)

const startingHandLabel = "Starting Hand"

var headerStyle = lipgloss.NewStyle().Bold(true)

// Options controls text table rendering.
type Options struct {
	// Bold renders the header row in bold.
	Bold bool
}

// Grid lays out stats as a header row and one row per turn.
// The first column holds the row label; the corner cell is empty.
func Grid(stats []model.CategoryStats) ([]string, [][]string) {
	headers := make([]string, 0, len(stats)+1)
	headers = append(headers, "")
	turns := 0
	for _, st := range stats {
		headers = append(headers, st.Name)
		if len(st.Probabilities) > turns {
			turns = len(st.Probabilities)
		}
	}
	rows := make([][]string, 0, turns)
	for t := 0; t < turns; t++ {
		row := make([]string, 0, len(stats)+1)
		row = append(row, RowLabel(t))
		for _, st := range stats {
			cell := ""
			if t < len(st.Probabilities) {
				cell = FormatProbability(st.Probabilities[t])
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// RowLabel names the row for turn t; turn 0 is the opening hand.
func RowLabel(t int) string {
	if t == 0 {
		return startingHandLabel
	}
	return fmt.Sprintf("Turn %d", t)
}

// FormatProbability prints the shortest decimal that round-trips.
func FormatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Render prints the stats table.
func Render(w io.Writer, stats []model.CategoryStats, opts Options) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "No categories.")
		return err
	}
	headers, rows := Grid(stats)
	lines := formatTable(headers, rows, probabilityColumns(len(stats)))
	for i, line := range lines {
		if i == 0 && opts.Bold {
			line = headerStyle.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// IsTerminal reports whether w is an interactive terminal that accepts styling.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
