package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/deckodds/internal/format"
	"github.com/verte-zerg/deckodds/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"", "Lands", "Removal"}
	rows := [][]string{
		{"Starting Hand", "0.5", "0.25"},
		{"Turn 1", "0.75", ""},
	}
	lines := formatTable(headers, rows, probabilityColumns(2))
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "              | Lands | Removal" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Starting Hand |   0.5 |    0.25" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Turn 1        |  0.75 |" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}

	left := formatTable(headers, rows, nil)
	if left[1] != "Starting Hand | 0.5   | 0.25" {
		t.Fatalf("unexpected left-aligned row: %q", left[1])
	}
}

func TestRenderRightAlignsProbabilities(t *testing.T) {
	stats := []model.CategoryStats{
		{Index: 0, Name: "Lands", Probabilities: []float64{0.5, 0.75}},
	}
	var buf bytes.Buffer
	if err := Render(&buf, stats, Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "              | Lands\nStarting Hand |   0.5\nTurn 1        |  0.75\n"
	if buf.String() != want {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestGridRowsAndLabels(t *testing.T) {
	stats := []model.CategoryStats{
		{Index: 0, Name: "Lands", Probabilities: []float64{0.5, 0.75, 1}},
		{Index: 1, Name: "Huge"},
	}
	headers, rows := Grid(stats)
	if strings.Join(headers, ",") != ",Lands,Huge" {
		t.Fatalf("unexpected headers: %q", headers)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	wantLabels := []string{"Starting Hand", "Turn 1", "Turn 2"}
	for i, row := range rows {
		if row[0] != wantLabels[i] {
			t.Fatalf("row %d: label %q, want %q", i, row[0], wantLabels[i])
		}
		if row[2] != "" {
			t.Fatalf("row %d: expected empty cell for infeasible category, got %q", i, row[2])
		}
	}
	if rows[1][1] != "0.75" || rows[2][1] != "1" {
		t.Fatalf("unexpected cells: %v", rows)
	}
}

func TestRender(t *testing.T) {
	stats, err := format.Stats([]model.Category{{Name: "Lands", Size: 37}, {Name: "Removal", Size: 8}}, 3, format.Commander)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, stats, Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Lands") || strings.Index(lines[0], "Lands") > strings.Index(lines[0], "Removal") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Starting Hand") || !strings.HasPrefix(lines[4], "Turn 3") {
		t.Fatalf("unexpected row labels:\n%s", buf.String())
	}
}

func TestRenderNoCategories(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No categories.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestCSVRoundTripPreservesOrder(t *testing.T) {
	cats := []model.Category{
		{Name: "Removal", Size: 8},
		{Name: "Lands, basic", Size: 30},
		{Name: "Too Big", Size: 200},
		{Name: "Ramp", Size: 10},
	}
	stats, err := format.Stats(cats, 15, format.Commander)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, stats); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	names, err := ReadCSVCategories(file)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(names) != len(cats) {
		t.Fatalf("expected %d names, got %d: %v", len(cats), len(names), names)
	}
	for i, c := range cats {
		if names[i] != c.Name {
			t.Fatalf("column %d: got %q want %q", i, names[i], c.Name)
		}
	}
}

func TestWriteCSVUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	if err := WriteCSV(path, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestReadCSVCategoriesEmpty(t *testing.T) {
	if _, err := ReadCSVCategories(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestPlotCurves(t *testing.T) {
	var buf bytes.Buffer
	stats := []model.CategoryStats{
		{Name: "A", Probabilities: []float64{0.1, 0.3, 0.5, 0.7, 0.9}},
		{Name: "B", Probabilities: []float64{0, 0, 0.2, 0.4, 0.6}},
		{Name: "Empty"},
	}
	if err := PlotCurves(&buf, stats, 20, 4, false); err != nil {
		t.Fatalf("plot: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, plotTitle) {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") || strings.Contains(out, "Empty") {
		t.Fatalf("unexpected legend:\n%s", out)
	}
	if !strings.Contains(out, "turn 4") {
		t.Fatalf("expected x axis label:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+4+1+1 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), out)
	}
}

func TestPlotCurvesNothingToPlot(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotCurves(&buf, []model.CategoryStats{{Name: "Empty"}}, 20, 4, false); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-len(axisLabelTop)-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestValueToRow(t *testing.T) {
	if valueToRow(1, 40) != 0 {
		t.Fatalf("expected 100%% at top row")
	}
	if valueToRow(0, 40) != 39 {
		t.Fatalf("expected 0%% at bottom row")
	}
}

func TestTraceColumnSplitsStep(t *testing.T) {
	type dot struct{ x, y int }
	var got []dot
	traceColumn(4, 10, 4, func(x, y int) { got = append(got, dot{x, y}) })
	want := []dot{{3, 10}, {3, 9}, {3, 8}, {4, 7}, {4, 6}, {4, 5}, {4, 4}}
	if len(got) != len(want) {
		t.Fatalf("expected %d dots, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dot %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSetBrailleDot(t *testing.T) {
	cells := makeCells(1, 1)
	setBrailleDot(cells, 0, 0)
	setBrailleDot(cells, 1, 3)
	setBrailleDot(cells, 5, 9)
	if cells[0][0] != 0x81 {
		t.Fatalf("unexpected mask %#x", cells[0][0])
	}
	if brailleFromMask(cells[0][0]) != '⢁' {
		t.Fatalf("unexpected rune %q", brailleFromMask(cells[0][0]))
	}
}
