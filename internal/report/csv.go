package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/verte-zerg/deckodds/internal/model"
)

// ErrNoHeader is returned when a CSV report has no header row.
var ErrNoHeader = errors.New("csv report has no header")

// WriteCSVTo writes the stats grid as comma-separated values.
func WriteCSVTo(w io.Writer, stats []model.CategoryStats) error {
	headers, rows := Grid(stats)
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSV writes the stats grid to path, replacing it atomically.
func WriteCSV(path string, stats []model.CategoryStats) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".deckodds-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp csv: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := WriteCSVTo(tmpFile, stats); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close csv: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ReadCSVCategories returns the category names from a CSV report header, in column order.
func ReadCSVCategories(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, err
	}
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	return header[1:], nil
}
