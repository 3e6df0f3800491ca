// Package input reads category definitions from files and interactive prompts.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/deckodds/internal/model"
)

var (
	// ErrInvalidFormat reports a structurally malformed category file.
	ErrInvalidFormat = errors.New("file has invalid format")
	// ErrInvalidNumber reports a size that is not a non-negative integer.
	ErrInvalidNumber = errors.New("invalid number")
)

// ReadLines parses alternating name and size lines.
func ReadLines(r io.Reader) ([]model.Category, error) {
	var (
		categories []model.Category
		name       string
		lineNo     int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo%2 == 1 {
			if strings.TrimSpace(line) == "" {
				return nil, fmt.Errorf("%w: line %d: empty category name", ErrInvalidFormat, lineNo)
			}
			name = line
			continue
		}
		size, err := ParseSize(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		categories = append(categories, model.Category{Name: name, Size: size})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if lineNo%2 != 0 {
		return nil, fmt.Errorf("%w: category %q has no size line", ErrInvalidFormat, name)
	}
	return categories, nil
}

// LoadLines reads a line-based category file.
func LoadLines(path string) ([]model.Category, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only category file.
			_ = cerr
		}
	}()
	return ReadLines(file)
}

// ParseSize parses a base-10 non-negative category size.
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidNumber, s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w %q: must be >= 0", ErrInvalidNumber, s)
	}
	return n, nil
}
