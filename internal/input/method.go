package input

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/deckodds/internal/model"
)

// Method selects where categories come from.
type Method int

const (
	// Stdin prompts for categories interactively.
	Stdin Method = iota
	// File reads categories from a category file.
	File
)

// ErrUnknownMethod is returned by ParseMethod for unrecognized names.
var ErrUnknownMethod = errors.New("invalid input method")

// ParseMethod resolves "stdin" or "file".
func ParseMethod(s string) (Method, error) {
	switch strings.TrimSpace(s) {
	case "stdin":
		return Stdin, nil
	case "file":
		return File, nil
	default:
		return 0, fmt.Errorf("%w: %q (available: stdin, file)", ErrUnknownMethod, s)
	}
}

func (m Method) String() string {
	if m == File {
		return "file"
	}
	return "stdin"
}

// LoadFile reads a category file, choosing the parser by extension:
// .toml and .yaml/.yml are structured, anything else is the line format.
func LoadFile(path string) ([]model.Category, error) {
	var (
		categories []model.Category
		err        error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		categories, err = loadStructured(path, ReadTOML)
	case ".yaml", ".yml":
		categories, err = loadStructured(path, ReadYAML)
	default:
		categories, err = LoadLines(path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return categories, nil
}

// Load retrieves categories with the given method.
func Load(m Method, path string, in io.Reader, out io.Writer) ([]model.Category, error) {
	if m == File {
		return LoadFile(path)
	}
	categories, err := Prompt(in, out)
	if err != nil {
		return nil, fmt.Errorf("io error: %w", err)
	}
	return categories, nil
}
