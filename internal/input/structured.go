package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/deckodds/internal/model"
)

// categoryFile is the shared shape of TOML and YAML category files.
type categoryFile struct {
	Categories []categoryEntry `toml:"category" yaml:"categories"`
}

type categoryEntry struct {
	Name string `toml:"name" yaml:"name"`
	Size *int   `toml:"size" yaml:"size"`
}

// ReadTOML parses [[category]] tables with name and size keys.
func ReadTOML(r io.Reader) ([]model.Category, error) {
	var f categoryFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode toml: %w", err)
	}
	return f.categories()
}

// ReadYAML parses a top-level categories list of name/size mappings.
func ReadYAML(r io.Reader) ([]model.Category, error) {
	var f categoryFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	return f.categories()
}

func (f categoryFile) categories() ([]model.Category, error) {
	out := make([]model.Category, 0, len(f.Categories))
	for i, e := range f.Categories {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: category %d has no name", ErrInvalidFormat, i+1)
		}
		if e.Size == nil {
			return nil, fmt.Errorf("%w: category %q has no size", ErrInvalidFormat, e.Name)
		}
		if *e.Size < 0 {
			return nil, fmt.Errorf("%w %d: category %q size must be >= 0", ErrInvalidNumber, *e.Size, e.Name)
		}
		out = append(out, model.Category{Name: e.Name, Size: *e.Size})
	}
	return out, nil
}

func loadStructured(path string, read func(io.Reader) ([]model.Category, error)) ([]model.Category, error) {
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
	return read(file)
}
