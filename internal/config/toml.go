// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/deckodds/internal/format"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Run     RunConfig               `toml:"run"`
	Formats map[string]FormatConfig `toml:"formats"`
}

// RunConfig maps run-related settings.
type RunConfig struct {
	Input        *string `toml:"input"`
	Format       *string `toml:"format"`
	Turns        *int    `toml:"turns"`
	CategoryFile *string `toml:"category-file"`
	Output       *string `toml:"output"`
	Plot         *bool   `toml:"plot"`
	Save         *bool   `toml:"save"`
	Workers      *int    `toml:"workers"`
}

// FormatConfig overrides the deck shape of a format.
type FormatConfig struct {
	DeckSize    *int `toml:"deck-size"`
	OpeningHand *int `toml:"opening-hand"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	formats, err := canonicalFormats(cfg.Formats)
	if err != nil {
		return FileConfig{}, err
	}
	cfg.Formats = formats
	return cfg, nil
}

// canonicalFormats rekeys [formats.<name>] tables by canonical format name so
// aliases such as edh or modern apply. Two tables for the same format are an error.
func canonicalFormats(in map[string]FormatConfig) (map[string]FormatConfig, error) {
	if len(in) == 0 {
		return in, nil
	}
	out := make(map[string]FormatConfig, len(in))
	seenAs := make(map[string]string, len(in))
	for key, fc := range in {
		f, err := format.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("formats.%s: %w", key, err)
		}
		name := f.String()
		if prev, ok := seenAs[name]; ok {
			return nil, fmt.Errorf("formats.%s and formats.%s both configure %s", prev, key, name)
		}
		seenAs[name] = key
		out[name] = fc
	}
	return out, nil
}

// FormatOverride returns the override for a canonical format name, if any.
func (c FileConfig) FormatOverride(name string) (FormatConfig, bool) {
	fc, ok := c.Formats[strings.ToLower(name)]
	return fc, ok
}
