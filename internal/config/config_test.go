package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/deckodds/internal/format"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.Turns != nil || cfg.Run.Format != nil {
		t.Fatalf("expected empty config, got %+v", cfg.Run)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	src := `[run]
format = "edh"
turns = 10
category-file = "deck.yaml"
plot = true

[formats.commander]
deck-size = 100
opening-hand = 8
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.Format == nil || *cfg.Run.Format != "edh" {
		t.Fatalf("unexpected format: %v", cfg.Run.Format)
	}
	if cfg.Run.Turns == nil || *cfg.Run.Turns != 10 {
		t.Fatalf("unexpected turns: %v", cfg.Run.Turns)
	}
	if cfg.Run.Plot == nil || !*cfg.Run.Plot {
		t.Fatalf("expected plot to be set")
	}
	if cfg.Run.Output != nil {
		t.Fatalf("expected output to stay unset")
	}
	fc, ok := cfg.FormatOverride("Commander")
	if !ok || fc.DeckSize == nil || *fc.DeckSize != 100 || fc.OpeningHand == nil || *fc.OpeningHand != 8 {
		t.Fatalf("unexpected commander override: %+v", fc)
	}
	if _, ok := cfg.FormatOverride("standard"); ok {
		t.Fatalf("expected no standard override")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[run]\nturnz = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "run.turnz") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	if got := DefaultConfigPath(); got != filepath.Join(dir, "cfg", "deckodds", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dir, "data", "deckodds", "deckodds.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}

func TestLoadConfigFormatAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	src := "[formats.EDH]\ndeck-size = 98\n\n[formats.modern]\nopening-hand = 6\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fc, ok := cfg.FormatOverride("commander")
	if !ok || fc.DeckSize == nil || *fc.DeckSize != 98 {
		t.Fatalf("expected edh table to configure commander, got %+v", fc)
	}
	fc, ok = cfg.FormatOverride("standard")
	if !ok || fc.OpeningHand == nil || *fc.OpeningHand != 6 {
		t.Fatalf("expected modern table to configure standard, got %+v", fc)
	}
}

func TestLoadConfigFormatKeyErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{name: "unknown format", src: "[formats.vintage]\ndeck-size = 60\n", want: "formats.vintage"},
		{name: "alias clash", src: "[formats.edh]\ndeck-size = 98\n\n[formats.commander]\ndeck-size = 99\n", want: "both configure commander"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.src), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
			if tc.name == "unknown format" && !errors.Is(err, format.ErrUnknownFormat) {
				t.Fatalf("expected ErrUnknownFormat, got %v", err)
			}
		})
	}
}
