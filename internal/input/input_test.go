package input

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/deckodds/internal/model"
)

func TestReadLines(t *testing.T) {
	got, err := ReadLines(strings.NewReader("Lands\n37\nRemoval\n8\n"))
	if err != nil {
		t.Fatalf("read lines: %v", err)
	}
	want := []model.Category{{Name: "Lands", Size: 37}, {Name: "Removal", Size: 8}}
	assertCategories(t, got, want)
}

func TestReadLinesCRLF(t *testing.T) {
	got, err := ReadLines(strings.NewReader("Card Draw\r\n10\r\n"))
	if err != nil {
		t.Fatalf("read lines: %v", err)
	}
	assertCategories(t, got, []model.Category{{Name: "Card Draw", Size: 10}})
}

func TestReadLinesEmpty(t *testing.T) {
	got, err := ReadLines(strings.NewReader(""))
	if err != nil {
		t.Fatalf("read lines: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no categories, got %v", got)
	}
}

func TestReadLinesErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{name: "odd line count", input: "Lands\n37\nRemoval\n", want: ErrInvalidFormat},
		{name: "non numeric size", input: "Lands\nmany\n", want: ErrInvalidNumber},
		{name: "negative size", input: "Lands\n-3\n", want: ErrInvalidNumber},
		{name: "empty name", input: "\n3\n", want: ErrInvalidFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadLines(strings.NewReader(tc.input))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestReadTOML(t *testing.T) {
	src := `
[[category]]
name = "Lands"
size = 37

[[category]]
name = "Ramp"
size = 12
`
	got, err := ReadTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("read toml: %v", err)
	}
	assertCategories(t, got, []model.Category{{Name: "Lands", Size: 37}, {Name: "Ramp", Size: 12}})
}

func TestReadTOMLMissingSize(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("[[category]]\nname = \"Lands\"\n"))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestReadYAML(t *testing.T) {
	src := `categories:
  - name: Removal
    size: 8
  - name: Lands
    size: 37
`
	got, err := ReadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	assertCategories(t, got, []model.Category{{Name: "Removal", Size: 8}, {Name: "Lands", Size: 37}})
}

func TestReadYAMLNegativeSize(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("categories:\n  - name: A\n    size: -1\n"))
	if !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"categories":      "Lands\n37\n",
		"categories.toml": "[[category]]\nname = \"Lands\"\nsize = 37\n",
		"categories.yaml": "categories:\n  - name: Lands\n    size: 37\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		got, err := LoadFile(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		assertCategories(t, got, []model.Category{{Name: "Lands", Size: 37}})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestPromptRetriesInvalidNumbers(t *testing.T) {
	in := strings.NewReader("two\n2\nLands\nlots\n37\n\nRemoval\n8\n")
	var out bytes.Buffer
	got, err := Prompt(in, &out)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	assertCategories(t, got, []model.Category{{Name: "Lands", Size: 37}, {Name: "Removal", Size: 8}})
	text := out.String()
	if strings.Count(text, "This number is invalid") != 2 {
		t.Fatalf("expected two retry prompts, got output:\n%s", text)
	}
	if !strings.Contains(text, "Name must not be empty") {
		t.Fatalf("expected empty-name retry, got output:\n%s", text)
	}
}

func TestPromptUnexpectedEOF(t *testing.T) {
	_, err := Prompt(strings.NewReader("1\nLands\n"), io.Discard)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestPromptHugeCountStopsAtEOF(t *testing.T) {
	_, err := Prompt(strings.NewReader("100000000000000\n"), io.Discard)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod("stdin"); err != nil || m != Stdin {
		t.Fatalf("stdin: got %v, %v", m, err)
	}
	if m, err := ParseMethod("file"); err != nil || m != File {
		t.Fatalf("file: got %v, %v", m, err)
	}
	if _, err := ParseMethod("socket"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestLoadStdin(t *testing.T) {
	got, err := Load(Stdin, "", strings.NewReader("1\nDraw\n10\n"), io.Discard)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertCategories(t, got, []model.Category{{Name: "Draw", Size: 10}})
}

func assertCategories(t *testing.T, got, want []model.Category) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("category %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
