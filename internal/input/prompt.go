package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/deckodds/internal/model"
)

// Prompt asks for categories interactively on a line-based stream.
// Invalid numbers and empty names are asked for again until valid.
func Prompt(r io.Reader, w io.Writer) ([]model.Category, error) {
	p := prompter{in: bufio.NewReader(r), out: w}
	if err := p.print("Category count: "); err != nil {
		return nil, err
	}
	count, err := p.readNumber("This number is invalid (%v), try again: ")
	if err != nil {
		return nil, err
	}
	var categories []model.Category
	for i := 0; i < count; i++ {
		if err := p.print(fmt.Sprintf("Category %d\n\tCategory name: ", i)); err != nil {
			return nil, err
		}
		name, err := p.readName()
		if err != nil {
			return nil, err
		}
		if err := p.print("\tCategory size: "); err != nil {
			return nil, err
		}
		size, err := p.readNumber("\tThis number is invalid (%v), try again: ")
		if err != nil {
			return nil, err
		}
		categories = append(categories, model.Category{Name: name, Size: size})
	}
	return categories, nil
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p prompter) print(s string) error {
	_, err := io.WriteString(p.out, s)
	return err
}

// readLine returns one line without its terminator. A final line without a
// newline is returned as-is; io.ErrUnexpectedEOF means the stream ran dry.
func (p prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", io.ErrUnexpectedEOF
			}
		} else {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p prompter) readNumber(retry string) (int, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, perr := ParseSize(line)
		if perr == nil {
			return n, nil
		}
		if err := p.print(fmt.Sprintf(retry, perr)); err != nil {
			return 0, err
		}
	}
}

func (p prompter) readName() (string, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
		if err := p.print("\tName must not be empty, try again: "); err != nil {
			return "", err
		}
	}
}
