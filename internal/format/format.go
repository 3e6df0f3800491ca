// Package format maps game formats to deck shapes and dispatches the odds engine.
package format

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/deckodds/internal/model"
	"github.com/verte-zerg/deckodds/internal/odds"
)

// Format is a supported game format.
type Format int

const (
	// Unknown is the zero value and has no deck shape.
	Unknown Format = iota
	// Commander is the 99-card singleton format (also "edh").
	Commander
	// Standard is the 60-card constructed format (also "modern").
	Standard
)

var (
	// ErrUnknownFormat is returned by Parse for unrecognized names.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnsupportedFormat is returned when a format has no defined deck shape.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

var aliases = []struct {
	name   string
	format Format
}{
	{name: "commander", format: Commander},
	{name: "edh", format: Commander},
	{name: "standard", format: Standard},
	{name: "modern", format: Standard},
}

// Parse resolves a format name case-insensitively.
func Parse(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, a := range aliases {
		if a.name == name {
			return a.format, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, s, strings.Join(Names(), ", "))
}

// Names lists every accepted format name.
func Names() []string {
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		out = append(out, a.name)
	}
	return out
}

// All returns the supported formats in display order.
func All() []Format {
	return []Format{Commander, Standard}
}

// String returns the canonical name.
func (f Format) String() string {
	switch f {
	case Commander:
		return "commander"
	case Standard:
		return "standard"
	default:
		return "unknown"
	}
}

// DeckSize returns the number of cards in a library for the format.
// Commander excludes the commander itself.
func (f Format) DeckSize() int {
	switch f {
	case Commander:
		return 99
	case Standard:
		return 60
	default:
		return 0
	}
}

// OpeningHand returns the opening hand size for the format.
func (f Format) OpeningHand() int {
	switch f {
	case Commander, Standard:
		return odds.DefaultOpeningHand
	default:
		return 0
	}
}

// Selector binds a format to an explicit deck shape.
type Selector struct {
	Format      Format
	DeckSize    int
	OpeningHand int
	Workers     int
}

// NewSelector returns a Selector using the format defaults.
func NewSelector(f Format) Selector {
	return Selector{
		Format:      f,
		DeckSize:    f.DeckSize(),
		OpeningHand: f.OpeningHand(),
		Workers:     1,
	}
}

// Deck returns the deck configuration for a horizon.
func (s Selector) Deck(turns int) model.DeckConfig {
	return model.DeckConfig{
		DeckSize:    s.DeckSize,
		OpeningHand: s.OpeningHand,
		Turns:       turns,
	}
}

// Stats computes hit probabilities for every category, in input order.
func (s Selector) Stats(ctx context.Context, categories []model.Category, turns int) ([]model.CategoryStats, error) {
	if s.Format == Unknown || s.DeckSize <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Format)
	}
	out := make([]model.CategoryStats, len(categories))
	compute := func(i int) {
		c := categories[i]
		out[i] = model.CategoryStats{
			Index:         i,
			Name:          c.Name,
			Probabilities: odds.HitProbabilities(c.Size, s.DeckSize, s.OpeningHand, turns),
		}
	}

	if s.Workers <= 1 || len(categories) < 2 {
		for i := range categories {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			compute(i)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i := range categories {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			compute(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats computes per-category stats using the format's default deck shape.
func Stats(categories []model.Category, turns int, f Format) ([]model.CategoryStats, error) {
	return NewSelector(f).Stats(context.Background(), categories, turns)
}
