// Package model defines shared data structures.
package model

import "time"

// Category is a named subset of a deck sized by card count.
type Category struct {
	Name string
	Size int
}

// DeckConfig fixes the deck shape and horizon for one computation.
type DeckConfig struct {
	DeckSize    int
	OpeningHand int
	Turns       int
}

// CategoryStats pairs a category with its per-turn hit probabilities.
// Index points back into the category list the stats were computed from.
// Probabilities[t] covers OpeningHand+t draws; it is empty when the
// deck cannot support the category or horizon.
type CategoryStats struct {
	Index         int
	Name          string
	Probabilities []float64
}

// RunConfig defines options for a single stats run.
type RunConfig struct {
	Input        string
	Format       string
	Turns        int
	CategoryFile string
	Output       string
	Plot         bool
	TUI          bool
	Save         bool
	Workers      int
	Simulate     int
}

// Run is a computed run as persisted in history.
type Run struct {
	ID         int64
	CreatedAt  time.Time
	Format     string
	Deck       DeckConfig
	Categories []Category
	Stats      []CategoryStats
}

// RunSummary summarizes a stored run for listing.
type RunSummary struct {
	ID         int64
	CreatedAt  time.Time
	Format     string
	DeckSize   int
	Turns      int
	Categories int
}
