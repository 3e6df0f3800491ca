// Package simulate estimates hit probabilities by shuffling decks.
package simulate

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/deckodds/internal/model"
	"github.com/verte-zerg/deckodds/internal/odds"
)

// Simulator draws from shuffled decks.
type Simulator struct {
	rnd *rand.Rand
}

// New returns a Simulator seeded with the current time.
func New() *Simulator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Simulator with a fixed seed.
func NewSeeded(seed int64) *Simulator {
	return &Simulator{rnd: rand.New(rand.NewSource(seed))}
}

// HitRates estimates, for each turn, the share of trials in which at least
// one category card was drawn. Infeasible configurations return nil.
func (s *Simulator) HitRates(categorySize, deckSize, openingHand, turns, trials int) []float64 {
	if trials <= 0 || !odds.Feasible(categorySize, deckSize, openingHand, turns) {
		return nil
	}
	// firstHits[n] counts trials whose first category card is the n-th draw (1-based).
	firstHits := make([]int, deckSize+1)
	positions := make([]int, deckSize)
	for i := range positions {
		positions[i] = i
	}
	for trial := 0; trial < trials; trial++ {
		first := s.firstHit(positions, categorySize)
		if first > 0 {
			firstHits[first]++
		}
	}

	out := make([]float64, 0, turns+1)
	hits := 0
	for n := 1; n <= openingHand; n++ {
		hits += firstHits[n]
	}
	for t := 0; t <= turns; t++ {
		if t > 0 {
			hits += firstHits[openingHand+t]
		}
		out = append(out, float64(hits)/float64(trials))
	}
	return out
}

// firstHit shuffles the deck and returns the 1-based draw index of the first
// category card, or 0 when the category is empty. Cards 0..categorySize-1
// belong to the category.
func (s *Simulator) firstHit(positions []int, categorySize int) int {
	if categorySize == 0 {
		return 0
	}
	s.rnd.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})
	for i, card := range positions {
		if card < categorySize {
			return i + 1
		}
	}
	return 0
}

// Stats estimates hit rates for every category, in input order.
func (s *Simulator) Stats(categories []model.Category, deck model.DeckConfig, trials int) []model.CategoryStats {
	out := make([]model.CategoryStats, 0, len(categories))
	for i, c := range categories {
		out = append(out, model.CategoryStats{
			Index:         i,
			Name:          c.Name,
			Probabilities: s.HitRates(c.Size, deck.DeckSize, deck.OpeningHand, deck.Turns, trials),
		})
	}
	return out
}
