// Package odds computes hypergeometric "at least one hit" probabilities.
package odds

import "math"

// DefaultOpeningHand is the number of cards drawn before turn 1.
const DefaultOpeningHand = 7

// FallingFactorial returns a*(a-1)*...*(a-k+1) as a float64 running product.
// The empty product (k <= 0) is exactly 1. A non-positive factor makes the
// whole product 0, which covers a < k.
func FallingFactorial(a, k int) float64 {
	res := 1.0
	for i := 0; i < k; i++ {
		term := a - i
		if term <= 0 {
			return 0
		}
		res *= float64(term)
	}
	return res
}

// Feasible reports whether the deck can support the category and horizon.
func Feasible(categorySize, deckSize, openingHand, turns int) bool {
	if categorySize < 0 || deckSize < 0 || openingHand < 0 || turns < 0 {
		return false
	}
	return turns+openingHand <= deckSize && categorySize <= deckSize
}

// HitProbabilities returns, for each turn t in 0..turns, the probability of
// holding at least one of categorySize qualifying cards after
// openingHand+t draws from a deck of deckSize cards. The result is nil when
// the configuration is not feasible.
func HitProbabilities(categorySize, deckSize, openingHand, turns int) []float64 {
	if !Feasible(categorySize, deckSize, openingHand, turns) {
		return nil
	}
	out := make([]float64, 0, turns+1)
	den := FallingFactorial(deckSize, categorySize)
	if math.IsInf(den, 0) {
		for n := openingHand; n <= openingHand+turns; n++ {
			out = append(out, 1-zeroHitRatio(deckSize, categorySize, n))
		}
		return out
	}
	inv := 1 / den
	for n := openingHand; n <= openingHand+turns; n++ {
		out = append(out, 1-FallingFactorial(deckSize-n, categorySize)*inv)
	}
	return out
}

// zeroHitRatio is the term-wise form of FallingFactorial(N-n, K)/FallingFactorial(N, K),
// used once the denominator no longer fits a float64.
func zeroHitRatio(deckSize, categorySize, drawn int) float64 {
	res := 1.0
	for i := 0; i < categorySize; i++ {
		num := deckSize - drawn - i
		if num <= 0 {
			return 0
		}
		res *= float64(num) / float64(deckSize-i)
	}
	return res
}
