package game

import "math/rand/v2"

// DefaultDieSides is used when Get is called with a non-positive max.
const DefaultDieSides = 6

// RandomSource produces uniform integers in [1, max].
type RandomSource interface {
	Get(max int) int
}

// MathRandom draws from the process-wide math/rand generator. It is safe for
// concurrent use.
type MathRandom struct{}

func (MathRandom) Get(max int) int {
	if max <= 0 {
		max = DefaultDieSides
	}
	return rand.IntN(max) + 1
}
