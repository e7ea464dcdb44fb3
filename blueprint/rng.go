package blueprint

import "math/rand"

// RNG wraps math/rand.Rand with draw counting. Only the minimap draws from
// it; the engine core stays deterministic.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Chance returns true with probability p. p <= 0 never fires, p >= 1 always does.
func (r *RNG) Chance(p float64) bool {
	r.pos++
	return r.src.Float64() < p
}

// Pick returns a uniformly chosen element of items. items must be non-empty.
func (r *RNG) Pick(items []string) string {
	r.pos++
	return items[r.src.Intn(len(items))]
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
