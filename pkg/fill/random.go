package fill

import "math/rand/v2"

// Random is the source of randomness for a placement attempt.
type Random interface {
	// Pick returns a uniform integer in [0, n). It panics if n <= 0.
	Pick(n int) int
	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

type pcg struct{ r *rand.Rand }

// NewRandom returns a deterministic source seeded with seed.
func NewRandom(seed uint64) Random {
	return pcg{r: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

func (p pcg) Pick(n int) int                     { return p.r.IntN(n) }
func (p pcg) Shuffle(n int, swap func(i, j int)) { p.r.Shuffle(n, swap) }
