// Package randgen implements the linear-congruential generator spec.md
// §5/§9 calls for: a small, seedable PRNG so that contact ordering (joint
// order in the hybrid LCP policy, the random policy, and serial-focus
// selection) is reproducible across runs and across language ports of
// this engine, unlike math/rand's generator.
package randgen

// LCG is a multiplicative congruential generator: seed_{n+1} = (a*seed_n
// + c) mod m, using the classic minimal-standard constants (Park-Miller).
type LCG struct {
	state uint64
}

const (
	lcgA = 16807
	lcgC = 0
	lcgM = 2147483647 // 2^31 - 1, a Mersenne prime
)

// NewLCG seeds the generator. A zero seed is remapped to 1, since 0 is a
// fixed point of a pure multiplicative congruential recurrence.
func NewLCG(seed int64) *LCG {
	s := uint64(seed) % lcgM
	if s == 0 {
		s = 1
	}
	return &LCG{state: s}
}

func (g *LCG) Seed(seed int64) {
	s := uint64(seed) % lcgM
	if s == 0 {
		s = 1
	}
	g.state = s
}

// Next returns the next raw integer in [1, m-1].
func (g *LCG) Next() uint64 {
	g.state = (lcgA*g.state + lcgC) % lcgM
	return g.state
}

// Float64 returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Next()) / float64(lcgM)
}

// Intn returns a value in [0, n).
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		panic("randgen: Intn called with n <= 0")
	}
	return int(g.Next() % uint64(n))
}

// Shuffle permutes indices [0,n) in place using the Fisher-Yates
// algorithm driven by this generator.
func (g *LCG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		swap(i, j)
	}
}
