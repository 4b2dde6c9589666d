package randgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCGDeterministicForSameSeed(t *testing.T) {
	a := NewLCG(42)
	b := NewLCG(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestLCGZeroSeedRemapped(t *testing.T) {
	g := NewLCG(0)
	assert.NotEqual(t, uint64(0), g.Next())
}

func TestLCGFloat64InUnitRange(t *testing.T) {
	g := NewLCG(7)
	for i := 0; i < 100; i++ {
		f := g.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestLCGIntnInRange(t *testing.T) {
	g := NewLCG(9)
	for i := 0; i < 100; i++ {
		n := g.Intn(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
}

func TestLCGShufflePermutes(t *testing.T) {
	g := NewLCG(3)
	vals := []int{0, 1, 2, 3, 4}
	g.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })

	seen := make(map[int]bool)
	for _, v := range vals {
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}
