package lcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleContactSeparating(t *testing.T) {
	s := NewSolver(0)
	A := [][]float64{{1}}
	b := []float64{2}
	res, err := s.Solve(A, b, []bool{false})
	require.NoError(t, err)
	assert.InDelta(t, 0, res.F[0], 1e-9)
	assert.InDelta(t, 2, res.A[0], 1e-9)
}

func TestSingleContactResting(t *testing.T) {
	s := NewSolver(0)
	A := [][]float64{{1}}
	b := []float64{-9.8}
	res, err := s.Solve(A, b, []bool{false})
	require.NoError(t, err)
	assert.InDelta(t, 9.8, res.F[0], 1e-6)
	assert.InDelta(t, 0, res.A[0], 1e-6)
}

func TestSingleJoint(t *testing.T) {
	s := NewSolver(0)
	A := [][]float64{{2}}
	b := []float64{-9.8}
	res, err := s.Solve(A, b, []bool{true})
	require.NoError(t, err)
	assert.InDelta(t, 0, res.A[0], 1e-6)
	assert.InDelta(t, 4.9, res.F[0], 1e-6)
}

func TestTwoContactsIndependent(t *testing.T) {
	s := NewSolver(0)
	A := [][]float64{
		{1, 0},
		{0, 1},
	}
	b := []float64{-5, -3}
	res, err := s.Solve(A, b, []bool{false, false})
	require.NoError(t, err)
	assert.InDelta(t, 5, res.F[0], 1e-6)
	assert.InDelta(t, 3, res.F[1], 1e-6)
	assert.InDelta(t, 0, res.A[0], 1e-6)
	assert.InDelta(t, 0, res.A[1], 1e-6)
}

func TestRetrySolveOnBadResidualNoOpWhenAlreadyGood(t *testing.T) {
	s := &Solver{A: [][]float64{{2}}}
	out := s.retrySolveOnBadResidual([]int{0}, []float64{3}, []float64{6}, 2e-3)
	assert.Equal(t, []float64{3}, out)
	assert.False(t, s.residualFailed)
}

func TestRetrySolveOnBadResidualFlagsFailureOnSingularMatrix(t *testing.T) {
	s := &Solver{A: [][]float64{{0}}}
	out := s.retrySolveOnBadResidual([]int{0}, []float64{5}, []float64{1}, 2e-3)
	assert.Equal(t, []float64{5}, out, "no retry can solve a truly singular system, so the best-so-far guess is kept")
	assert.True(t, s.residualFailed)
}

func TestComplementarySlackness(t *testing.T) {
	s := NewSolver(1)
	A := [][]float64{
		{2, 1},
		{1, 2},
	}
	b := []float64{-3, 4}
	res, err := s.Solve(A, b, []bool{false, false})
	require.NoError(t, err)
	for i := range res.F {
		assert.True(t, res.F[i] >= -1e-8)
		assert.True(t, res.A[i] >= -1e-8)
		assert.InDelta(t, 0, res.F[i]*res.A[i], 1e-6)
	}
}
