package lcp

import (
	"math"

	"github.com/myphysicslab/myphysicslab/randgen"
)

// Solver is the Baraff pivot-method LCP core of spec.md §4.5. Solve
// allocates fresh f, a and membership slices on every call; no workspace
// is carried over from one call to the next.
type Solver struct {
	Eps         float64 // small-positive tolerance, default 1e-10
	SingularTol float64 // diagonal-minimum threshold, default 2e-3
	Policy      Policy
	Rand        *randgen.LCG

	n      int
	A      [][]float64
	b      []float64
	joint  []bool
	f      []float64
	a      []float64
	member []membership

	// residualFailed records whether any fdirection solve's residual
	// stayed above 1e-7 through the full retry ladder (spec.md §4.5 step
	// a), surfaced by Solve as ErrGeneral.
	residualFailed bool
}

func NewSolver(seed int64) *Solver {
	return &Solver{
		Eps:         1e-10,
		SingularTol: 2e-3,
		Policy:      PolicyHybrid,
		Rand:        randgen.NewLCG(seed),
	}
}

// Solve runs the pivot algorithm to completion (or until loop detection
// aborts it) and returns the best-so-far f/a.
func (s *Solver) Solve(A [][]float64, b []float64, joint []bool) (*Result, error) {
	n := len(b)
	s.n, s.A, s.b, s.joint = n, A, b, joint
	s.f = make([]float64, n)
	s.a = append([]float64(nil), b...)
	s.member = make([]membership, n)
	s.residualFailed = false

	type snapshot struct {
		pattern string
		d       int
	}
	var seen []snapshot
	iterations := 0
	loopDetected := false
	tooManyIterations := false

outer:
	for {
		d, found := s.chooseNext()
		if !found {
			break
		}
		iterations++
		if iterations > 1000*(n+1) {
			tooManyIterations = true
			break
		}

		if !joint[d] && s.a[d] >= -s.Eps {
			s.member[d] = notClamped
			continue
		}
		if joint[d] && math.Abs(s.a[d]) <= s.Eps {
			s.member[d] = notClamped
			continue
		}

		wasRejected := s.member[d] == rejected
		deferred := s.driveToZero(d)
		if deferred {
			s.member[d] = rejected
		} else if wasRejected {
			// reset reject-again bookkeeping: nothing to track beyond
			// membership here, since Solve is single-shot per call.
			_ = wasRejected
		}

		if s.allPlaced() {
			pat := s.patternString()
			for _, snap := range seen {
				if snap.pattern == pat && snap.d == d {
					loopDetected = true
					break outer
				}
			}
			seen = append(seen, snapshot{pattern: pat, d: d})
		}
	}

	result := &Result{F: s.f, A: s.a, Iterations: iterations, LoopDetected: loopDetected}

	// spec.md §4.5 step 7/h: distinguish why the outer loop stopped short
	// of a clean solution, so callers can act on the specific failure
	// instead of a generic feasibility check.
	switch {
	case tooManyIterations:
		return result, ErrTooManyIterations
	case loopDetected:
		return result, ErrNoStepPossible
	case s.residualFailed:
		return result, ErrGeneral
	default:
		return result, nil
	}
}

func (s *Solver) allPlaced() bool {
	for _, m := range s.member {
		if m == untreated {
			return false
		}
	}
	return true
}

func (s *Solver) patternString() string {
	buf := make([]byte, s.n)
	for i, m := range s.member {
		buf[i] = byte('0' + m)
	}
	return string(buf)
}

// chooseNext implements spec.md §4.5 step 1's default hybrid policy:
// joints first (random order), then non-joints by most-negative a[i],
// finally rejected contacts whose |a| exceeds 100*eps.
func (s *Solver) chooseNext() (int, bool) {
	switch s.Policy {
	case PolicyPreOrdered:
		for i := 0; i < s.n; i++ {
			if s.member[i] == untreated {
				return i, true
			}
		}
	case PolicyRandom:
		order := s.randomOrder()
		for _, i := range order {
			if s.member[i] == untreated {
				return i, true
			}
		}
	case PolicyMinAccel:
		best, bestVal := -1, math.Inf(1)
		for i := 0; i < s.n; i++ {
			if s.member[i] == untreated && s.a[i] < bestVal {
				best, bestVal = i, s.a[i]
			}
		}
		if best >= 0 {
			return best, true
		}
	default: // PolicyHybrid
		jointOrder := s.randomOrder()
		for _, i := range jointOrder {
			if s.joint[i] && s.member[i] == untreated {
				return i, true
			}
		}
		best, bestVal := -1, math.Inf(1)
		for i := 0; i < s.n; i++ {
			if !s.joint[i] && s.member[i] == untreated && s.a[i] < bestVal {
				best, bestVal = i, s.a[i]
			}
		}
		if best >= 0 {
			return best, true
		}
	}

	for i := 0; i < s.n; i++ {
		if s.member[i] == rejected && math.Abs(s.a[i]) > 100*s.Eps {
			return i, true
		}
	}
	return 0, false
}

func (s *Solver) randomOrder() []int {
	order := make([]int, s.n)
	for i := range order {
		order[i] = i
	}
	s.Rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// clampedIndices returns the current members of C, in index order.
func (s *Solver) clampedIndices() []int {
	out := make([]int, 0, s.n)
	for i, m := range s.member {
		if m == clamped {
			out = append(out, i)
		}
	}
	return out
}

// subMatrix builds A restricted to rows/cols in idx.
func (s *Solver) subMatrix(idx []int) [][]float64 {
	m := make([][]float64, len(idx))
	for r, i := range idx {
		row := make([]float64, len(idx))
		for c, j := range idx {
			row[c] = s.A[i][j]
		}
		m[r] = row
	}
	return m
}

// isSingularWith reports whether A restricted to C ∪ extra would be
// singular, per spec.md §4.5's precheck.
func (s *Solver) isSingularWith(extra ...int) bool {
	idx := append(append([]int(nil), s.clampedIndices()...), extra...)
	if len(idx) == 0 {
		return false
	}
	_, singular := solveLinear(s.subMatrix(idx), make([]float64, len(idx)), s.SingularTol)
	return singular
}

// driveToZero implements spec.md §4.5's drive-to-zero(d): repeatedly step
// f/a along the direction that increases f[d] (or, for a joint whose a[d]
// would move away from zero that way, decreases it) until a[d] reaches
// zero (or d is deferred). Returns true if d must be deferred to R.
func (s *Solver) driveToZero(d int) (deferred bool) {
	if s.isSingularWith(d) {
		if s.member[d] != rejected {
			return true
		}
	}

	maxIter := 1000 * (s.n + 1)
	lastZeroStepAt := -1

	for iter := 0; iter < maxIter; iter++ {
		deltaF, deltaA, ok := s.fdirection(d)
		if !ok {
			return true
		}
		if s.joint[d] && s.a[d]*deltaA[d] > 0 {
			for i := range deltaF {
				deltaF[i], deltaA[i] = -deltaF[i], -deltaA[i]
			}
		}

		step, j, ok := s.maxStep(d, deltaF, deltaA)
		if !ok {
			if absf(s.f[d]) < 10*s.Eps {
				return true
			}
			// raise the tolerance and retry; every failed attempt doubles
			// s.Eps again (the raised value stays on the Solver for later
			// calls) until |f[d]| < 10*eps and d is deferred.
			s.Eps *= 2
			continue
		}

		for i := 0; i < s.n; i++ {
			s.f[i] += step * deltaF[i]
			s.a[i] += step * deltaA[i]
		}

		if math.Abs(step) < 1e-12 {
			if lastZeroStepAt == j {
				// flip-flop: defer j to break the cycle.
				if s.member[j] == clamped || s.member[j] == notClamped {
					s.member[j] = rejected
				}
				continue
			}
			lastZeroStepAt = j
		} else {
			lastZeroStepAt = -1
		}

		if j == d {
			break
		}

		if s.member[j] == notClamped {
			if s.isSingularWith(d, j) && s.member[j] != rejected {
				s.member[j] = rejected
				continue
			}
		}

		if s.member[j] == clamped {
			s.member[j] = notClamped
		} else {
			s.member[j] = clamped
		}
	}

	if absf(s.f[d]) > s.Eps {
		s.member[d] = clamped
	} else {
		s.member[d] = notClamped
	}
	return false
}

// fdirection solves the reduced system A_CC x = -A_C,d to find how the
// clamped forces must change to absorb a unit increase at d (spec.md
// §4.5 step a). Returns the full Δf/Δa vectors.
func (s *Solver) fdirection(d int) (deltaF, deltaA []float64, ok bool) {
	c := s.clampedIndices()
	deltaF = make([]float64, s.n)
	deltaF[d] = 1

	if len(c) > 0 {
		rhs := make([]float64, len(c))
		for i, ci := range c {
			rhs[i] = -s.A[ci][d]
		}
		x, singular := solveLinear(s.subMatrix(c), rhs, s.SingularTol)
		if singular {
			return nil, nil, false
		}
		x = s.retrySolveOnBadResidual(c, x, rhs, s.SingularTol)
		for i, ci := range c {
			deltaF[ci] = x[i]
		}
	}

	deltaA = make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		sum := 0.0
		for j := 0; j < s.n; j++ {
			if deltaF[j] != 0 {
				sum += s.A[i][j] * deltaF[j]
			}
		}
		deltaA[i] = sum
	}
	return deltaF, deltaA, true
}

// retrySolveOnBadResidual implements spec.md §4.5 step a: if the solve's
// residual |A*x - rhs|_inf exceeds 1e-7, retry with a progressively looser
// singular-pivot threshold (each retry tolerates smaller pivots instead of
// declaring the system singular) down to a floor of 1e-17, keeping the best
// x seen. If no retry gets under 1e-7, flags residualFailed so Solve
// surfaces ErrGeneral instead of silently returning an inaccurate x.
func (s *Solver) retrySolveOnBadResidual(idx []int, x, rhs []float64, startTol float64) []float64 {
	m := s.subMatrix(idx)
	res := residualNorm(m, x, rhs)
	if res <= 1e-7 {
		return x
	}

	best, bestRes := x, res
	for tol := startTol / 10; tol > 1e-17; tol /= 10 {
		xr, singular := solveLinear(m, rhs, tol)
		if singular {
			continue
		}
		r := residualNorm(m, xr, rhs)
		if r < bestRes {
			best, bestRes = xr, r
		}
		if bestRes <= 1e-7 {
			break
		}
	}

	if bestRes > 1e-7 {
		s.residualFailed = true
	}
	return best
}

// maxStep implements spec.md §4.5 step b: the largest step before some
// contact's state would become infeasible.
func (s *Solver) maxStep(d int, deltaF, deltaA []float64) (step float64, limiting int, ok bool) {
	best := math.Inf(1)
	limiting = d
	found := false

	consider := func(candidate float64, idx int) {
		if candidate >= -1e-15 && candidate < best {
			best, limiting, found = candidate, idx, true
		}
	}

	if deltaA[d] != 0 {
		consider(-s.a[d]/deltaA[d], d)
	}

	for i := 0; i < s.n; i++ {
		switch s.member[i] {
		case clamped:
			if !s.joint[i] && deltaF[i] < 0 {
				consider(-s.f[i]/deltaF[i], i)
			}
		case notClamped:
			if deltaA[i] < 0 {
				consider(-s.a[i]/deltaA[i], i)
			}
		}
	}

	if !found || best > 1e5 {
		return 0, d, false
	}
	return best, limiting, true
}
