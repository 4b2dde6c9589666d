// Package impulse implements collision resolution (spec.md §4.4): given a
// set of simultaneous contact/collision records, it computes impulse
// magnitudes that reverse relative normal velocities with the prescribed
// per-contact elasticity, then applies them to body velocities.
package impulse

import (
	"math"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/myphysicslab/myphysicslab/amatrix"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/lcp"
	"github.com/myphysicslab/myphysicslab/randgen"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// Policy selects one of spec.md §4.4's four collision-handling policies.
type Policy int

const (
	Simultaneous Policy = iota
	Hybrid
	SerialGrouped
	SerialSeparate
	SerialGroupedLastPass
	SerialSeparateLastPass
)

// Resolver applies one of the collision-handling policies using the
// shared LCP core.
type Resolver struct {
	Solver *lcp.Solver
	Policy Policy
	Rand   *randgen.LCG
	EpsV   float64 // velocity tolerance for focus selection, default 1e-5
	Logger runtime.Logger
}

func NewResolver(seed int64, policy Policy) *Resolver {
	return &Resolver{
		Solver: lcp.NewSolver(seed),
		Policy: policy,
		Rand:   randgen.NewLCG(seed),
		EpsV:   1e-5,
	}
}

// Resolve computes and applies impulses for records, returning whether
// any non-trivial impulse was applied (spec.md §6.1's handle_collisions).
func (r *Resolver) Resolve(records []*collision.Record) bool {
	if len(records) == 0 {
		return false
	}
	switch r.Policy {
	case Simultaneous:
		return r.solveAndApply(records, trueElasticities(records))
	case Hybrid:
		return r.resolveHybrid(records)
	case SerialGrouped, SerialGroupedLastPass:
		return r.resolveSerial(records, true, r.Policy == SerialGroupedLastPass)
	default:
		return r.resolveSerial(records, false, r.Policy == SerialSeparateLastPass)
	}
}

func trueElasticities(records []*collision.Record) []float64 {
	e := make([]float64, len(records))
	for i, rec := range records {
		if rec.Joint {
			e[i] = 0
		} else {
			e[i] = rec.Elasticity
		}
	}
	return e
}

// solveAndApply builds A/b for records (with elasticities e), solves the
// LCP, and applies the resulting impulses to body velocities. Returns
// whether any impulse exceeded the solver's tolerance.
func (r *Resolver) solveAndApply(records []*collision.Record, e []float64) bool {
	n := len(records)
	A := amatrix.Build(records)
	b := make([]float64, n)
	joint := make([]bool, n)
	for i, rec := range records {
		b[i] = (1 + e[i]) * collision.CurrentNormalVelocity(rec)
		joint[i] = rec.Joint
	}

	res, err := r.Solver.Solve(A, b, joint)
	if err != nil {
		if r.Logger != nil {
			switch err {
			case lcp.ErrTooManyIterations:
				r.Logger.Error("impulse solve exceeded iteration cap, discarding result: %v", err)
			case lcp.ErrNoStepPossible:
				r.Logger.Error("impulse solve aborted on loop detection, discarding result: %v", err)
			default:
				r.Logger.Error("impulse solve failed: %v", err)
			}
		}
		return false
	}

	applied := false
	for i, rec := range records {
		j := res.F[i]
		if math.Abs(j) > r.Solver.Eps {
			applied = true
		}
		rec.Solution = j
		applyImpulse(rec, j)
	}
	return applied
}

// applyImpulse mutates body velocities per spec.md §4.4: Δv = ±j*n/m,
// Δω = ±j*(r×n)/I, primary positive, normal negative.
func applyImpulse(r *collision.Record, j float64) {
	if j == 0 {
		return
	}
	if p := r.PrimaryBody; !p.IsInfiniteMass() {
		com := vec2.Vector2{X: p.X, Y: p.Y}
		rp := r.ImpactPrimary.Sub(com)
		p.Vx += j * r.Normal.X / p.Mass
		p.Vy += j * r.Normal.Y / p.Mass
		p.Omega += j * rp.Cross(r.Normal) / p.MomentInertia
	}
	if nb := r.NormalBody; !nb.IsInfiniteMass() {
		com := vec2.Vector2{X: nb.X, Y: nb.Y}
		rn := r.ImpactNormal.Sub(com)
		nb.Vx -= j * r.Normal.X / nb.Mass
		nb.Vy -= j * r.Normal.Y / nb.Mass
		nb.Omega -= j * rn.Cross(r.Normal) / nb.MomentInertia
	}
}

func sharesBody(a, b *collision.Record) bool {
	return a.PrimaryBody == b.PrimaryBody || a.PrimaryBody == b.NormalBody ||
		a.NormalBody == b.PrimaryBody || a.NormalBody == b.NormalBody
}

// violation returns how far record is from satisfying its constraint
// right now: for a joint, |v|; for a non-joint, max(0, -v).
func violation(r *collision.Record) float64 {
	v := collision.CurrentNormalVelocity(r)
	if r.Joint {
		return math.Abs(v)
	}
	if v < 0 {
		return -v
	}
	return 0
}

// buildHybridGroup returns the focus contact plus spec.md §4.4 policy 2's
// group: joints chain transitively across shared bodies (a joint reachable
// only through another joint still belongs), while a non-joint contact
// joins the group only if it shares a body directly with the focus contact
// itself, not with the rest of the expanded joint chain.
func buildHybridGroup(records []*collision.Record, focus int) []*collision.Record {
	inGroup := map[int]bool{focus: true}
	group := []*collision.Record{records[focus]}

	for changed := true; changed; {
		changed = false
		for i, rec := range records {
			if inGroup[i] || !rec.Joint {
				continue
			}
			for j := range inGroup {
				if sharesBody(rec, records[j]) {
					inGroup[i] = true
					group = append(group, rec)
					changed = true
					break
				}
			}
		}
	}

	for i, rec := range records {
		if inGroup[i] || rec.Joint {
			continue
		}
		if sharesBody(rec, records[focus]) {
			inGroup[i] = true
			group = append(group, rec)
		}
	}

	return group
}

// resolveHybrid implements spec.md §4.4 policy 2.
func (r *Resolver) resolveHybrid(records []*collision.Record) bool {
	applied := false
	eps := r.EpsV
	iterations := 0
	maxIterations := 20 * len(records)

	for {
		focus, worst := -1, eps
		for i, rec := range records {
			if v := violation(rec); v > worst {
				focus, worst = i, v
			}
		}
		if focus < 0 {
			break
		}

		group := buildHybridGroup(records, focus)

		if r.solveAndApply(group, trueElasticities(group)) {
			applied = true
		}

		iterations++
		if iterations%maxIterations == 0 {
			eps *= 2 // loop-panic: relax tolerance when progress stalls.
		}
		if iterations > 1000*(len(records)+1) {
			break
		}
	}

	// final pass: clean up residual tiny negative velocities at e=0.
	r.solveAndApply(records, zeroElasticities(records))
	return applied
}

func zeroElasticities(records []*collision.Record) []float64 {
	return make([]float64, len(records))
}

// resolveSerial implements spec.md §4.4 policy 3: focus on one
// (randomly chosen) violating contact at a time. grouped includes
// connected joints in the focus subset; separate solves only the focus.
func (r *Resolver) resolveSerial(records []*collision.Record, grouped, lastPass bool) bool {
	applied := false
	iterations := 0
	maxIterations := 1000 * (len(records) + 1)

	for iterations < maxIterations {
		iterations++
		violators := make([]int, 0, len(records))
		for i, rec := range records {
			if violation(rec) > r.EpsV {
				violators = append(violators, i)
			}
		}
		if len(violators) == 0 {
			break
		}
		focus := violators[r.Rand.Intn(len(violators))]

		var group []*collision.Record
		if grouped {
			group = []*collision.Record{records[focus]}
			for i, rec := range records {
				if i != focus && rec.Joint && sharesBody(rec, records[focus]) {
					group = append(group, rec)
				}
			}
		} else {
			group = []*collision.Record{records[focus]}
		}

		if r.solveAndApply(group, trueElasticities(group)) {
			applied = true
		}
	}

	if lastPass {
		r.solveAndApply(records, zeroElasticities(records))
	}
	return applied
}
