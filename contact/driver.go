// Package contact implements the contact-force driver of spec.md §4.6:
// given the set of true contacts and joints found by one ODE evaluation,
// it assembles the same influence matrix the impulse solver uses, finds
// non-negative contact forces (and signed joint forces) that produce
// zero or non-negative relative normal acceleration, and folds the
// result back into the evaluator's derivative vector.
package contact

import (
	"fmt"
	"math"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/myphysicslab/myphysicslab/amatrix"
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/lcp"
	"github.com/myphysicslab/myphysicslab/ode"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// ExtraAccel selects spec.md §4.6 step 5's extra-acceleration policy.
type ExtraAccel int

const (
	ExtraAccelNone ExtraAccel = iota
	ExtraAccelVelocity
	ExtraAccelVelocityJoints
	ExtraAccelVelocityAndDistance
	ExtraAccelVelocityAndDistanceJoints
)

// Driver implements ode.ContactSolver.
type Driver struct {
	Solver *lcp.Solver
	Logger runtime.Logger

	ExtraAccel ExtraAccel
	// StepSize is the configurable approximate step size h used by the
	// extra-acceleration terms (default 0.025), independent of the
	// integrator's actual sub-step, per spec.md §4.6 step 5.
	StepSize float64

	// SubsetCollisions enables partitioning contacts into weakly
	// connected components (spec.md §4.6 step 4) before solving, trading
	// solve granularity for the O(n^4) cost of one big solve.
	SubsetCollisions bool

	// CheckTol is the checkForceAccel tolerance (default 1e-4).
	CheckTol float64
}

func NewDriver(seed int64) *Driver {
	return &Driver{
		Solver:     lcp.NewSolver(seed),
		ExtraAccel: ExtraAccelVelocityAndDistanceJoints,
		StepSize:   0.025,
		CheckTol:   1e-4,
	}
}

// Solve implements ode.ContactSolver: assembles A/b per component,
// solves, verifies with checkForceAccel, and folds f[i] back into change
// as accelerations on the two bodies of each record.
func (d *Driver) Solve(bodies []*body.Polygon, records []*collision.Record, change []float64, pool *ode.VarPool, h float64) error {
	if len(records) == 0 {
		return nil
	}
	step := d.StepSize
	if step <= 0 {
		step = h
	}

	groups := [][]*collision.Record{records}
	if d.SubsetCollisions {
		groups = partition(records)
	}

	for _, g := range groups {
		if err := d.solveGroup(g, change, step); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) solveGroup(records []*collision.Record, change []float64, h float64) error {
	n := len(records)
	A := amatrix.Build(records)
	b := make([]float64, n)
	joint := make([]bool, n)
	for i, r := range records {
		b[i] = d.bTerm(r, change, h)
		joint[i] = r.Joint
	}

	res, err := d.Solver.Solve(A, b, joint)
	if err != nil {
		switch err {
		case lcp.ErrTooManyIterations:
			return fmt.Errorf("contact: solver exceeded iteration cap: %w", err)
		case lcp.ErrNoStepPossible:
			return fmt.Errorf("contact: solver aborted on loop detection: %w", err)
		default:
			return fmt.Errorf("contact: solver failed: %w", err)
		}
	}

	if !checkForceAccel(res, joint, d.CheckTol) {
		msg := fmt.Sprintf("contact-force solve failed checkForceAccel(tol=%v): f=%v a=%v", d.CheckTol, res.F, res.A)
		if d.Logger != nil {
			d.Logger.Error(msg)
		}
		return fmt.Errorf("contact: %s", msg)
	}

	for i, r := range records {
		r.Solution = res.F[i]
		applyAsAcceleration(r, res.F[i], change)
	}
	return nil
}

// bTerm computes the force-independent part of contact i's relative
// normal acceleration: the external-acceleration term (from change),
// the curved-normal derivative term, and the extra-acceleration term,
// per spec.md §4.6 step 5.
func (d *Driver) bTerm(r *collision.Record, change []float64, h float64) float64 {
	ext := d.externalAccelTerm(r, change)
	deriv := d.curvatureDerivTerm(r)
	extra := d.extraAccelTerm(r, h)
	return ext + deriv + extra
}

// externalAccelTerm is n·((A1 + α1×r1 − ω1²r1) − (A2 + α2×r2 − ω2²r2)).
func (d *Driver) externalAccelTerm(r *collision.Record, change []float64) float64 {
	accel := func(b *body.Polygon, impact vec2.Vector2) vec2.Vector2 {
		if b == nil || b.IsInfiniteMass() || b.VarsIndex < 0 {
			return vec2.Zero
		}
		base := b.VarsIndex
		com := vec2.Vector2{X: b.X, Y: b.Y}
		rk := impact.Sub(com)
		linear := vec2.Vector2{X: change[base+ode.OffsetVX], Y: change[base+ode.OffsetVY]}
		alpha := change[base+ode.OffsetOmega]
		centripetal := rk.Scale(b.Omega * b.Omega)
		return linear.Add(vec2.CrossScalar(alpha, rk)).Sub(centripetal)
	}
	a1 := accel(r.PrimaryBody, r.ImpactPrimary)
	a2 := accel(r.NormalBody, r.ImpactNormal)
	return r.Normal.Dot(a1.Sub(a2))
}

// curvatureDerivTerm approximates spec.md §4.6 step 5's "derivative of
// normal" correction for curved contacts: as two bodies slide tangent to
// a curved surface, the contact normal itself rotates, contributing a
// centripetal-like term proportional to the square of their tangential
// relative velocity divided by the effective curvature radius.
func (d *Driver) curvatureDerivTerm(r *collision.Record) float64 {
	vp := r.PrimaryBody.VelocityAtWorldPoint(r.ImpactPrimary)
	vn := r.NormalBody.VelocityAtWorldPoint(r.ImpactNormal)
	vrel := vp.Sub(vn)
	tangent := vrel.Sub(r.Normal.Scale(vrel.Dot(r.Normal)))

	r1Finite := !math.IsInf(r.R1, 0)
	r2Finite := !math.IsInf(r.R2, 0)
	switch {
	case r1Finite && r2Finite:
		rsum := r.R1 + r.R2
		if rsum == 0 {
			return 0
		}
		return tangent.LengthSq() / rsum
	case r1Finite && !r2Finite:
		// straight normal body (2) in contact with a curved edge (1):
		// the straight body's spin contributes a term proportional to
		// its angular velocity squared and the curvature radius.
		return -r.R1 * r.NormalBody.Omega * r.NormalBody.Omega
	case r2Finite && !r1Finite:
		return -r.R2 * r.PrimaryBody.Omega * r.PrimaryBody.Omega
	default:
		return 0
	}
}

func (d *Driver) extraAccelTerm(r *collision.Record, h float64) float64 {
	switch d.ExtraAccel {
	case ExtraAccelNone:
		return 0
	case ExtraAccelVelocity:
		if r.Joint {
			return 0
		}
		return r.NormalVelocity / h
	case ExtraAccelVelocityJoints:
		return r.NormalVelocity / h
	case ExtraAccelVelocityAndDistance:
		if r.Joint {
			return 0
		}
		return velocityAndDistance(r, h)
	case ExtraAccelVelocityAndDistanceJoints:
		return velocityAndDistance(r, h)
	default:
		return 0
	}
}

func velocityAndDistance(r *collision.Record, h float64) float64 {
	tol := math.Min(r.PrimaryBody.DistanceTolerance, r.NormalBody.DistanceTolerance)
	x0 := r.Distance - tol/2
	return (2*r.NormalVelocity*h + x0) / (h * h)
}

// applyAsAcceleration folds a solved force magnitude back into change as
// accelerations: +f*n on the primary body, -f*n on the normal body, per
// spec.md §4.6 step 7.
func applyAsAcceleration(r *collision.Record, f float64, change []float64) {
	if f == 0 {
		return
	}
	apply := func(b *body.Polygon, impact vec2.Vector2, sign float64) {
		if b == nil || b.IsInfiniteMass() || b.VarsIndex < 0 {
			return
		}
		base := b.VarsIndex
		force := r.Normal.Scale(sign * f)
		change[base+ode.OffsetVX] += force.X / b.Mass
		change[base+ode.OffsetVY] += force.Y / b.Mass
		com := vec2.Vector2{X: b.X, Y: b.Y}
		rk := impact.Sub(com)
		change[base+ode.OffsetOmega] += rk.Cross(force) / b.MomentInertia
	}
	apply(r.PrimaryBody, r.ImpactPrimary, 1)
	apply(r.NormalBody, r.ImpactNormal, -1)
}

// checkForceAccel verifies spec.md §4.6 step 6/§7's solution check:
// every non-joint row satisfies f>=-tol, a>=-tol, and complementary
// slackness |f*a|<=tol; every joint row satisfies |a|<=tol.
func checkForceAccel(res *lcp.Result, joint []bool, tol float64) bool {
	for i := range res.F {
		if joint[i] {
			if math.Abs(res.A[i]) > tol {
				return false
			}
			continue
		}
		if res.F[i] < -tol || res.A[i] < -tol {
			return false
		}
		if math.Abs(res.F[i]*res.A[i]) > tol {
			return false
		}
	}
	return true
}

// partition splits records into weakly connected components: two
// records are connected iff they share a finite-mass body (spec.md §4.6
// step 4). Disjoint-set union over the records' body pointers.
func partition(records []*collision.Record) [][]*collision.Record {
	parent := make([]int, len(records))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	owner := make(map[*body.Polygon]int)
	for i, r := range records {
		for _, b := range []*body.Polygon{r.PrimaryBody, r.NormalBody} {
			if b == nil || b.IsInfiniteMass() {
				continue
			}
			if j, ok := owner[b]; ok {
				union(i, j)
			} else {
				owner[b] = i
			}
		}
	}

	// Group in first-seen root order so partitioning stays deterministic
	// given a fixed input order, rather than depending on map iteration.
	groupOf := make(map[int][]*collision.Record)
	var rootOrder []int
	for i, r := range records {
		root := find(i)
		if _, ok := groupOf[root]; !ok {
			rootOrder = append(rootOrder, root)
		}
		groupOf[root] = append(groupOf[root], r)
	}
	out := make([][]*collision.Record, 0, len(rootOrder))
	for _, root := range rootOrder {
		out = append(out, groupOf[root])
	}
	return out
}
