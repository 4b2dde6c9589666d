// Package collision implements pairwise vertex-edge and edge-edge
// proximity tests and the collision-detection driver: given two polygons
// and a step size, it produces ContactRecords describing how close (or
// how interpenetrated) their boundaries are.
package collision

import (
	"math"

	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// Status is a ContactRecord's classification, per spec.md §3.
type Status int

const (
	StatusSeparating Status = iota
	StatusContact
	StatusImminentCollision
	StatusIllegal
)

func (s Status) String() string {
	switch s {
	case StatusSeparating:
		return "separating"
	case StatusContact:
		return "contact"
	case StatusImminentCollision:
		return "imminent collision"
	case StatusIllegal:
		return "illegal"
	default:
		return "unknown"
	}
}

// Record is spec.md's ContactRecord (a.k.a. RigidBodyCollision). Once
// created for a time step it is immutable except for its Solution field
// (solved impulse or force magnitude), per spec.md §3's invariant.
type Record struct {
	PrimaryBody *body.Polygon
	NormalBody  *body.Polygon

	PrimaryEdge int // index into PrimaryBody.Edges; for a vertex contact, an edge ending at that vertex
	NormalEdge  int

	// ImpactPrimary/ImpactNormal are the impact points in world
	// coordinates on each body (they coincide at a true collision, but
	// may differ slightly for a contact within tolerance).
	ImpactPrimary vec2.Vector2
	ImpactNormal  vec2.Vector2

	// Normal is the unit normal, pointing from NormalBody into
	// PrimaryBody.
	Normal vec2.Vector2

	Distance float64 // signed; positive = separation, negative = interpenetration
	NormalVelocity float64 // signed; positive = separating

	Joint bool // bilateral constraint

	R1, R2     float64 // curvature radii; math.Inf(1) for straight edges
	Elasticity float64

	// Solution is the impulse magnitude (impulse solver) or force
	// magnitude (contact-force driver) found for this record; it is the
	// only mutable field once the record is created.
	Solution float64

	Status Status
}

// Classify sets Status from Distance and NormalVelocity against the
// owning bodies' tolerances, per spec.md §3's state list.
func (r *Record) Classify(distanceTol, velocityTol float64) {
	switch {
	case r.Distance < -distanceTol/2 && r.NormalVelocity < 0:
		r.Status = StatusIllegal
	case r.Distance <= distanceTol:
		if math.Abs(r.NormalVelocity) < velocityTol {
			r.Status = StatusContact
		} else if r.NormalVelocity < 0 {
			r.Status = StatusImminentCollision
		} else {
			r.Status = StatusSeparating
		}
	default:
		r.Status = StatusSeparating
	}
}

// SimilarTo implements spec.md §4.3's dedup predicate: same bodies/edges,
// impact points within a nearness threshold derived from curvature radii
// and distance tolerance, and normals nearly parallel.
func (r *Record) SimilarTo(other *Record, distanceTol float64) bool {
	if r.PrimaryBody != other.PrimaryBody || r.NormalBody != other.NormalBody {
		return false
	}
	if r.PrimaryEdge != other.PrimaryEdge || r.NormalEdge != other.NormalEdge {
		return false
	}
	nearness := distanceTol
	if !math.IsInf(r.R1, 0) {
		nearness += math.Abs(r.R1)
	}
	if !math.IsInf(r.R2, 0) {
		nearness += math.Abs(r.R2)
	}
	if r.ImpactPrimary.DistanceTo(other.ImpactPrimary) > nearness {
		return false
	}
	return r.Normal.Dot(other.Normal) >= 0.9
}
