package collision

import (
	"fmt"
	"math"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/geom"
)

// Connector is the bilateral-constraint abstraction of spec.md §4.7: a
// joint or rope that contributes its own contact records each step.
type Connector interface {
	AddCollision(records []*Record, time, accuracy float64) []*Record
	Align()
	Bodies() (a, b *body.Polygon)
}

// FindCollisions implements spec.md §4.3: for each unordered pair of
// bodies, test their collidable edges against each other, append any
// produced contact records, then add connector-generated contacts.
//
// It panics (a fatal, per spec.md §7) if any infinite-mass body has
// nonzero velocity.
func FindCollisions(bodies []*body.Polygon, connectors []Connector, stepSize float64, logger runtime.Logger) []*Record {
	for _, b := range bodies {
		if b.IsInfiniteMass() && (b.Vx != 0 || b.Vy != 0 || b.Omega != 0) {
			panic(fmt.Sprintf("infinite-mass body %q has nonzero velocity", b.Name))
		}
	}

	var out []*Record
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if a.DoesNotCollideWith(b) || b.DoesNotCollideWith(a) {
				continue
			}
			if a.IsInfiniteMass() && b.IsInfiniteMass() {
				continue
			}
			if !pairMayCollide(a, b, stepSize) {
				continue
			}
			out = append(out, collideBodies(a, b, logger)...)
		}
	}

	for _, c := range connectors {
		a, b := c.Bodies()
		accuracy := a.CollisionAccuracy
		if b != nil {
			accuracy *= b.CollisionAccuracy
		}
		out = c.AddCollision(out, 0, accuracy)
	}

	return out
}

// pairMayCollide implements the broad-phase skip of spec.md §4.3 step 2:
// bodies moving slower than the estimated pair speed limit are only
// tested further if their bounding discs overlap.
func pairMayCollide(a, b *body.Polygon, stepSize float64) bool {
	if stepSize <= 0 {
		return true
	}
	limit := 2 * (a.MinHeight() + b.MinHeight()) / stepSize
	relSpeed := relativeSpeedEstimate(a, b)
	if relSpeed >= limit {
		return true
	}
	ca, cb := a.WorldCentroid(), b.WorldCentroid()
	swell := 2 * (a.DistanceTolerance + b.DistanceTolerance)
	radiusA := boundingRadius(a)
	radiusB := boundingRadius(b)
	return ca.DistanceTo(cb) <= radiusA+radiusB+swell
}

func relativeSpeedEstimate(a, b *body.Polygon) float64 {
	dvx := a.Vx - b.Vx
	dvy := a.Vy - b.Vy
	return math.Sqrt(dvx*dvx + dvy*dvy)
}

func boundingRadius(p *body.Polygon) float64 {
	maxR := 0.0
	for _, e := range p.Edges {
		if e.CentroidRadius > maxR {
			maxR = e.CentroidRadius
		}
	}
	return maxR + p.CentroidBody.Length()
}

// collideBodies iterates all pairs of collidable edges between a and b,
// skipping pairs whose world centroid discs can't overlap, per spec.md
// §4.3 step 3.
func collideBodies(a, b *body.Polygon, logger runtime.Logger) []*Record {
	var out []*Record
	swellage := 2 * (a.DistanceTolerance + b.DistanceTolerance)

	for _, ea := range a.CollidableEdges() {
		for _, eb := range b.CollidableEdges() {
			if !edgeDiscsOverlap(ea, eb, swellage) {
				continue
			}
			recs := TestCollision(ea, a, eb, b, swellage/2)
			out = append(out, recs...)
			for _, r := range recs {
				if r.Status == StatusIllegal && logger != nil {
					logger.Warn("illegal (interpenetrating) contact between %q and %q", a.Name, b.Name)
				}
			}
		}
	}
	return out
}

func edgeDiscsOverlap(ea, eb *geom.Edge, swellage float64) bool {
	return geom.IntersectionPossible(ea.WorldCentroid, ea.CentroidRadius, eb.WorldCentroid, eb.CentroidRadius, swellage)
}
