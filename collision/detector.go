package collision

import (
	"math"

	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/geom"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// relativeNormalVelocity computes the signed velocity of separation along
// normal (pointing from bodyN into bodyP) at the two impact points.
func relativeNormalVelocity(bodyP, bodyN *body.Polygon, pointP, pointN, normal vec2.Vector2) float64 {
	vp := bodyP.VelocityAtWorldPoint(pointP)
	vn := bodyN.VelocityAtWorldPoint(pointN)
	return vp.Sub(vn).Dot(normal)
}

func curvatureRadius(e *geom.Edge, bodyPoint vec2.Vector2) float64 {
	c := e.Shape.CurvatureAtPoint(bodyPoint)
	if c == 0 {
		return math.Inf(1)
	}
	return 1 / c
}

// vertexAgainstEdge tests a single world-space vertex (owned by
// vertexBody) against a candidate edge (owned by edgeBody), returning a
// contact record when the vertex's signed distance from the edge is at
// most distanceTol (there is no lower bound: deeper vertices are returned
// too, for Classify to judge) and, for a straight edge, the vertex
// projects onto the segment rather than past its endpoints.
//
// vertexIsPrimary controls whether the vertex's owner becomes the
// record's PrimaryBody (true) or NormalBody (false); the normal always
// points from NormalBody into PrimaryBody.
func vertexAgainstEdge(vertexWorld vec2.Vector2, vertexBody *body.Polygon, vertexEdge int,
	edge *geom.Edge, edgeBody *body.Polygon, vertexIsPrimary bool, distanceTol float64) *Record {

	bodyPoint := edgeBody.WorldToBody(vertexWorld)
	dist, normalBody, nearestBody := edge.Shape.DistanceToPoint(bodyPoint)
	if dist > distanceTol {
		return nil
	}
	// a vertex beyond a straight edge's endpoints is farther from its
	// clamped nearest point than its distance along the normal.
	if bodyPoint.DistanceTo(nearestBody) > math.Abs(dist)+1e-9 {
		return nil
	}

	normalWorld := edgeBody.RotateBodyToWorld(normalBody)
	nearestWorld := edgeBody.BodyToWorld(nearestBody)
	r := curvatureRadius(edge, bodyPoint)

	rec := &Record{
		NormalEdge: edge.Index,
	}
	var primaryPoint, normalPoint vec2.Vector2
	if vertexIsPrimary {
		rec.PrimaryBody = vertexBody
		rec.NormalBody = edgeBody
		rec.PrimaryEdge = vertexEdge
		primaryPoint = vertexWorld
		normalPoint = nearestWorld
		rec.Normal = normalWorld // points from edgeBody(normal) into vertexBody(primary)
		rec.R1 = math.Inf(1)
		rec.R2 = r
	} else {
		rec.PrimaryBody = edgeBody
		rec.NormalBody = vertexBody
		rec.PrimaryEdge = edge.Index
		rec.NormalEdge = vertexEdge
		primaryPoint = nearestWorld
		normalPoint = vertexWorld
		rec.Normal = normalWorld.Scale(-1)
		rec.R1 = r
		rec.R2 = math.Inf(1)
	}
	rec.ImpactPrimary = primaryPoint
	rec.ImpactNormal = normalPoint
	rec.Distance = dist
	rec.NormalVelocity = relativeNormalVelocity(rec.PrimaryBody, rec.NormalBody, rec.ImpactPrimary, rec.ImpactNormal, rec.Normal)
	rec.Elasticity = math.Min(vertexBody.Elasticity, edgeBody.Elasticity)
	return rec
}

// testStraightStraight tests two straight edges by checking each edge's
// endpoints against the other edge (spec.md §4.2: "straight-edge tests
// use projection onto the edge's line and cap to the segment's endpoints
// for vertex contacts").
func testStraightStraight(eA *geom.Edge, bodyA *body.Polygon, eB *geom.Edge, bodyB *body.Polygon, distanceTol float64) []*Record {
	var out []*Record
	sA := eA.Shape.(*geom.Straight)
	sB := eB.Shape.(*geom.Straight)

	candidates := []struct {
		point           vec2.Vector2
		ownerBody       *body.Polygon
		ownerEdge       int
		targetEdge      *geom.Edge
		targetBody      *body.Polygon
		pointIsPrimary  bool
	}{
		{bodyA.BodyToWorld(sA.Start), bodyA, eA.Index, eB, bodyB, true},
		{bodyA.BodyToWorld(sA.End), bodyA, eA.Index, eB, bodyB, true},
		{bodyB.BodyToWorld(sB.Start), bodyB, eB.Index, eA, bodyA, false},
		{bodyB.BodyToWorld(sB.End), bodyB, eB.Index, eA, bodyA, false},
	}
	for _, c := range candidates {
		if rec := vertexAgainstEdge(c.point, c.ownerBody, c.ownerEdge, c.targetEdge, c.targetBody, c.pointIsPrimary, distanceTol); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// testCircularCircular implements spec.md §4.2's "center-distance minus
// summed radii, signed by concavity" rule.
func testCircularCircular(eA *geom.Edge, bodyA *body.Polygon, eB *geom.Edge, bodyB *body.Polygon, distanceTol float64) []*Record {
	cA := eA.Shape.(*geom.Circular)
	cB := eB.Shape.(*geom.Circular)

	centerA := bodyA.BodyToWorld(cA.Center)
	centerB := bodyB.BodyToWorld(cB.Center)
	d := centerA.DistanceTo(centerB)

	signA := 1.0
	if !cA.OutsideIsOut {
		signA = -1.0
	}
	signB := 1.0
	if !cB.OutsideIsOut {
		signB = -1.0
	}

	var dist float64
	var dir vec2.Vector2 // world direction from B's contact to A's contact, i.e. along which normal points
	switch {
	case signA > 0 && signB > 0:
		// two convex bulges: classic circle-circle.
		dist = d - cA.Radius - cB.Radius
		if d > 1e-12 {
			dir = centerA.Sub(centerB).Scale(1 / d)
		} else {
			dir = vec2.New(1, 0)
		}
	case signA < 0 && signB < 0:
		// A's material surrounds a hole that B's hole must fit inside of;
		// not a realistic pair for finite bodies, treat as non-contact.
		return nil
	default:
		// one convex disc inside one concave socket: distance is how far
		// the disc's boundary is from the socket boundary, i.e.
		// |largerRadius - smallerRadius - d| in the signed sense used by
		// spec.md's "curvature-aware" contact test.
		var discRadius, socketRadius float64
		var discCenter, socketCenter vec2.Vector2
		var discIsA bool
		if signA > 0 {
			discRadius, discCenter, discIsA = cA.Radius, centerA, true
			socketRadius, socketCenter = cB.Radius, centerB
		} else {
			discRadius, discCenter = cB.Radius, centerB
			socketRadius, socketCenter = cA.Radius, centerA
		}
		dist = socketRadius - discRadius - d
		if d > 1e-12 {
			dir = discCenter.Sub(socketCenter).Scale(1 / d)
		} else {
			dir = vec2.New(1, 0)
		}
		if discIsA {
			dir = dir.Scale(-1)
		}
	}

	if dist > distanceTol {
		return nil
	}

	ptA := centerA.Add(dir.Scale(cA.Radius * signA))
	ptB := centerB.Sub(dir.Scale(cB.Radius * signB))

	rec := &Record{
		PrimaryBody: bodyA, NormalBody: bodyB,
		PrimaryEdge: eA.Index, NormalEdge: eB.Index,
		ImpactPrimary: ptA, ImpactNormal: ptB,
		Normal:   dir,
		Distance: dist,
		R1:       signA * cA.Radius,
		R2:       signB * cB.Radius,
	}
	rec.NormalVelocity = relativeNormalVelocity(bodyA, bodyB, ptA, ptB, dir)
	rec.Elasticity = math.Min(bodyA.Elasticity, bodyB.Elasticity)
	return []*Record{rec}
}

// testStraightCircular tests a straight edge against a circular edge by
// projecting the circle's center onto the segment.
func testStraightCircular(straightEdge *geom.Edge, straightBody *body.Polygon, circEdge *geom.Edge, circBody *body.Polygon, straightIsPrimary bool, distanceTol float64) []*Record {
	s := straightEdge.Shape.(*geom.Straight)
	c := circEdge.Shape.(*geom.Circular)

	centerWorld := circBody.BodyToWorld(c.Center)
	centerInStraightBody := straightBody.WorldToBody(centerWorld)
	nearestBody, _ := vec2.ClosestPointOnSegment(centerInStraightBody, s.Start, s.End)
	nearestWorld := straightBody.BodyToWorld(nearestBody)

	sign := 1.0
	if !c.OutsideIsOut {
		sign = -1.0
	}
	// Distance is measured along the straight edge's own outward normal,
	// for sign consistency with the vertex-edge tests.
	_, normalBody, _ := s.DistanceToPoint(nearestBody)
	normalWorld := straightBody.RotateBodyToWorld(normalBody)
	toCenterDist := centerWorld.Sub(nearestWorld).Dot(normalWorld)
	dist := toCenterDist - sign*c.Radius

	if dist > distanceTol {
		return nil
	}

	circPoint := centerWorld.Sub(normalWorld.Scale(sign * c.Radius))

	rec := &Record{}
	if straightIsPrimary {
		rec.PrimaryBody, rec.NormalBody = straightBody, circBody
		rec.PrimaryEdge, rec.NormalEdge = straightEdge.Index, circEdge.Index
		rec.ImpactPrimary, rec.ImpactNormal = nearestWorld, circPoint
		rec.Normal = normalWorld.Scale(-1)
		rec.R1, rec.R2 = math.Inf(1), sign*c.Radius
	} else {
		rec.PrimaryBody, rec.NormalBody = circBody, straightBody
		rec.PrimaryEdge, rec.NormalEdge = circEdge.Index, straightEdge.Index
		rec.ImpactPrimary, rec.ImpactNormal = circPoint, nearestWorld
		rec.Normal = normalWorld
		rec.R1, rec.R2 = sign*c.Radius, math.Inf(1)
	}
	rec.Distance = dist
	rec.NormalVelocity = relativeNormalVelocity(rec.PrimaryBody, rec.NormalBody, rec.ImpactPrimary, rec.ImpactNormal, rec.Normal)
	rec.Elasticity = math.Min(straightBody.Elasticity, circBody.Elasticity)
	return []*Record{rec}
}

// CurrentNormalVelocity recomputes r's relative normal velocity from the
// bodies' live velocity state, rather than the value captured when the
// record was created. The impulse solver calls this between rounds of a
// multi-pass policy, after earlier rounds have already mutated body
// velocities; the impact points themselves stay fixed for the step.
func CurrentNormalVelocity(r *Record) float64 {
	return relativeNormalVelocity(r.PrimaryBody, r.NormalBody, r.ImpactPrimary, r.ImpactNormal, r.Normal)
}

// TestCollision is the edge-edge proximity test of spec.md §4.2: given two
// edges on two bodies, produce zero or more contact records.
func TestCollision(eA *geom.Edge, bodyA *body.Polygon, eB *geom.Edge, bodyB *body.Polygon, distanceTol float64) []*Record {
	aStraight := eA.IsStraight()
	bStraight := eB.IsStraight()

	var recs []*Record
	switch {
	case aStraight && bStraight:
		recs = testStraightStraight(eA, bodyA, eB, bodyB, distanceTol)
	case !aStraight && !bStraight:
		recs = testCircularCircular(eA, bodyA, eB, bodyB, distanceTol)
	case aStraight && !bStraight:
		recs = testStraightCircular(eA, bodyA, eB, bodyB, true, distanceTol)
	default:
		recs = testStraightCircular(eB, bodyB, eA, bodyA, false, distanceTol)
	}

	for _, r := range recs {
		r.Classify(math.Max(bodyA.DistanceTolerance, bodyB.DistanceTolerance), math.Min(bodyA.VelocityTolerance, bodyB.VelocityTolerance))
	}
	return recs
}
