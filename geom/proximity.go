package geom

import "github.com/myphysicslab/myphysicslab/vec2"

// ComputeCentroidRadius returns CentroidRadius per spec.md §3/§4.1: the
// tightest enclosing radius from the edge's centroid to any point on the
// edge, inflated by the overshoot factor so proximity tests never miss a
// genuinely close pair of edges.
func ComputeCentroidRadius(centroid vec2.Vector2, shape Shape) float64 {
	return overshoot * MaxDistanceFromCentroid(centroid, shape)
}

// IntersectionPossible is the cheap circle-vs-circle centroid test from
// spec.md §4.2: two edges cannot be touching (within swellage) unless
// their world centroid discs overlap.
func IntersectionPossible(aCentroid vec2.Vector2, aRadius float64, bCentroid vec2.Vector2, bRadius float64, swellage float64) bool {
	limit := aRadius + bRadius + swellage
	return aCentroid.DistanceTo(bCentroid) <= limit
}
