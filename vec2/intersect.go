package vec2

import "math"

// ClosestPointOnSegment returns the closest point to p on the segment
// [a,b], clamped to the endpoints, plus the parametric t in [0,1].
func ClosestPointOnSegment(p, a, b Vector2) (Vector2, float64) {
	ab := b.Sub(a)
	denom := ab.LengthSq()
	if denom == 0 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t)), t
}

// DistanceToSegment is the unsigned distance from p to segment [a,b].
func DistanceToSegment(p, a, b Vector2) float64 {
	closest, _ := ClosestPointOnSegment(p, a, b)
	return p.DistanceTo(closest)
}

// SegmentIntersection finds the intersection of segments [p1,p2] and
// [p3,p4], if any. ok is false for parallel or non-overlapping segments.
func SegmentIntersection(p1, p2, p3, p4 Vector2) (point Vector2, ok bool) {
	r := p2.Sub(p1)
	s := p4.Sub(p3)
	rxs := r.Cross(s)
	if math.Abs(rxs) < 1e-12 {
		return Vector2{}, false
	}
	qp := p3.Sub(p1)
	t := qp.Cross(s) / rxs
	u := qp.Cross(r) / rxs
	if t < -1e-9 || t > 1+1e-9 || u < -1e-9 || u > 1+1e-9 {
		return Vector2{}, false
	}
	return p1.Add(r.Scale(t)), true
}
