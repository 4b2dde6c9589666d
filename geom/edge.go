package geom

import (
	"math"

	"github.com/myphysicslab/myphysicslab/vec2"
)

// overshoot is applied to an edge's centroid radius so that proximity
// tests never miss a pair of edges that are actually close; spec.md
// §3 calls this "1.25x the max distance from centroid to any point".
const overshoot = 1.25

// Shape is the capability trait a sum-type Edge variant must implement:
// Straight and Circular are the only two implementations. Keeping this as
// an interface (rather than a type switch scattered across callers) is
// the "sum type over inheritance" design called out in spec.md §9 -- one
// level of dispatch, no class hierarchy.
type Shape interface {
	IsStraight() bool
	// DistanceToPoint returns the signed distance from p (body coords) to
	// the edge, the outward unit normal at the nearest point, and the
	// nearest point itself.
	DistanceToPoint(p vec2.Vector2) (dist float64, normal vec2.Vector2, nearest vec2.Vector2)
	NormalAtPoint(p vec2.Vector2) vec2.Vector2
	// CurvatureAtPoint is 0 for straight edges, ±1/r for circular edges;
	// sign follows OutsideIsOut.
	CurvatureAtPoint(p vec2.Vector2) float64
	StartPoint() vec2.Vector2
	EndPoint() vec2.Vector2
}

// Edge is the tagged union described in spec.md §3: common attributes
// live here, variant-specific geometry lives behind Shape. Edges are
// owned by exactly one Polygon (in package body), which holds them in an
// arena slice and addresses them by Index rather than a back-pointer.
type Edge struct {
	Index int // index within the owning polygon's Edges slice.

	StartVertex int // index into the owning polygon's Vertices
	EndVertex   int

	Centroid       vec2.Vector2 // body coordinates
	WorldCentroid  vec2.Vector2 // cached, refreshed by Polygon.UpdateWorldCentroids
	CentroidRadius float64

	NoCollide bool // part of this polygon's non-collide edge-set

	Shape Shape
}

func (e *Edge) IsStraight() bool { return e.Shape.IsStraight() }

// Straight is a line-segment edge. OutsideIsUp records which side of the
// start->end direction is outside the polygon.
type Straight struct {
	Start, End  vec2.Vector2
	OutsideIsUp bool
}

func NewStraight(start, end vec2.Vector2, outsideIsUp bool) *Straight {
	return &Straight{Start: start, End: end, OutsideIsUp: outsideIsUp}
}

func (s *Straight) IsStraight() bool        { return true }
func (s *Straight) StartPoint() vec2.Vector2 { return s.Start }
func (s *Straight) EndPoint() vec2.Vector2   { return s.End }

func (s *Straight) direction() vec2.Vector2 { return s.End.Sub(s.Start) }

// outwardNormal is the unit normal on the outside of the edge: rotating
// the edge direction by +90 deg gives the left normal; OutsideIsUp
// selects which rotation is "outside".
func (s *Straight) outwardNormal() vec2.Vector2 {
	d := s.direction().Normalize()
	left := vec2.Vector2{X: -d.Y, Y: d.X}
	if s.OutsideIsUp {
		return left
	}
	return left.Neg()
}

func (s *Straight) NormalAtPoint(vec2.Vector2) vec2.Vector2 { return s.outwardNormal() }

func (s *Straight) CurvatureAtPoint(vec2.Vector2) float64 { return 0 }

func (s *Straight) DistanceToPoint(p vec2.Vector2) (float64, vec2.Vector2, vec2.Vector2) {
	nearest, _ := vec2.ClosestPointOnSegment(p, s.Start, s.End)
	n := s.outwardNormal()
	signed := p.Sub(nearest).Dot(n)
	return signed, n, nearest
}

// Circular is a circular-arc edge. Center/Radius/Clockwise describe the
// arc in body coordinates; OutsideIsOut says whether the polygon's
// material is inside (true) or outside (false) the circle.
type Circular struct {
	Start, End   vec2.Vector2
	Center       vec2.Vector2
	Radius       float64
	Clockwise    bool
	OutsideIsOut bool
}

func NewCircular(start, end, center vec2.Vector2, clockwise, outsideIsOut bool) *Circular {
	r := start.DistanceTo(center)
	return &Circular{Start: start, End: end, Center: center, Radius: r, Clockwise: clockwise, OutsideIsOut: outsideIsOut}
}

func (c *Circular) IsStraight() bool        { return false }
func (c *Circular) StartPoint() vec2.Vector2 { return c.Start }
func (c *Circular) EndPoint() vec2.Vector2   { return c.End }

// outSign is +1 when the outward direction is away from Center,
// -1 when it's toward Center (a concave bite out of the polygon).
func (c *Circular) outSign() float64 {
	if c.OutsideIsOut {
		return 1
	}
	return -1
}

func (c *Circular) NormalAtPoint(p vec2.Vector2) vec2.Vector2 {
	dir := p.Sub(c.Center)
	if dir.LengthSq() == 0 {
		dir = c.Start.Sub(c.Center)
	}
	return dir.Normalize().Scale(c.outSign())
}

// CurvatureAtPoint returns the signed curvature 1/r, positive for a
// convex (bulging-out) arc, negative for a concave bite.
func (c *Circular) CurvatureAtPoint(vec2.Vector2) float64 {
	return c.outSign() / c.Radius
}

func (c *Circular) DistanceToPoint(p vec2.Vector2) (float64, vec2.Vector2, vec2.Vector2) {
	toP := p.Sub(c.Center)
	d := toP.Length()
	var dir vec2.Vector2
	if d == 0 {
		dir = c.Start.Sub(c.Center).Normalize()
	} else {
		dir = toP.Scale(1 / d)
	}
	nearest := c.Center.Add(dir.Scale(c.Radius))
	signed := c.outSign() * (d - c.Radius)
	normal := dir.Scale(c.outSign())
	return signed, normal, nearest
}

// MaxDistanceFromCentroid bounds how far any point of the edge can be
// from its (body-coordinate) centroid, used to derive CentroidRadius.
func MaxDistanceFromCentroid(centroid vec2.Vector2, shape Shape) float64 {
	maxD := math.Max(centroid.DistanceTo(shape.StartPoint()), centroid.DistanceTo(shape.EndPoint()))
	if c, ok := shape.(*Circular); ok {

		// the farthest point on an arc from an interior centroid can be
		// the point diametrically opposite the centroid's projection;
		// bound conservatively using center distance + radius.
		maxD = math.Max(maxD, centroid.DistanceTo(c.Center)+c.Radius)
	}
	return maxD
}
