package body

import (
	"math"

	"github.com/myphysicslab/myphysicslab/vec2"
)

// NewBlock builds a centered rectangular polygon of the given width and
// height, the idiom used throughout spec.md's §8.3 scenarios ("a block of
// width w and height h"). It mirrors the teacher's MakeRectangleRigidBody
// factory, adapted to emit a real edge-loop polygon instead of a single
// AABB record.
func NewBlock(name string, width, height float64) *Polygon {
	p := NewPolygon(name)
	hw, hh := width/2, height/2
	p.StartPath(vec2.New(-hw, -hh))
	p.AddStraightEdge(vec2.New(hw, -hh), false)
	p.AddStraightEdge(vec2.New(hw, hh), false)
	p.AddStraightEdge(vec2.New(-hw, hh), false)
	p.AddStraightEdge(vec2.New(-hw, -hh), false)
	p.ClosePath()
	p.Finish()
	return p
}

// NewWall builds an infinite-mass horizontal wall: a thin rectangle whose
// top edge is the sole collidable ("special") edge, matching spec.md §3's
// "wall-like bodies where only one edge participates in collision".
func NewWall(name string, width, thickness float64) *Polygon {
	p := NewBlock(name, width, thickness)
	p.SetMass(math.Inf(1))
	p.SetMomentAboutCM(math.Inf(1))
	// the top edge (index 2 in NewBlock's CCW winding starting at
	// bottom-left) faces the half-plane of movable bodies above the wall.
	p.SetSpecialEdge(2)
	return p
}

// NewDisc builds a circular polygon approximated by a single full-circle
// edge pair is not representable (a circle needs >=2 vertices to close a
// loop with distinct start/end points per edge), so a disc is built from
// two semicircular arcs.
func NewDisc(name string, radius float64) *Polygon {
	p := NewPolygon(name)
	center := vec2.New(0, 0)
	top := vec2.New(0, radius)
	bottom := vec2.New(0, -radius)
	p.StartPath(top)
	p.AddCircularEdge(bottom, center, true, true)
	p.AddCircularEdge(top, center, true, true)
	p.ClosePath()
	p.Finish()
	return p
}

// NewArcPolygon builds the two-edge shape used in spec.md §8.3 scenario 2:
// one circular edge from (0,2) to (2,0) about the origin, closed by a
// straight edge back to the start.
func NewArcPolygon(name string) *Polygon {
	p := NewPolygon(name)
	start := vec2.New(0, 2)
	end := vec2.New(2, 0)
	origin := vec2.New(0, 0)
	p.StartPath(start)
	p.AddCircularEdge(end, origin, true, true)
	p.AddStraightEdge(start, false)
	p.ClosePath()
	p.Finish()
	return p
}
