// Package body implements the rigid-body / polygon layer of the physics
// core: boundary construction from straight and circular edges, body<->
// world coordinate transforms, and mass/inertia bookkeeping.
package body

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/myphysicslab/myphysicslab/geom"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// Polygon is a rigid body: an ordered set of vertices/edges forming one or
// more closed paths, plus mass properties and world pose. Polygons own
// their vertices and edges exclusively (arena-style slices addressed by
// index), matching spec.md §9's ownership-graph guidance.
type Polygon struct {
	ID   uuid.UUID
	Name string

	Vertices []geom.Vertex
	Edges    []*geom.Edge

	// mass properties, set via setters after construction.
	Mass           float64 // may be +Inf for immovable bodies
	MomentInertia  float64 // about center of mass

	// pose, in world coordinates.
	X, Y, Angle float64
	// velocity
	Vx, Vy, Omega float64

	Elasticity        float64 // in [0,1]
	DistanceTolerance float64
	VelocityTolerance float64
	CollisionAccuracy float64 // in (0,1]

	// NonCollideBodies is the set of other bodies this one never collides
	// with; see spec.md §4.3 step 2.
	NonCollideBodies map[string]bool

	// SpecialEdgeIndex, if >= 0, marks a "wall" edge: only this edge
	// participates in collision tests with other bodies.
	SpecialEdgeIndex int

	// VarsIndex is the slot index into the simulation's state vector for
	// this body's 6-tuple [x,vx,y,vy,theta,omega]. Assigned when the body
	// is added to a simulation (package sim); -1 until then.
	VarsIndex int

	// body-coordinate bounding rectangle and centroid, computed by Finish.
	CentroidBody      vec2.Vector2
	Left, Right       float64
	Bottom, Top       float64

	finished bool

	// construction state
	pathStart   int  // vertex index where the current path began
	building    bool
}

// NewPolygon creates an empty, unfinished polygon ready for StartPath.
func NewPolygon(name string) *Polygon {
	return &Polygon{
		ID:                uuid.New(),
		Name:              name,
		Elasticity:        1.0,
		DistanceTolerance: 0.01,
		VelocityTolerance: 0.5,
		CollisionAccuracy: 0.6,
		NonCollideBodies:  make(map[string]bool),
		SpecialEdgeIndex:  -1,
		VarsIndex:         -1,
		pathStart:         -1,
	}
}

// StartPath begins a new closed boundary loop at vertex.
func (p *Polygon) StartPath(vertex vec2.Vector2) {
	if p.finished {
		panic("polygon already finished")
	}
	p.Vertices = append(p.Vertices, geom.NewVertex(vertex))
	p.pathStart = len(p.Vertices) - 1
	p.building = true
}

// AddStraightEdge appends a straight edge from the current end vertex to
// endPoint. outsideIsUp selects which side of the segment direction is
// outside the polygon's material.
func (p *Polygon) AddStraightEdge(endPoint vec2.Vector2, outsideIsUp bool) {
	start := p.currentEndVertex()
	shape := geom.NewStraight(p.Vertices[start].Position, endPoint, outsideIsUp)
	p.appendEdge(start, endPoint, shape)
}

// AddCircularEdge appends a circular-arc edge from the current end vertex
// to endPoint, about center, in the given rotational sense.
func (p *Polygon) AddCircularEdge(endPoint, center vec2.Vector2, clockwise, outsideIsOut bool) {
	start := p.currentEndVertex()
	startPt := p.Vertices[start].Position
	r1 := startPt.DistanceTo(center)
	r2 := endPoint.DistanceTo(center)
	if math.Abs(r1-r2) > 1e-6 {
		panic(fmt.Sprintf("circular edge endpoints not equidistant from center: %v vs %v", r1, r2))
	}
	shape := geom.NewCircular(startPt, endPoint, center, clockwise, outsideIsOut)
	p.appendEdge(start, endPoint, shape)
}

func (p *Polygon) currentEndVertex() int {
	if !p.building {
		panic("StartPath must be called before adding edges")
	}
	return len(p.Vertices) - 1
}

func (p *Polygon) appendEdge(start int, endPoint vec2.Vector2, shape geom.Shape) {
	p.Vertices = append(p.Vertices, geom.NewVertex(endPoint))
	end := len(p.Vertices) - 1

	e := &geom.Edge{
		Index:       len(p.Edges),
		StartVertex: start,
		EndVertex:   end,
		Shape:       shape,
	}
	p.Edges = append(p.Edges, e)

	p.Vertices[start].NextEdge = e.Index
	p.Vertices[end].PrevEdge = e.Index
}

// ClosePath closes the current boundary loop back to its starting vertex,
// replacing the dangling final vertex with the path's first vertex so the
// invariant "edge's start vertex equals previous edge's end vertex" holds
// all the way around, including across the seam.
func (p *Polygon) ClosePath() {
	if !p.building {
		panic("no open path to close")
	}
	last := len(p.Vertices) - 1
	if last == p.pathStart {
		panic("empty path cannot be closed")
	}
	first := p.pathStart

	lastEdge := p.Edges[len(p.Edges)-1]
	lastEdge.EndVertex = first
	p.Vertices[first].PrevEdge = lastEdge.Index
	// drop the duplicate final vertex we added in appendEdge.
	p.Vertices = p.Vertices[:last]

	p.building = false
	p.pathStart = -1
}

// Finish freezes the polygon: computes each edge's body-coordinate
// centroid and centroid-radius, records edge indices, and computes the
// overall bounding rectangle in body coordinates.
func (p *Polygon) Finish() {
	if p.building {
		panic("path not closed before Finish")
	}
	if len(p.Edges) == 0 {
		panic("polygon has no edges")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for i, e := range p.Edges {
		e.Index = i
		start := e.Shape.StartPoint()
		end := e.Shape.EndPoint()
		centroid := start.Add(end).Scale(0.5)
		e.Centroid = centroid
		e.CentroidRadius = geom.ComputeCentroidRadius(centroid, e.Shape)

		for _, pt := range []vec2.Vector2{start, end} {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
		if c, ok := e.Shape.(*geom.Circular); ok {
			minX = math.Min(minX, c.Center.X-c.Radius)
			maxX = math.Max(maxX, c.Center.X+c.Radius)
			minY = math.Min(minY, c.Center.Y-c.Radius)
			maxY = math.Max(maxY, c.Center.Y+c.Radius)
		}
	}

	p.Left, p.Right = minX, maxX
	p.Bottom, p.Top = minY, maxY
	p.CentroidBody = vec2.Vector2{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	p.finished = true
	p.UpdateWorldCentroids()
}

// SetMass sets the body's mass; use math.Inf(1) for an immovable body.
func (p *Polygon) SetMass(m float64) { p.Mass = m }

// SetMomentAboutCM sets the moment of inertia about the center of mass.
func (p *Polygon) SetMomentAboutCM(i float64) { p.MomentInertia = i }

func (p *Polygon) SetElasticity(e float64) {
	if e < 0 || e > 1 {
		panic(fmt.Sprintf("elasticity %v out of [0,1]", e))
	}
	p.Elasticity = e
}

func (p *Polygon) SetDistanceTol(d float64) { p.DistanceTolerance = d }
func (p *Polygon) SetVelocityTol(v float64) { p.VelocityTolerance = v }

func (p *Polygon) SetCollisionAccuracy(a float64) {
	if a <= 0 || a > 1 {
		panic(fmt.Sprintf("collision accuracy %v out of (0,1]", a))
	}
	p.CollisionAccuracy = a
}

// IsInfiniteMass reports whether this body never moves under force.
func (p *Polygon) IsInfiniteMass() bool { return math.IsInf(p.Mass, 1) }

// AddNonCollide marks other as a body this one never collides with.
func (p *Polygon) AddNonCollide(other *Polygon) {
	p.NonCollideBodies[other.Name] = true
}

func (p *Polygon) DoesNotCollideWith(other *Polygon) bool {
	return p.NonCollideBodies[other.Name]
}

// SetSpecialEdge designates edge index i as the sole collidable edge of a
// wall-like body.
func (p *Polygon) SetSpecialEdge(i int) {
	if i < 0 || i >= len(p.Edges) {
		panic(fmt.Sprintf("edge index %d out of range", i))
	}
	p.SpecialEdgeIndex = i
}

// CollidableEdges returns the edges that participate in collision
// detection: either just the special edge, or every non-excluded edge.
func (p *Polygon) CollidableEdges() []*geom.Edge {
	if p.SpecialEdgeIndex >= 0 {
		return []*geom.Edge{p.Edges[p.SpecialEdgeIndex]}
	}
	out := make([]*geom.Edge, 0, len(p.Edges))
	for _, e := range p.Edges {
		if !e.NoCollide {
			out = append(out, e)
		}
	}
	return out
}

// GetWidth/GetHeight/GetLeftBody/... implement the body-frame accessors
// exercised by spec.md §8.1 invariant 7.
func (p *Polygon) GetWidth() float64      { return p.Right - p.Left }
func (p *Polygon) GetHeight() float64     { return p.Top - p.Bottom }
func (p *Polygon) GetLeftBody() float64   { return p.Left }
func (p *Polygon) GetRightBody() float64  { return p.Right }
func (p *Polygon) GetTopBody() float64    { return p.Top }
func (p *Polygon) GetBottomBody() float64 { return p.Bottom }

// MinHeight approximates the body's minimum extent from its centroid,
// used by the collision driver's pair speed-limit estimate (spec.md §4.3
// step 2).
func (p *Polygon) MinHeight() float64 {
	return math.Min(p.GetWidth(), p.GetHeight()) / 2
}
