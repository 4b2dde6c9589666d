package body

import (
	"math"

	"github.com/myphysicslab/myphysicslab/vec2"
)

// BodyToWorld maps a point in this polygon's body coordinates to world
// coordinates given its current pose.
func (p *Polygon) BodyToWorld(point vec2.Vector2) vec2.Vector2 {
	cosA, sinA := math.Cos(p.Angle), math.Sin(p.Angle)
	rotated := point.Rotate(cosA, sinA)
	return vec2.Vector2{X: rotated.X + p.X, Y: rotated.Y + p.Y}
}

// WorldToBody is the inverse of BodyToWorld.
func (p *Polygon) WorldToBody(point vec2.Vector2) vec2.Vector2 {
	rel := vec2.Vector2{X: point.X - p.X, Y: point.Y - p.Y}
	cosA, sinA := math.Cos(-p.Angle), math.Sin(-p.Angle)
	return rel.Rotate(cosA, sinA)
}

// RotateBodyToWorld rotates a body-coordinate direction vector (no
// translation) into world coordinates.
func (p *Polygon) RotateBodyToWorld(dir vec2.Vector2) vec2.Vector2 {
	cosA, sinA := math.Cos(p.Angle), math.Sin(p.Angle)
	return dir.Rotate(cosA, sinA)
}

// VelocityAtWorldPoint returns the instantaneous velocity of the material
// point of this body that is currently at worldPoint: v + ω × r.
func (p *Polygon) VelocityAtWorldPoint(worldPoint vec2.Vector2) vec2.Vector2 {
	r := worldPoint.Sub(vec2.Vector2{X: p.X, Y: p.Y})
	return vec2.Vector2{X: p.Vx, Y: p.Vy}.Add(vec2.CrossScalar(p.Omega, r))
}

// UpdateWorldCentroids refreshes each edge's cached world-coordinate
// centroid from the current pose; called once per collision-detection
// pass after the integrator writes new poses into the state vector.
func (p *Polygon) UpdateWorldCentroids() {
	for _, e := range p.Edges {
		e.WorldCentroid = p.BodyToWorld(e.Centroid)
	}
}

// WorldCentroid is this polygon's overall centroid in world coordinates.
func (p *Polygon) WorldCentroid() vec2.Vector2 {
	return p.BodyToWorld(p.CentroidBody)
}
