package geom

import "github.com/myphysicslab/myphysicslab/vec2"

// Vertex is a point in a polygon's body coordinates, plus indices of the
// two edges that meet there. Vertices are owned by exactly one polygon;
// Prev/Next index into that polygon's Edges slice.
type Vertex struct {
	Position vec2.Vector2
	PrevEdge int
	NextEdge int
}

func NewVertex(p vec2.Vector2) Vertex {
	return Vertex{Position: p, PrevEdge: -1, NextEdge: -1}
}
