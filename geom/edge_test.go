package geom

import (
	"testing"

	"github.com/myphysicslab/myphysicslab/vec2"
	"github.com/stretchr/testify/assert"
)

func TestStraightDistanceAndNormal(t *testing.T) {
	s := NewStraight(vec2.New(0, 0), vec2.New(10, 0), true)

	assert.Equal(t, 0.0, s.CurvatureAtPoint(vec2.New(5, 0)))

	n := s.NormalAtPoint(vec2.New(5, 1))
	assert.InDelta(t, 0, n.X, 1e-12)
	assert.InDelta(t, 1, n.Y, 1e-12)

	dist, normal, nearest := s.DistanceToPoint(vec2.New(5, 2))
	assert.InDelta(t, 2, dist, 1e-12)
	assert.Equal(t, n, normal)
	assert.Equal(t, vec2.New(5, 0), nearest)
}

func TestCircularConvexArc(t *testing.T) {
	c := NewCircular(vec2.New(0, 2), vec2.New(2, 0), vec2.New(0, 0), true, true)

	assert.InDelta(t, 0.5, c.CurvatureAtPoint(vec2.New(2, 0)), 1e-12)

	n := c.NormalAtPoint(vec2.New(2, 0))
	assert.InDelta(t, 1, n.X, 1e-12)
	assert.InDelta(t, 0, n.Y, 1e-12)

	d, _, _ := c.DistanceToPoint(vec2.New(0, 0))
	assert.InDelta(t, -2, d, 1e-12)
}

func TestCircularConcaveArcSignFlips(t *testing.T) {
	c := NewCircular(vec2.New(0, 2), vec2.New(2, 0), vec2.New(0, 0), true, false)

	assert.InDelta(t, -0.5, c.CurvatureAtPoint(vec2.New(2, 0)), 1e-12)
	d, _, _ := c.DistanceToPoint(vec2.New(4, 0))
	assert.InDelta(t, -2, d, 1e-12)
}

func TestMaxDistanceFromCentroidBoundsCircular(t *testing.T) {
	c := NewCircular(vec2.New(0, 2), vec2.New(2, 0), vec2.New(0, 0), true, true)
	centroid := c.StartPoint().Add(c.EndPoint()).Scale(0.5)
	got := MaxDistanceFromCentroid(centroid, c)
	assert.GreaterOrEqual(t, got, centroid.DistanceTo(c.Center)+c.Radius-1e-9)
}
