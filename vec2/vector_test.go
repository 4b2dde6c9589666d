package vec2

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(3, -1)

	assert.Equal(t, New(4, 1), a.Add(b))
	assert.Equal(t, New(-2, 3), a.Sub(b))
	assert.Equal(t, New(2, 4), a.Scale(2))
	assert.InDelta(t, 1, a.Dot(New(1, 0)), 1e-12)
}

func TestCrossAndCrossScalar(t *testing.T) {
	a := New(1, 0)
	b := New(0, 1)
	assert.InDelta(t, 1, a.Cross(b), 1e-12)

	r := New(2, 0)
	v := CrossScalar(3, r)
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 6, v.Y, 1e-12)
}

func TestRotate(t *testing.T) {
	v := New(1, 0)
	rotated := v.RotateAngle(math.Pi / 2)
	assert.InDelta(t, 0, rotated.X, 1e-9)
	assert.InDelta(t, 1, rotated.Y, 1e-9)
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Zero, Zero.Normalize())
}

func TestClosestPointOnSegment(t *testing.T) {
	p, tt := ClosestPointOnSegment(New(5, 1), New(0, 0), New(10, 0))
	assert.Equal(t, New(5, 0), p)
	assert.InDelta(t, 0.5, tt, 1e-12)

	p2, t2 := ClosestPointOnSegment(New(-5, 1), New(0, 0), New(10, 0))
	assert.Equal(t, New(0, 0), p2)
	assert.InDelta(t, 0, t2, 1e-12)
}

func TestSegmentIntersection(t *testing.T) {
	pt, ok := SegmentIntersection(New(0, 0), New(2, 2), New(0, 2), New(2, 0))
	assert.True(t, ok)
	assert.InDelta(t, 1, pt.X, 1e-9)
	assert.InDelta(t, 1, pt.Y, 1e-9)

	_, ok2 := SegmentIntersection(New(0, 0), New(1, 0), New(0, 1), New(1, 1))
	assert.False(t, ok2)
}
