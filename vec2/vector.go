// Package vec2 implements 2D vector algebra used throughout the physics
// core: rigid body state, edge geometry, and the LCP/impulse solvers.
package vec2

import "math"

// Vector2 is an immutable 2D vector. Operations return new values rather
// than mutating the receiver, matching the teacher's Vector.Add/Sub/Scale
// style (Physix-go's vector.Vector) but extended with rotation and cross
// product, which the geometry and rigid-body layers need directly.
type Vector2 struct {
	X, Y float64
}

// Zero is the additive identity.
var Zero = Vector2{0, 0}

func New(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scale(s float64) Vector2 { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) Neg() Vector2 { return Vector2{-v.X, -v.Y} }

// Dot is the standard inner product.
func (v Vector2) Dot(o Vector2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross is the scalar (z-component) of the 3D cross product of the two
// vectors extended with z=0.
func (v Vector2) Cross(o Vector2) float64 { return v.X*o.Y - v.Y*o.X }

// CrossScalar computes the vector s × v, i.e. a scalar angular velocity
// crossed with a position vector, as used when computing a point's
// velocity contribution from a body's angular velocity: v = ω × r.
func CrossScalar(s float64, v Vector2) Vector2 {
	return Vector2{-s * v.Y, s * v.X}
}

func (v Vector2) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vector2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return Vector2{v.X / l, v.Y / l}
}

// Perp returns the vector rotated +90 degrees: (-y, x). This is the
// outward-left normal convention used by the straight-edge geometry.
func (v Vector2) Perp() Vector2 { return Vector2{-v.Y, v.X} }

// Rotate rotates v by the rotation whose cosine/sine are given, avoiding
// repeated trig calls when many points share one body pose.
func (v Vector2) Rotate(cosA, sinA float64) Vector2 {
	return Vector2{
		X: v.X*cosA - v.Y*sinA,
		Y: v.X*sinA + v.Y*cosA,
	}
}

// RotateAngle rotates v by angle radians.
func (v Vector2) RotateAngle(angle float64) Vector2 {
	return v.Rotate(math.Cos(angle), math.Sin(angle))
}

func (v Vector2) DistanceTo(o Vector2) float64 { return v.Sub(o).Length() }

func (v Vector2) Equal(o Vector2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}
