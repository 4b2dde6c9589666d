// Package forcelaw implements spec.md §4.7's force-law abstraction: the
// built-in Gravity/Spring/Damping laws the spec names as examples, plus
// (in lua.go) a scriptable implementation.
package forcelaw

import (
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/ode"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// Gravity applies a uniform downward acceleration g to every finite-mass
// body, at its center of mass.
type Gravity struct {
	G float64 // magnitude, e.g. 9.8
}

func NewGravity(g float64) *Gravity { return &Gravity{G: g} }

func (grav *Gravity) CalculateForces(bodies []*body.Polygon) []ode.Force {
	out := make([]ode.Force, 0, len(bodies))
	for _, b := range bodies {
		if b.IsInfiniteMass() {
			continue
		}
		com := vec2.Vector2{X: b.X, Y: b.Y}
		out = append(out, ode.Force{
			Body:             b,
			ApplicationPoint: com,
			Vector:           vec2.Vector2{X: 0, Y: -grav.G * b.Mass},
		})
	}
	return out
}

// PotentialEnergy is m*g*y summed over finite-mass bodies, matching the
// sign convention of CalculateForces (higher y, more potential energy).
func (grav *Gravity) PotentialEnergy(bodies []*body.Polygon) float64 {
	pe := 0.0
	for _, b := range bodies {
		if b.IsInfiniteMass() {
			continue
		}
		pe += b.Mass * grav.G * b.Y
	}
	return pe
}

// Spring connects two bodies (or one body and a fixed world point, when
// BodyB is nil) by an attachment point on each, exerting a force
// proportional to the spring's stretch past RestLength.
type Spring struct {
	BodyA, BodyB       *body.Polygon
	AttachA, AttachB   vec2.Vector2 // body-coordinates on BodyA; world-coordinates when BodyB is nil
	RestLength         float64
	Stiffness          float64
}

func (s *Spring) endpoints() (pa, pb vec2.Vector2) {
	pa = s.BodyA.BodyToWorld(s.AttachA)
	if s.BodyB == nil {
		pb = s.AttachB
	} else {
		pb = s.BodyB.BodyToWorld(s.AttachB)
	}
	return
}

func (s *Spring) CalculateForces(bodies []*body.Polygon) []ode.Force {
	pa, pb := s.endpoints()
	delta := pb.Sub(pa)
	length := delta.Length()
	if length < 1e-12 {
		return nil
	}
	dir := delta.Scale(1 / length)
	magnitude := s.Stiffness * (length - s.RestLength)
	force := dir.Scale(magnitude)

	out := make([]ode.Force, 0, 2)
	if !s.BodyA.IsInfiniteMass() {
		out = append(out, ode.Force{Body: s.BodyA, ApplicationPoint: pa, Vector: force})
	}
	if s.BodyB != nil && !s.BodyB.IsInfiniteMass() {
		out = append(out, ode.Force{Body: s.BodyB, ApplicationPoint: pb, Vector: force.Neg()})
	}
	return out
}

func (s *Spring) PotentialEnergy([]*body.Polygon) float64 {
	pa, pb := s.endpoints()
	stretch := pa.DistanceTo(pb) - s.RestLength
	return 0.5 * s.Stiffness * stretch * stretch
}

// Damping exerts a linear drag force -c*v and an angular drag torque
// -c*omega on every finite-mass body, at its center of mass.
type Damping struct {
	Coefficient float64
}

func (d *Damping) CalculateForces(bodies []*body.Polygon) []ode.Force {
	out := make([]ode.Force, 0, len(bodies))
	for _, b := range bodies {
		if b.IsInfiniteMass() {
			continue
		}
		com := vec2.Vector2{X: b.X, Y: b.Y}
		out = append(out, ode.Force{
			Body:             b,
			ApplicationPoint: com,
			Vector:           vec2.Vector2{X: -d.Coefficient * b.Vx, Y: -d.Coefficient * b.Vy},
			Torque:           -d.Coefficient * b.Omega,
		})
	}
	return out
}
