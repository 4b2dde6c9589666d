package ode

import (
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// Force is what a ForceLaw contributes: a vector applied at a world point
// on Body, plus an optional extra torque (independent of the
// application-point lever arm), per spec.md §4.7.
type Force struct {
	Body             *body.Polygon
	ApplicationPoint vec2.Vector2
	Vector           vec2.Vector2
	Torque           float64
}

// ForceLaw is the external-collaborator abstraction of spec.md §4.7:
// gravity, springs, damping, thrusters, and scripted forces all implement
// this by returning the forces they contribute for the current state.
type ForceLaw interface {
	CalculateForces(bodies []*body.Polygon) []Force
}
