// Package amatrix builds the A-matrix shared by the impulse solver
// (package impulse) and the contact-force driver (package contact), per
// spec.md §4.4: "A[i][k] = influence(i, k, primary(i)) − influence(i, k,
// normal(i))". Body poses are assumed to be measured at the center of
// mass, so r_k/r_i below are simply impact-point-minus-pose-origin.
package amatrix

import (
	"math"

	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// Build assembles the n x n influence matrix for the given contact
// records. Infinite-mass bodies contribute zero influence, matching
// spec.md's "Infinite-mass bodies receive no update."
func Build(records []*collision.Record) [][]float64 {
	n := len(records)
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	for i, ci := range records {
		for k, ck := range records {
			a[i][k] = bodyContribution(ci, ci.PrimaryBody, ck) - bodyContribution(ci, ci.NormalBody, ck)
		}
	}
	return a
}

// bodyContribution returns the change in contact ci's relative normal
// velocity/acceleration caused by a unit impulse/force at contact ck,
// restricted to the effect transmitted through a single body (one of
// ci's two bodies). It is zero if that body isn't involved in ck at all.
func bodyContribution(ci *collision.Record, subjectBody *body.Polygon, ck *collision.Record) float64 {
	if subjectBody == nil || subjectBody.IsInfiniteMass() {
		return 0
	}

	var rk vec2.Vector2
	var signK float64
	com := vec2.Vector2{X: subjectBody.X, Y: subjectBody.Y}
	switch subjectBody {
	case ck.PrimaryBody:
		rk, signK = ck.ImpactPrimary.Sub(com), 1
	case ck.NormalBody:
		rk, signK = ck.ImpactNormal.Sub(com), -1
	default:
		return 0
	}

	var ri vec2.Vector2
	switch subjectBody {
	case ci.PrimaryBody:
		ri = ci.ImpactPrimary.Sub(com)
	case ci.NormalBody:
		ri = ci.ImpactNormal.Sub(com)
	default:
		return 0
	}

	linear := ci.Normal.Dot(ck.Normal) / subjectBody.Mass
	angular := 0.0
	if !math.IsInf(subjectBody.MomentInertia, 1) && subjectBody.MomentInertia != 0 {
		angular = (rk.Cross(ck.Normal) * ri.Cross(ci.Normal)) / subjectBody.MomentInertia
	}
	return signK * (linear + angular)
}
