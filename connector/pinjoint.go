// Package connector implements spec.md §4.7's connector abstraction:
// bilateral constraints ("joints") that contribute their own contact
// records to collision detection instead of being discovered by edge
// proximity tests.
package connector

import (
	"math"

	"github.com/google/uuid"
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// PinJoint pins a point on BodyA to a point on BodyB (or to a fixed
// world point, when BodyB is nil) so the two attachment points always
// coincide: a hinge with no rotational constraint. Two bilateral
// records are produced per evaluation, one along each world axis,
// because pinning a 2D point takes two scalar constraints.
type PinJoint struct {
	ID               uuid.UUID
	BodyA, BodyB     *body.Polygon
	AttachA, AttachB vec2.Vector2 // body-coordinates on BodyA; world-coordinates when BodyB is nil

	// fixedAnchor is a lazily-built infinite-mass stand-in body used as
	// NormalBody when BodyB is nil (pinned to a fixed world point).
	fixedAnchor *body.Polygon
}

func NewPinJoint(a, b *body.Polygon, attachA, attachB vec2.Vector2) *PinJoint {
	return &PinJoint{ID: uuid.New(), BodyA: a, BodyB: b, AttachA: attachA, AttachB: attachB}
}

func (j *PinJoint) Bodies() (a, b *body.Polygon) { return j.BodyA, j.BodyB }

func (j *PinJoint) worldPoints() (pa, pb vec2.Vector2) {
	pa = j.BodyA.BodyToWorld(j.AttachA)
	if j.BodyB == nil {
		pb = j.AttachB
	} else {
		pb = j.BodyB.BodyToWorld(j.AttachB)
	}
	return
}

// AddCollision appends the joint's two axis-aligned bilateral records to
// list, per spec.md §4.7.
func (j *PinJoint) AddCollision(list []*collision.Record, time, accuracy float64) []*collision.Record {
	pa, pb := j.worldPoints()

	for _, normal := range []vec2.Vector2{vec2.New(1, 0), vec2.New(0, 1)} {
		rec := &collision.Record{
			PrimaryBody:   j.BodyA,
			NormalBody:    j.normalBody(),
			ImpactPrimary: pa,
			ImpactNormal:  pb,
			Normal:        normal,
			Distance:      pa.Sub(pb).Dot(normal),
			Joint:         true,
			Elasticity:    0,
		}
		rec.NormalVelocity = collision.CurrentNormalVelocity(rec)
		list = append(list, rec)
	}
	return list
}

// normalBody returns BodyB, or a lazily-built infinite-mass anchor body
// fixed at AttachB when BodyB is nil.
func (j *PinJoint) normalBody() *body.Polygon {
	if j.BodyB != nil {
		return j.BodyB
	}
	if j.fixedAnchor == nil {
		anchor := body.NewBlock(j.BodyA.Name+"-anchor", 0.01, 0.01)
		anchor.SetMass(math.Inf(1))
		anchor.SetMomentAboutCM(math.Inf(1))
		anchor.X, anchor.Y = j.AttachB.X, j.AttachB.Y
		j.fixedAnchor = anchor
	}
	return j.fixedAnchor
}

// Align snaps BodyB (or, for a world-pinned joint, BodyA) so the two
// attachment points coincide exactly, per spec.md §4.7's "align()".
func (j *PinJoint) Align() {
	pa, pb := j.worldPoints()
	delta := pb.Sub(pa)
	if j.BodyB == nil {
		j.BodyA.X += delta.X
		j.BodyA.Y += delta.Y
		return
	}
	if j.BodyB.IsInfiniteMass() {
		j.BodyA.X += delta.X
		j.BodyA.Y += delta.Y
	} else {
		j.BodyB.X -= delta.X
		j.BodyB.Y -= delta.Y
	}
}
