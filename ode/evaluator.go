package ode

import (
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/vec2"
)

// PotentialEnergySource is implemented by force laws that can report the
// potential energy they store (gravity, springs), used for
// GetEnergyInfo's PE total.
type PotentialEnergySource interface {
	PotentialEnergy(bodies []*body.Polygon) float64
}

// ContactSolver is implemented by package contact: it assembles the
// A-matrix/b-vector for the current set of true contacts and joints and
// adds the resulting force-induced accelerations into change. Evaluator
// depends on this interface, not the contact package directly, to avoid
// an import cycle (contact needs ode.Force/ode types).
type ContactSolver interface {
	Solve(bodies []*body.Polygon, records []*collision.Record, change []float64, pool *VarPool, h float64) error
}

// Evaluator implements spec.md §4.6: one call per ODE sub-step evaluation.
type Evaluator struct {
	Bodies     []*body.Polygon
	Connectors []collision.Connector
	ForceLaws  []ForceLaw
	Pool       *VarPool
	Logger     runtime.Logger
	Contacts   ContactSolver
}

// ReadPose copies state[varsIndex:varsIndex+6] into the body's pose and
// velocity fields. Exported so callers outside the evaluator (package
// sim's find_collisions) can sync body state from a caller-owned vector
// without duplicating the slot layout.
func ReadPose(b *body.Polygon, state []float64) {
	base := b.VarsIndex
	b.X = state[base+OffsetX]
	b.Vx = state[base+OffsetVX]
	b.Y = state[base+OffsetY]
	b.Vy = state[base+OffsetVY]
	b.Angle = state[base+OffsetTheta]
	b.Omega = state[base+OffsetOmega]
}

// WritePose is ReadPose's inverse: copies a body's live pose/velocity
// fields back into state[varsIndex:varsIndex+6].
func WritePose(b *body.Polygon, state []float64) {
	base := b.VarsIndex
	state[base+OffsetX] = b.X
	state[base+OffsetVX] = b.Vx
	state[base+OffsetY] = b.Y
	state[base+OffsetVY] = b.Vy
	state[base+OffsetTheta] = b.Angle
	state[base+OffsetOmega] = b.Omega
}

// Evaluate implements spec.md §6.1's evaluate(state, change, step_size):
// it returns nil when the step may proceed, or every record found (at
// least one of them illegal) when the step must be rejected and
// re-integrated to the collision instant.
func (ev *Evaluator) Evaluate(state, change []float64, stepSize float64) []*collision.Record {
	change[SlotTime] = 1
	change[SlotKE] = 0
	change[SlotPE] = 0
	change[SlotTE] = 0

	for _, b := range ev.Bodies {
		if b.VarsIndex < 0 {
			continue
		}
		ReadPose(b, state)
		b.UpdateWorldCentroids()

		base := b.VarsIndex
		change[base+OffsetX] = b.Vx
		change[base+OffsetY] = b.Vy
		change[base+OffsetTheta] = b.Omega
		change[base+OffsetVX] = 0
		change[base+OffsetVY] = 0
		change[base+OffsetOmega] = 0
	}

	for _, law := range ev.ForceLaws {
		for _, f := range law.CalculateForces(ev.Bodies) {
			applyForce(f, change)
		}
	}

	records := collision.FindCollisions(ev.Bodies, ev.Connectors, stepSize, ev.Logger)
	for _, r := range records {
		if r.Status == collision.StatusIllegal {
			return records
		}
	}

	trueContacts := make([]*collision.Record, 0, len(records))
	for _, r := range records {
		if r.Joint || r.Status == collision.StatusContact {
			trueContacts = append(trueContacts, r)
		}
	}

	if len(trueContacts) > 0 && ev.Contacts != nil {
		h := stepSize
		if h <= 0 {
			h = 0.025
		}
		if err := ev.Contacts.Solve(ev.Bodies, trueContacts, change, ev.Pool, h); err != nil {
			if ev.Logger != nil {
				ev.Logger.Error("contact-force solve failed: %v", err)
			}
			panic(err)
		}
	}

	ev.writeEnergy(state)
	return nil
}

func applyForce(f Force, change []float64) {
	b := f.Body
	if b == nil || b.IsInfiniteMass() || b.VarsIndex < 0 {
		return
	}
	base := b.VarsIndex
	change[base+OffsetVX] += f.Vector.X / b.Mass
	change[base+OffsetVY] += f.Vector.Y / b.Mass

	r := f.ApplicationPoint.Sub(vec2.Vector2{X: b.X, Y: b.Y})
	torque := r.Cross(f.Vector) + f.Torque
	change[base+OffsetOmega] += torque / b.MomentInertia
}

func (ev *Evaluator) writeEnergy(state []float64) {
	ke, pe := 0.0, 0.0
	for _, b := range ev.Bodies {
		if b.VarsIndex < 0 || b.IsInfiniteMass() {
			continue
		}
		v2 := b.Vx*b.Vx + b.Vy*b.Vy
		ke += 0.5*b.Mass*v2 + 0.5*b.MomentInertia*b.Omega*b.Omega
	}
	for _, law := range ev.ForceLaws {
		if src, ok := law.(PotentialEnergySource); ok {
			pe += src.PotentialEnergy(ev.Bodies)
		}
	}
	state[SlotKE] = ke
	state[SlotPE] = pe
	state[SlotTE] = ke + pe
}
