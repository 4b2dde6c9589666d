// Package sim implements spec.md §6.1's public simulation facade: it owns
// the dense state vector, the body/force-law/connector collections, and
// wires the evaluator, collision resolver and contact-force driver
// together behind the operations an outer integration loop calls each
// step.
package sim

import (
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/config"
	"github.com/myphysicslab/myphysicslab/contact"
	"github.com/myphysicslab/myphysicslab/impulse"
	"github.com/myphysicslab/myphysicslab/ode"
)

// ErrNotFound is returned by GetBodyByName/GetBodyAt when no body matches.
var ErrNotFound = errors.New("sim: body not found")

// Sim is the top-level simulation object. Zero value is not usable; build
// one with New.
type Sim struct {
	Bodies     []*body.Polygon
	ForceLaws  []ode.ForceLaw
	Connectors []collision.Connector

	Pool  *ode.VarPool
	State []float64

	Config config.Config

	Resolver *impulse.Resolver
	Contacts *contact.Driver
	Logger   runtime.Logger

	evaluator *ode.Evaluator
}

// New builds a Sim from cfg, wiring a fresh VarPool, impulse resolver and
// contact driver seeded from cfg.RandomSeed.
func New(cfg config.Config, logger runtime.Logger) *Sim {
	s := &Sim{
		Pool:     &ode.VarPool{},
		State:    make([]float64, ode.BodyBase),
		Config:   cfg,
		Resolver: impulse.NewResolver(cfg.RandomSeed, policyFromConfig(cfg.CollisionHandling)),
		Contacts: contact.NewDriver(cfg.RandomSeed),
		Logger:   logger,
	}
	s.Contacts.ExtraAccel = extraAccelFromConfig(cfg.ExtraAccel)
	s.evaluator = &ode.Evaluator{
		Bodies:     s.Bodies,
		Connectors: s.Connectors,
		ForceLaws:  s.ForceLaws,
		Pool:       s.Pool,
		Logger:     s.Logger,
		Contacts:   s.Contacts,
	}
	return s
}

func policyFromConfig(c config.CollisionHandling) impulse.Policy {
	switch c {
	case config.Simultaneous:
		return impulse.Simultaneous
	case config.Hybrid:
		return impulse.Hybrid
	case config.SerialGrouped:
		return impulse.SerialGrouped
	case config.SerialSeparate:
		return impulse.SerialSeparate
	case config.SerialSeparateLastPass:
		return impulse.SerialSeparateLastPass
	default:
		return impulse.SerialGroupedLastPass
	}
}

func extraAccelFromConfig(e config.ExtraAccel) contact.ExtraAccel {
	switch e {
	case config.ExtraAccelNone:
		return contact.ExtraAccelNone
	case config.ExtraAccelVelocity:
		return contact.ExtraAccelVelocity
	case config.ExtraAccelVelocityJoints:
		return contact.ExtraAccelVelocityJoints
	case config.ExtraAccelVelocityAndDistance:
		return contact.ExtraAccelVelocityAndDistance
	default:
		return contact.ExtraAccelVelocityAndDistanceJoints
	}
}

// syncEvaluator refreshes the evaluator's body/connector/force-law slices
// after a mutation, since Evaluator holds its own copies rather than
// referencing Sim directly (keeping package ode free of a sim import).
func (s *Sim) syncEvaluator() {
	s.evaluator.Bodies = s.Bodies
	s.evaluator.Connectors = s.Connectors
	s.evaluator.ForceLaws = s.ForceLaws
}

// growState extends State to cover every slot VarPool has allocated,
// tombstoned or not.
func (s *Sim) growState() {
	n := s.Pool.Len()
	if len(s.State) < n {
		grown := make([]float64, n)
		copy(grown, s.State)
		s.State = grown
	}
}

// AddBody implements spec.md §6.1's add_body: allocates state-vector
// slots for b, stamps it with the sim's current global tolerances, and
// writes its initial pose into State.
func (s *Sim) AddBody(b *body.Polygon) {
	b.VarsIndex = s.Pool.Alloc(b.Name)
	s.growState()
	b.SetDistanceTol(s.Config.DistanceTolerance)
	b.SetVelocityTol(s.Config.VelocityTolerance)
	b.SetCollisionAccuracy(s.Config.CollisionAccuracy)
	ode.WritePose(b, s.State)
	s.Bodies = append(s.Bodies, b)
	s.syncEvaluator()
}

// RemoveBody implements spec.md §6.1's remove_body: tombstones b's state
// slots (they remain allocated for any other body's VarsIndex, but future
// Alloc calls may reuse them) and drops b from the body list.
func (s *Sim) RemoveBody(b *body.Polygon) {
	for i, other := range s.Bodies {
		if other == b {
			s.Pool.Free(b.VarsIndex)
			b.VarsIndex = -1
			s.Bodies = append(s.Bodies[:i], s.Bodies[i+1:]...)
			s.syncEvaluator()
			return
		}
	}
}

// GetBodies implements spec.md §6.1's get_bodies.
func (s *Sim) GetBodies() []*body.Polygon { return s.Bodies }

// GetBodyByName implements spec.md §6.1's get_body when called with a name.
func (s *Sim) GetBodyByName(name string) (*body.Polygon, error) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

// GetBodyAt implements spec.md §6.1's get_body when called with an index
// into the live body list (not a VarsIndex).
func (s *Sim) GetBodyAt(i int) (*body.Polygon, error) {
	if i < 0 || i >= len(s.Bodies) {
		return nil, ErrNotFound
	}
	return s.Bodies[i], nil
}

// AddForceLaw implements spec.md §6.1's add_force_law.
func (s *Sim) AddForceLaw(law ode.ForceLaw) {
	s.ForceLaws = append(s.ForceLaws, law)
	s.syncEvaluator()
}

// RemoveForceLaw implements spec.md §6.1's remove_force_law, matching by
// identity. Returns whether a matching law was found.
func (s *Sim) RemoveForceLaw(law ode.ForceLaw) bool {
	for i, l := range s.ForceLaws {
		if l == law {
			s.ForceLaws = append(s.ForceLaws[:i], s.ForceLaws[i+1:]...)
			s.syncEvaluator()
			return true
		}
	}
	return false
}

// ClearForceLaws implements spec.md §6.1's clear_force_laws.
func (s *Sim) ClearForceLaws() {
	s.ForceLaws = nil
	s.syncEvaluator()
}

// AddConnector implements spec.md §6.1's add_connector.
func (s *Sim) AddConnector(c collision.Connector) {
	s.Connectors = append(s.Connectors, c)
	s.syncEvaluator()
}

// RemoveConnector implements spec.md §6.1's remove_connector, matching by
// identity. Returns whether a matching connector was found.
func (s *Sim) RemoveConnector(c collision.Connector) bool {
	for i, existing := range s.Connectors {
		if existing == c {
			s.Connectors = append(s.Connectors[:i], s.Connectors[i+1:]...)
			s.syncEvaluator()
			return true
		}
	}
	return false
}

// GetConnectors implements spec.md §6.1's get_connectors.
func (s *Sim) GetConnectors() []collision.Connector { return s.Connectors }

// SetElasticity implements spec.md §6.1's set_elasticity: broadcasts to
// every current body.
func (s *Sim) SetElasticity(e float64) {
	for _, b := range s.Bodies {
		b.SetElasticity(e)
	}
}

// SetExtraAccel implements spec.md §6.1's set_extra_accel.
func (s *Sim) SetExtraAccel(e config.ExtraAccel) {
	s.Config.ExtraAccel = e
	s.Contacts.ExtraAccel = extraAccelFromConfig(e)
}

// SetCollisionHandling implements spec.md §6.1's set_collision_handling.
func (s *Sim) SetCollisionHandling(c config.CollisionHandling) {
	s.Config.CollisionHandling = c
	s.Resolver.Policy = policyFromConfig(c)
}

// SetDistanceTol implements spec.md §6.1's set_distance_tol: broadcasts to
// every current body.
func (s *Sim) SetDistanceTol(d float64) {
	s.Config.DistanceTolerance = d
	for _, b := range s.Bodies {
		b.SetDistanceTol(d)
	}
}

// SetVelocityTol implements spec.md §6.1's set_velocity_tol.
func (s *Sim) SetVelocityTol(v float64) {
	s.Config.VelocityTolerance = v
	for _, b := range s.Bodies {
		b.SetVelocityTol(v)
	}
}

// SetCollisionAccuracy implements spec.md §6.1's set_collision_accuracy.
func (s *Sim) SetCollisionAccuracy(a float64) {
	s.Config.CollisionAccuracy = a
	for _, b := range s.Bodies {
		b.SetCollisionAccuracy(a)
	}
}

// SetRandomSeed implements spec.md §6.1's set_random_seed, reseeding both
// the impulse resolver and the contact driver's LCP solvers so resolution
// order stays reproducible from this point on.
func (s *Sim) SetRandomSeed(seed int64) {
	s.Config.RandomSeed = seed
	s.Resolver.Rand.Seed(seed)
	s.Resolver.Solver.Rand.Seed(seed)
	s.Contacts.Solver.Rand.Seed(seed)
}

// GetRandomSeed implements spec.md §6.1's get_random_seed.
func (s *Sim) GetRandomSeed() int64 { return s.Config.RandomSeed }

// GetEnergyInfo implements spec.md §6.1's get_energy_info: the potential
// energy summed across force laws that report one, plus the live
// translational and rotational kinetic energy of every finite-mass body.
func (s *Sim) GetEnergyInfo() config.EnergySnapshot {
	snap := config.EnergySnapshot{Time: s.State[ode.SlotTime]}
	for _, law := range s.ForceLaws {
		if src, ok := law.(ode.PotentialEnergySource); ok {
			snap.Potential += src.PotentialEnergy(s.Bodies)
		}
	}
	for _, b := range s.Bodies {
		if b.IsInfiniteMass() {
			continue
		}
		snap.Translational += 0.5 * b.Mass * (b.Vx*b.Vx + b.Vy*b.Vy)
		snap.Rotational += 0.5 * b.MomentInertia * b.Omega * b.Omega
	}
	return snap
}

// Evaluate implements spec.md §6.1's evaluate(state, change, step_size):
// it delegates to the wired ode.Evaluator, which reads body poses from
// state (not s.State), applies force laws, finds collisions, and folds
// the contact-force solve into change. A non-nil return holds every record
// found, at least one of them illegal; the caller must back up to the
// collision and resolve it before retrying.
func (s *Sim) Evaluate(state, change []float64, stepSize float64) []*collision.Record {
	return s.evaluator.Evaluate(state, change, stepSize)
}

// FindCollisions implements spec.md §6.1's find_collisions: it syncs body
// poses from state, runs collision detection, and appends the results to
// out (returning the grown slice, the idiomatic Go append pattern).
func (s *Sim) FindCollisions(out []*collision.Record, state []float64, stepSize float64) []*collision.Record {
	for _, b := range s.Bodies {
		if b.VarsIndex >= 0 {
			ode.ReadPose(b, state)
			b.UpdateWorldCentroids()
		}
	}
	recs := collision.FindCollisions(s.Bodies, s.Connectors, stepSize, s.Logger)
	return append(out, recs...)
}

// HandleCollisions implements spec.md §6.1's handle_collisions: resolves
// records with the configured collision-handling policy and reports
// whether any non-trivial impulse was applied.
func (s *Sim) HandleCollisions(records []*collision.Record) bool {
	return s.Resolver.Resolve(records)
}
