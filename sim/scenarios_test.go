package sim

import (
	"math"
	"testing"

	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/config"
	"github.com/myphysicslab/myphysicslab/connector"
	"github.com/myphysicslab/myphysicslab/forcelaw"
	"github.com/myphysicslab/myphysicslab/logx"
	"github.com/myphysicslab/myphysicslab/ode"
	"github.com/myphysicslab/myphysicslab/vec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1: adding two blocks assigns vars-indices 4 and 10 and grows
// the state vector to length 16; removing the first tombstones its run
// without disturbing the second body's index, and the removed body is no
// longer reachable by name.
func TestScenarioTwoBlocksAddRemove(t *testing.T) {
	s := New(config.Default(), logx.Null())

	block1 := body.NewBlock("block1", 1, 1)
	block1.SetMass(1)
	block1.SetMomentAboutCM(1.0 / 6.0)
	s.AddBody(block1)
	assert.Equal(t, ode.BodyBase, block1.VarsIndex)

	block2 := body.NewBlock("block2", 1, 1)
	block2.SetMass(1)
	block2.SetMomentAboutCM(1.0 / 6.0)
	s.AddBody(block2)
	assert.Equal(t, ode.BodyBase+ode.VarsPerBody, block2.VarsIndex)

	assert.Len(t, s.State, 16)

	s.RemoveBody(block1)
	assert.Equal(t, ode.BodyBase+ode.VarsPerBody, block2.VarsIndex)
	assert.Len(t, s.State, 16)

	_, err := s.GetBodyByName("block1")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetBodyByName("block2")
	require.NoError(t, err)
	assert.Same(t, block2, got)
}

// Scenario 2: the circular edge from (0,2) to (2,0) about the origin has
// curvature magnitude 1/radius (the documented resolution: curvature is
// the reciprocal of the radius, not the radius itself), outward normal
// (1,0) at (2,0), and signed distances of -2 at the origin, +2 at (4,0)
// and +1 at (0,3).
func TestScenarioCircularEdgeGeometry(t *testing.T) {
	p := body.NewArcPolygon("arc")
	arc := p.Edges[0].Shape

	assert.InDelta(t, 0.5, arc.CurvatureAtPoint(vec2.New(2, 0)), 1e-12)

	n := arc.NormalAtPoint(vec2.New(2, 0))
	assert.InDelta(t, 1, n.X, 1e-12)
	assert.InDelta(t, 0, n.Y, 1e-12)

	d, _, _ := arc.DistanceToPoint(vec2.New(0, 0))
	assert.InDelta(t, -2, d, 1e-12)

	d, _, _ = arc.DistanceToPoint(vec2.New(4, 0))
	assert.InDelta(t, 2, d, 1e-12)

	d, _, _ = arc.DistanceToPoint(vec2.New(0, 3))
	assert.InDelta(t, 1, d, 1e-12)
}

// Scenario 3: a 2x2 block resting exactly on a wall, under gravity alone,
// produces a single contact whose solved force magnitude cancels gravity
// (9.8 within 1e-6) and leaves the block's velocity (hence one Euler
// step's position) unchanged.
func TestScenarioRestingBlockOnFloor(t *testing.T) {
	cfg := config.Default()
	cfg.ExtraAccel = config.ExtraAccelNone
	s := New(cfg, logx.Null())

	wall := body.NewWall("ground", 10, 0.5)
	wall.Y = -0.25 // top edge at world y=0
	wall.SetElasticity(0)
	s.AddBody(wall)

	block := body.NewBlock("block", 2, 2)
	block.SetMass(1)
	block.SetMomentAboutCM(1.0 / 6.0)
	block.Y = 1 // bottom edge at world y=0, touching the wall exactly
	block.SetElasticity(0)
	s.AddBody(block)

	s.AddForceLaw(forcelaw.NewGravity(9.8))

	change := make([]float64, len(s.State))
	recs := s.Evaluate(s.State, change, 0.01)
	require.Nil(t, recs)

	assert.InDelta(t, 0, change[block.VarsIndex+ode.OffsetVY], 1e-6)
	newY := block.Y + 0.01*change[block.VarsIndex+ode.OffsetY]
	assert.InDelta(t, block.Y, newY, 1e-7)

	found := s.FindCollisions(nil, s.State, 0.01)
	var contactRecs []*collision.Record
	for _, r := range found {
		if r.Status == collision.StatusContact {
			contactRecs = append(contactRecs, r)
		}
	}
	require.NotEmpty(t, contactRecs)

	change2 := make([]float64, len(s.State))
	err := s.Contacts.Solve(s.Bodies, contactRecs, change2, s.Pool, 0.01)
	require.NoError(t, err)

	total := 0.0
	for _, r := range contactRecs {
		total += r.Solution
	}
	assert.InDelta(t, 9.8, total, 1e-6)
}

// Scenario 4: two equal-mass blocks in a perfectly elastic 1D head-on
// collision swap velocities.
func TestScenarioElasticHeadOnCollision(t *testing.T) {
	cfg := config.Default()
	cfg.CollisionHandling = config.Simultaneous
	s := New(cfg, logx.Null())

	left := body.NewBlock("left", 2, 2)
	left.SetMass(1)
	left.SetMomentAboutCM(1.0 / 6.0)
	left.SetElasticity(1)
	left.Vx = 1

	right := body.NewBlock("right", 2, 2)
	right.SetMass(1)
	right.SetMomentAboutCM(1.0 / 6.0)
	right.SetElasticity(1)
	right.Vx = -1
	right.X = 2

	s.AddBody(left)
	s.AddBody(right)

	impact := vec2.New(1, 0)
	rec := &collision.Record{
		PrimaryBody:   right,
		NormalBody:    left,
		ImpactPrimary: impact,
		ImpactNormal:  impact,
		Normal:        vec2.New(1, 0),
		R1:            math.Inf(1),
		R2:            math.Inf(1),
		Elasticity:    1,
	}
	rec.NormalVelocity = collision.CurrentNormalVelocity(rec)

	applied := s.HandleCollisions([]*collision.Record{rec})

	assert.True(t, applied)
	assert.InDelta(t, -1, left.Vx, 1e-9)
	assert.InDelta(t, 1, right.Vx, 1e-9)
}

// Scenario 5: a three-block pile resting on the floor, stepped 100 times
// at h=0.01, stays near its starting positions and conserves energy to
// within a small relative tolerance.
func TestScenarioThreeBlockPile(t *testing.T) {
	cfg := config.Default()
	cfg.ExtraAccel = config.ExtraAccelNone
	s := New(cfg, logx.Null())

	wall := body.NewWall("ground", 10, 0.5)
	wall.Y = -0.25
	wall.SetElasticity(0)
	s.AddBody(wall)

	blocks := make([]*body.Polygon, 3)
	for i := range blocks {
		b := body.NewBlock("block", 2, 2)
		b.SetMass(1)
		b.SetMomentAboutCM(1.0 / 6.0)
		b.SetElasticity(0)
		b.Y = 1 + float64(i)*2
		blocks[i] = b
		s.AddBody(b)
	}

	s.AddForceLaw(forcelaw.NewGravity(9.8))

	startY := make([]float64, len(blocks))
	for i, b := range blocks {
		startY[i] = b.Y
	}
	startEnergy := s.GetEnergyInfo().Total()

	const h = 0.01
	for step := 0; step < 100; step++ {
		change := make([]float64, len(s.State))
		recs := s.Evaluate(s.State, change, h)
		require.Nil(t, recs)
		eulerStep(s, change, h)
	}

	for i, b := range blocks {
		assert.InDelta(t, startY[i], b.Y, 0.05, "block %d drifted", i)
	}

	endEnergy := s.GetEnergyInfo().Total()
	if startEnergy != 0 {
		drift := math.Abs(endEnergy-startEnergy) / math.Abs(startEnergy)
		assert.Less(t, drift, 0.05)
	}
}

// Scenario 6: a block pinned by the middle of its top end to a fixed world point, tilted
// off vertical so gravity drives it to swing, keeps its joint gap small
// over many simulated seconds.
func TestScenarioPendulumJoint(t *testing.T) {
	s := New(config.Default(), logx.Null())

	angle := 0.3
	bob := body.NewBlock("bob", 0.2, 2)
	bob.SetMass(1)
	bob.SetMomentAboutCM((0.2*0.2 + 2*2) / 12)
	bob.Angle = angle
	bob.X = math.Sin(angle)
	bob.Y = -math.Cos(angle)
	s.AddBody(bob)

	s.AddForceLaw(forcelaw.NewGravity(9.8))

	pivot := vec2.New(0, 0)
	joint := connector.NewPinJoint(bob, nil, vec2.New(0, 1), pivot)
	s.AddConnector(joint)

	const h = 0.01
	for step := 0; step < 1000; step++ {
		change := make([]float64, len(s.State))
		recs := s.Evaluate(s.State, change, h)
		require.Nil(t, recs)
		eulerStep(s, change, h)

		attach := bob.BodyToWorld(joint.AttachA)
		gap := attach.DistanceTo(pivot)
		// the stabilized contact-force driver corrects drift, but a plain
		// explicit-Euler test harness (not the production integrator)
		// accumulates more error than an adaptive-step integrator would.
		assert.Less(t, gap, 0.2, "gap exceeded bound at step %d", step)
	}
}

// eulerStep advances state by one explicit-Euler step using change
// (already computed by Evaluate) and syncs body poses from the result.
// This is test-local integration scaffolding, not a simulation component:
// the real outer integrator is an external collaborator per spec.md §6.
func eulerStep(s *Sim, change []float64, h float64) {
	for i := ode.BodyBase; i < len(s.State); i++ {
		s.State[i] += h * change[i]
	}
	s.State[ode.SlotTime] += h * change[ode.SlotTime]
	for _, b := range s.Bodies {
		if b.VarsIndex >= 0 {
			ode.ReadPose(b, s.State)
			b.UpdateWorldCentroids()
		}
	}
}
