package impulse

import (
	"math"
	"testing"

	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/vec2"
	"github.com/stretchr/testify/assert"
)

func newMovingBlock(name string, vx float64) *body.Polygon {
	p := body.NewBlock(name, 2, 2)
	p.SetMass(1)
	p.SetMomentAboutCM(1.0 / 6.0)
	p.Vx = vx
	return p
}

// head-on elastic collision between two equal-mass blocks: the classic
// "balls swap velocities" case.
func TestResolveSimultaneousElasticHeadOn(t *testing.T) {
	left := newMovingBlock("left", 1)
	right := newMovingBlock("right", -1)
	left.SetElasticity(1)
	right.SetElasticity(1)
	right.X = 2

	normal := vec2.New(1, 0)
	impact := vec2.New(1, 0)
	rec := &collision.Record{
		PrimaryBody:   right,
		NormalBody:    left,
		PrimaryEdge:   0,
		NormalEdge:    0,
		ImpactPrimary: impact,
		ImpactNormal:  impact,
		Normal:        normal,
		R1:            math.Inf(1),
		R2:            math.Inf(1),
		Elasticity:    1,
	}
	rec.NormalVelocity = collision.CurrentNormalVelocity(rec)
	assert.Less(t, rec.NormalVelocity, 0.0)

	r := NewResolver(1, Simultaneous)
	applied := r.Resolve([]*collision.Record{rec})

	assert.True(t, applied)
	assert.InDelta(t, -1, left.Vx, 1e-6)
	assert.InDelta(t, 1, right.Vx, 1e-6)
}

// a block resting on an infinite-mass wall (inelastic) should end with
// zero normal velocity and the wall untouched.
func TestResolveRestingOnWall(t *testing.T) {
	wall := body.NewWall("ground", 10, 0.5)
	block := newMovingBlock("block", 0)
	block.Vy = -1
	block.SetElasticity(0)
	wall.SetElasticity(0)

	normal := vec2.New(0, 1)
	impact := vec2.New(0, 0)
	rec := &collision.Record{
		PrimaryBody:   block,
		NormalBody:    wall,
		ImpactPrimary: impact,
		ImpactNormal:  impact,
		Normal:        normal,
		R1:            math.Inf(1),
		R2:            math.Inf(1),
	}
	rec.NormalVelocity = collision.CurrentNormalVelocity(rec)

	r := NewResolver(2, Simultaneous)
	r.Resolve([]*collision.Record{rec})

	assert.InDelta(t, 0, block.Vy, 1e-6)
	assert.InDelta(t, 0, wall.Vy, 1e-9)
}

func TestResolveNoRecordsIsNoop(t *testing.T) {
	r := NewResolver(3, Hybrid)
	assert.False(t, r.Resolve(nil))
}

// twoIndependentContacts builds the same two-block/two-wall setup as
// TestResolveHybridTwoIndependentContacts, parameterized by policy, to
// exercise resolveSerial's four grouped/lastPass combinations.
func twoIndependentContacts(t *testing.T, policy Policy) {
	a := newMovingBlock("a", 0)
	b := newMovingBlock("b", 0)
	a.Vy, b.Vy = -2, -3
	wallA := body.NewWall("wallA", 10, 0.5)
	wallB := body.NewWall("wallB", 10, 0.5)

	normal := vec2.New(0, 1)
	recA := &collision.Record{PrimaryBody: a, NormalBody: wallA, Normal: normal, R1: math.Inf(1), R2: math.Inf(1)}
	recA.ImpactPrimary, recA.ImpactNormal = vec2.New(0, 0), vec2.New(0, 0)
	recA.NormalVelocity = collision.CurrentNormalVelocity(recA)

	recB := &collision.Record{PrimaryBody: b, NormalBody: wallB, Normal: normal, R1: math.Inf(1), R2: math.Inf(1)}
	recB.ImpactPrimary, recB.ImpactNormal = vec2.New(0, 0), vec2.New(0, 0)
	recB.NormalVelocity = collision.CurrentNormalVelocity(recB)

	r := NewResolver(5, policy)
	applied := r.Resolve([]*collision.Record{recA, recB})

	assert.True(t, applied)
	assert.GreaterOrEqual(t, a.Vy, -1e-6)
	assert.GreaterOrEqual(t, b.Vy, -1e-6)
}

func TestResolveSerialGrouped(t *testing.T) {
	twoIndependentContacts(t, SerialGrouped)
}

func TestResolveSerialSeparate(t *testing.T) {
	twoIndependentContacts(t, SerialSeparate)
}

func TestResolveSerialGroupedLastPass(t *testing.T) {
	twoIndependentContacts(t, SerialGroupedLastPass)
}

func TestResolveSerialSeparateLastPass(t *testing.T) {
	twoIndependentContacts(t, SerialSeparateLastPass)
}

// TestResolveSerialGroupedChainsJointsThroughSharedBody exercises the
// grouped flag's actual effect: a focus contact on body a, joined to body
// b, which in turn rests on a wall. Grouped SerialGrouped should pull the
// joint into the focus's solve even though the wall contact doesn't share
// a body with a directly.
func TestResolveSerialGroupedChainsJointsThroughSharedBody(t *testing.T) {
	a := newMovingBlock("a", 0)
	bmid := newMovingBlock("mid", 0)
	a.Vy = -2

	joint := &collision.Record{PrimaryBody: a, NormalBody: bmid, Joint: true, Normal: vec2.New(0, 1), R1: math.Inf(1), R2: math.Inf(1)}
	joint.ImpactPrimary, joint.ImpactNormal = vec2.New(0, 0), vec2.New(0, 0)
	joint.NormalVelocity = collision.CurrentNormalVelocity(joint)

	wall := body.NewWall("wall", 10, 0.5)
	rest := &collision.Record{PrimaryBody: bmid, NormalBody: wall, Normal: vec2.New(0, 1), R1: math.Inf(1), R2: math.Inf(1)}
	rest.ImpactPrimary, rest.ImpactNormal = vec2.New(0, 0), vec2.New(0, 0)
	rest.NormalVelocity = collision.CurrentNormalVelocity(rest)

	r := NewResolver(6, SerialGrouped)
	r.Resolve([]*collision.Record{joint, rest})

	assert.GreaterOrEqual(t, bmid.Vy, -1e-6)
}

func TestResolveHybridTwoIndependentContacts(t *testing.T) {
	a := newMovingBlock("a", 0)
	b := newMovingBlock("b", 0)
	a.Vy, b.Vy = -2, -3
	wallA := body.NewWall("wallA", 10, 0.5)
	wallB := body.NewWall("wallB", 10, 0.5)

	normal := vec2.New(0, 1)
	recA := &collision.Record{PrimaryBody: a, NormalBody: wallA, Normal: normal, R1: math.Inf(1), R2: math.Inf(1)}
	recA.ImpactPrimary, recA.ImpactNormal = vec2.New(0, 0), vec2.New(0, 0)
	recA.NormalVelocity = collision.CurrentNormalVelocity(recA)

	recB := &collision.Record{PrimaryBody: b, NormalBody: wallB, Normal: normal, R1: math.Inf(1), R2: math.Inf(1)}
	recB.ImpactPrimary, recB.ImpactNormal = vec2.New(0, 0), vec2.New(0, 0)
	recB.NormalVelocity = collision.CurrentNormalVelocity(recB)

	r := NewResolver(4, Hybrid)
	applied := r.Resolve([]*collision.Record{recA, recB})

	assert.True(t, applied)
	assert.GreaterOrEqual(t, a.Vy, -1e-6)
	assert.GreaterOrEqual(t, b.Vy, -1e-6)
}
