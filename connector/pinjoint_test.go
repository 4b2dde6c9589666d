package connector

import (
	"testing"

	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/vec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinJointAddCollisionProducesTwoBilateralRecords(t *testing.T) {
	a := body.NewBlock("a", 2, 2)
	a.SetMass(1)
	b := body.NewBlock("b", 2, 2)
	b.SetMass(1)
	b.X = 3

	j := NewPinJoint(a, b, vec2.New(1, 0), vec2.New(-1, 0))
	records := j.AddCollision(nil, 0, 1)

	require.Len(t, records, 2)
	for _, r := range records {
		assert.True(t, r.Joint)
		assert.Same(t, a, r.PrimaryBody)
		assert.Same(t, b, r.NormalBody)
	}
}

func TestPinJointAlignSnapsAttachPoints(t *testing.T) {
	a := body.NewBlock("a", 2, 2)
	a.SetMass(1)
	b := body.NewBlock("b", 2, 2)
	b.SetMass(1)
	b.X = 5 // stretched past the natural 2-unit separation

	j := NewPinJoint(a, b, vec2.New(1, 0), vec2.New(-1, 0))
	j.Align()

	pa := a.BodyToWorld(j.AttachA)
	pb := b.BodyToWorld(j.AttachB)
	assert.InDelta(t, 0, pa.DistanceTo(pb), 1e-9)
}

func TestPinJointToFixedWorldPoint(t *testing.T) {
	a := body.NewBlock("pendulum", 1, 1)
	a.SetMass(1)

	j := NewPinJoint(a, nil, vec2.New(0, 0.5), vec2.New(0, 2))
	records := j.AddCollision(nil, 0, 1)
	require.Len(t, records, 2)
	assert.True(t, records[0].NormalBody.IsInfiniteMass())

	var sink []*collision.Record
	sink = j.AddCollision(sink, 0, 1)
	assert.Len(t, sink, 2)
}
