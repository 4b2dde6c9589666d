package amatrix

import (
	"math"
	"testing"

	"github.com/myphysicslab/myphysicslab/body"
	"github.com/myphysicslab/myphysicslab/collision"
	"github.com/myphysicslab/myphysicslab/vec2"
	"github.com/stretchr/testify/assert"
)

func TestBuildSingleContactCenterPointHasNoAngularCoupling(t *testing.T) {
	block := body.NewBlock("b", 2, 2)
	block.SetMass(1)
	block.SetMomentAboutCM(1.0 / 6.0)
	wall := body.NewWall("wall", 10, 0.5)

	rec := &collision.Record{
		PrimaryBody:   block,
		NormalBody:    wall,
		ImpactPrimary: vec2.New(0, -1), // directly below the center of mass
		ImpactNormal:  vec2.New(0, -1),
		Normal:        vec2.New(0, 1),
		R1:            math.Inf(1),
		R2:            math.Inf(1),
	}

	A := Build([]*collision.Record{rec})
	assert.InDelta(t, 1.0, A[0][0], 1e-12) // 1/m, since r x n = 0 for a center-aligned contact
}

func TestBuildSingleContactOffCenterAddsAngularCoupling(t *testing.T) {
	block := body.NewBlock("b", 2, 2)
	block.SetMass(1)
	block.SetMomentAboutCM(1.0 / 6.0)
	wall := body.NewWall("wall", 10, 0.5)

	rec := &collision.Record{
		PrimaryBody:   block,
		NormalBody:    wall,
		ImpactPrimary: vec2.New(-1, 0), // middle of the left side, offset from the center of mass
		ImpactNormal:  vec2.New(-1, 0),
		Normal:        vec2.New(0, 1),
		R1:            math.Inf(1),
		R2:            math.Inf(1),
	}

	A := Build([]*collision.Record{rec})
	// 1/m + (r x n)^2 / I = 1 + 1/(1/6) = 7
	assert.InDelta(t, 7.0, A[0][0], 1e-9)
}

func TestBuildInfiniteMassBodyContributesZero(t *testing.T) {
	wallA := body.NewWall("wa", 10, 0.5)
	wallB := body.NewWall("wb", 10, 0.5)

	rec := &collision.Record{
		PrimaryBody: wallA, NormalBody: wallB,
		ImpactPrimary: vec2.New(0, 0), ImpactNormal: vec2.New(0, 0),
		Normal: vec2.New(0, 1), R1: math.Inf(1), R2: math.Inf(1),
	}
	A := Build([]*collision.Record{rec})
	assert.Equal(t, 0.0, A[0][0])
}
