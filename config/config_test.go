package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.01, cfg.DistanceTolerance)
	assert.Equal(t, 0.5, cfg.VelocityTolerance)
	assert.Equal(t, 0.6, cfg.CollisionAccuracy)
	assert.Equal(t, ExtraAccelVelocityAndDistanceJoints, cfg.ExtraAccel)
	assert.Equal(t, SerialGroupedLastPass, cfg.CollisionHandling)
	assert.Equal(t, int64(0), cfg.RandomSeed)
}

func TestLoadOverridesDefaultsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
distance_tolerance: 0.02
random_seed: 7
collision_handling: SIMULTANEOUS
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.02, cfg.DistanceTolerance)
	assert.Equal(t, int64(7), cfg.RandomSeed)
	assert.Equal(t, Simultaneous, cfg.CollisionHandling)
	// untouched fields keep their documented defaults.
	assert.Equal(t, 0.5, cfg.VelocityTolerance)
}

func TestEnergySnapshotTotal(t *testing.T) {
	s := EnergySnapshot{Potential: 1, Translational: 2, Rotational: 3}
	assert.Equal(t, 6.0, s.Total())
}
