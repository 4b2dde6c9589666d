// Package config implements spec.md §6.3's configurable simulation
// parameters as a YAML-decodable struct, the same serialization idiom
// Gekko3D-gekko and gazed-vu use for their own settings files, plus an
// in-memory energy snapshot type for external inspection (§6.2).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CollisionHandling selects spec.md §6.1's set_collision_handling policy.
type CollisionHandling string

const (
	Simultaneous            CollisionHandling = "SIMULTANEOUS"
	Hybrid                  CollisionHandling = "HYBRID"
	SerialGrouped           CollisionHandling = "SERIAL_GROUPED"
	SerialSeparate          CollisionHandling = "SERIAL_SEPARATE"
	SerialGroupedLastPass   CollisionHandling = "SERIAL_GROUPED_LASTPASS"
	SerialSeparateLastPass  CollisionHandling = "SERIAL_SEPARATE_LASTPASS"
)

// ExtraAccel selects spec.md §6.1's set_extra_accel policy.
type ExtraAccel string

const (
	ExtraAccelNone                      ExtraAccel = "NONE"
	ExtraAccelVelocity                  ExtraAccel = "VELOCITY"
	ExtraAccelVelocityJoints            ExtraAccel = "VELOCITY_JOINTS"
	ExtraAccelVelocityAndDistance       ExtraAccel = "VELOCITY_AND_DISTANCE"
	ExtraAccelVelocityAndDistanceJoints ExtraAccel = "VELOCITY_AND_DISTANCE_JOINTS"
)

// Config holds spec.md §6.3's configurable parameters, plus visualization
// hints that do not affect simulation.
type Config struct {
	DistanceTolerance float64           `yaml:"distance_tolerance"`
	VelocityTolerance float64           `yaml:"velocity_tolerance"`
	CollisionAccuracy float64           `yaml:"collision_accuracy"`
	ExtraAccel        ExtraAccel        `yaml:"extra_accel"`
	CollisionHandling CollisionHandling `yaml:"collision_handling"`
	RandomSeed        int64             `yaml:"random_seed"`

	ShowForces     bool `yaml:"show_forces"`
	ShowCollisions bool `yaml:"show_collisions"`
}

// Default returns spec.md §6.3's documented defaults.
func Default() Config {
	return Config{
		DistanceTolerance: 0.01,
		VelocityTolerance: 0.5,
		CollisionAccuracy: 0.6,
		ExtraAccel:        ExtraAccelVelocityAndDistanceJoints,
		CollisionHandling: SerialGroupedLastPass,
		RandomSeed:        0,
	}
}

// Load reads a YAML config file, applying Default() for any field the
// file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EnergySnapshot captures one evaluate() call's energy totals (§6.2),
// for external logging or inspection; it is not a persistence format.
type EnergySnapshot struct {
	Time          float64
	Potential     float64
	Translational float64
	Rotational    float64
}

func (s EnergySnapshot) Total() float64 {
	return s.Potential + s.Translational + s.Rotational
}
