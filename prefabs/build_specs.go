package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/physics"
)

const ArenaFile = "arena.yaml"

type BoxSpec struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// ArenaSpec is the static geometry a scene is built on.
type ArenaSpec struct {
	Name        string    `yaml:"name"`
	Ground      bool      `yaml:"ground"`
	GroundLevel float64   `yaml:"ground_level"`
	Boxes       []BoxSpec `yaml:"boxes"`
}

func LoadArenaSpec(filename string) (ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return ArenaSpec{}, err
	}
	for i, b := range spec.Boxes {
		for axis := 0; axis < 3; axis++ {
			if b.Min[axis] > b.Max[axis] {
				return ArenaSpec{}, fmt.Errorf("prefabs: %s: box %d min exceeds max on axis %d", filename, i, axis)
			}
		}
	}
	return spec, nil
}

// BuildSim creates a reference world holding the arena geometry.
func (a ArenaSpec) BuildSim(gravity mgl64.Vec3) *physics.Sim {
	sim := physics.NewSim(physics.SimConfig{
		Gravity:     gravity,
		Ground:      a.Ground,
		GroundLevel: a.GroundLevel,
	})
	for _, b := range a.Boxes {
		sim.AddBox(physics.Box{Min: mgl64.Vec3(b.Min), Max: mgl64.Vec3(b.Max)})
	}
	return sim
}

// BuildChipmunk creates a side-view world. Boxes keep their X and Y extent.
func (a ArenaSpec) BuildChipmunk(gravity float64) *physics.Chipmunk {
	c := physics.NewChipmunk(gravity)
	if a.Ground {
		c.AddGround(-1000, a.GroundLevel-1, 1000, a.GroundLevel)
	}
	for _, b := range a.Boxes {
		c.AddGround(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
	}
	return c
}
