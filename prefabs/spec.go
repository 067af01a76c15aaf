package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/controller"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
	"gopkg.in/yaml.v3"
)

const ControllerFile = "controller.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type BodySpec struct {
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
	Mass     float64    `yaml:"mass"`
	Radius   float64    `yaml:"radius"`
}

func (b BodySpec) Def() physics.BodyDef {
	return physics.BodyDef{
		Position: mgl64.Vec3(b.Position),
		Rotation: common.Yaw(b.Yaw),
		Mass:     b.Mass,
		Radius:   b.Radius,
	}
}

type ControllerSpec struct {
	Name     string            `yaml:"name"`
	Strategy string            `yaml:"strategy"`
	Script   string            `yaml:"script"`
	Body     BodySpec          `yaml:"body"`
	Bindings map[string]string `yaml:"bindings"`
	Tuning   controller.Config `yaml:"tuning"`
}

// Settings is a ControllerSpec resolved into the types the controller uses.
type Settings struct {
	Name     string
	Kind     controller.StrategyKind
	Config   controller.Config
	Bindings input.Map
	Body     physics.BodyDef
	Script   string
}

// LoadControllerSpec reads filename over the default tuning, so a spec only
// needs the fields it changes.
func LoadControllerSpec(filename string) (*ControllerSpec, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec := ControllerSpec{Tuning: controller.DefaultConfig()}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return &spec, nil
}

// Settings validates the controller file. Bindings are checked with known when it is
// not nil; an empty bindings block means the default layout.
func (s *ControllerSpec) Settings(known func(input.Binding) bool) (Settings, error) {
	kind, err := controller.ParseStrategy(s.Strategy)
	if err != nil {
		return Settings{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}
	if err := s.Tuning.Validate(); err != nil {
		return Settings{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}

	m := input.DefaultMap()
	if len(s.Bindings) > 0 {
		m, err = input.NewMap(s.Bindings)
		if err != nil {
			return Settings{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
		}
	}
	if err := m.Validate(known); err != nil {
		return Settings{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}

	return Settings{
		Name:     s.Name,
		Kind:     kind,
		Config:   s.Tuning,
		Bindings: m,
		Body:     s.Body.Def(),
		Script:   s.Script,
	}, nil
}

// LoadSettings is LoadControllerSpec followed by Settings.
func LoadSettings(filename string, known func(input.Binding) bool) (Settings, error) {
	spec, err := LoadControllerSpec(filename)
	if err != nil {
		return Settings{}, err
	}
	return spec.Settings(known)
}
