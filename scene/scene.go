package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/controller"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/rs/zerolog"
)

// Scene is a world with one controlled body, ready to step.
type Scene struct {
	World    physics.World
	Arena    prefabs.ArenaSpec
	Settings prefabs.Settings
	Body     physics.BodyID
	Host     *controller.Host
}

// Load reads the controller and arena specs named by app and builds a scene
// driven by src.
func Load(app config.App, src input.Source, known func(input.Binding) bool, log zerolog.Logger) (*Scene, error) {
	settings, err := prefabs.LoadSettings(app.Controller, known)
	if err != nil {
		return nil, err
	}
	arena, err := prefabs.LoadArenaSpec(app.Arena)
	if err != nil {
		return nil, err
	}
	return Build(app, arena, settings, src, log)
}

func Build(app config.App, arena prefabs.ArenaSpec, settings prefabs.Settings, src input.Source, log zerolog.Logger) (*Scene, error) {
	var (
		world physics.World
		id    physics.BodyID
	)
	switch app.Backend {
	case config.BackendSim:
		sim := arena.BuildSim(mgl64.Vec3{0, -app.Gravity, 0})
		id = sim.AddBody(settings.Body)
		world = sim
	case config.BackendChipmunk:
		cm := arena.BuildChipmunk(-app.Gravity)
		id = cm.AddBody(settings.Body)
		world = cm
	default:
		return nil, fmt.Errorf("scene: unknown backend %q", app.Backend)
	}

	strategy, err := controller.NewStrategy(settings.Kind)
	if err != nil {
		return nil, err
	}
	ctrl, err := controller.New(id, settings.Config, settings.Bindings, strategy)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", settings.Name, err)
	}

	host := controller.NewHost(world, src, log)
	host.Add(ctrl)

	log.Info().
		Str("backend", app.Backend).
		Str("arena", arena.Name).
		Str("controller", settings.Name).
		Str("strategy", settings.Kind.String()).
		Int("boxes", len(arena.Boxes)).
		Msg("scene built")

	return &Scene{
		World:    world,
		Arena:    arena,
		Settings: settings,
		Body:     id,
		Host:     host,
	}, nil
}

// Controller returns the controller of the scene's body.
func (s *Scene) Controller() *controller.Controller {
	c, _ := s.Host.Controller(s.Body)
	return c
}

// Apply swaps in reloaded settings. Body placement changes are ignored; the
// running body keeps its state.
func (s *Scene) Apply(settings prefabs.Settings) error {
	if err := s.Host.Reconfigure(settings.Config, settings.Bindings, settings.Kind); err != nil {
		return err
	}
	s.Settings = settings
	return nil
}
