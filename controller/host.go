package controller

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
	"github.com/rs/zerolog"
)

// Report is one body's outcome for one step, handed to observers after the
// camera phase.
type Report struct {
	Step    int
	Time    float64
	Body    physics.BodyID
	State   physics.BodyState
	Ground  GroundSample
	Mode    Mode
	Command Command
	YawRate float64
	Pose    Pose
}

// Observer receives a Report for every resolved body every step.
type Observer interface {
	Observe(r Report)
}

type ObserverFunc func(r Report)

func (f ObserverFunc) Observe(r Report) { f(r) }

// Host drives a set of controllers against one world on a single goroutine.
// Step runs the phases in order: poll, resolve, integrate, follow, clear.
type Host struct {
	world       physics.World
	src         input.Source
	log         zerolog.Logger
	controllers []*Controller
	sinks       []Sink
	observers   []Observer
	step        int
	elapsed     float64
}

func NewHost(world physics.World, src input.Source, log zerolog.Logger) *Host {
	return &Host{world: world, src: src, log: log}
}

func (h *Host) World() physics.World { return h.world }

// SetSource replaces the input source from the next step on.
func (h *Host) SetSource(src input.Source) { h.src = src }

func (h *Host) Add(c *Controller) {
	if c == nil {
		return
	}
	h.controllers = append(h.controllers, c)
}

func (h *Host) Remove(id physics.BodyID) bool {
	for i, c := range h.controllers {
		if c.ID() == id {
			h.controllers = append(h.controllers[:i], h.controllers[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Host) Controller(id physics.BodyID) (*Controller, bool) {
	for _, c := range h.controllers {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

func (h *Host) Controllers() []*Controller {
	out := make([]*Controller, 0, len(h.controllers))
	return append(out, h.controllers...)
}

func (h *Host) AddSink(s Sink) {
	if s != nil {
		h.sinks = append(h.sinks, s)
	}
}

func (h *Host) AddObserver(o Observer) {
	if o != nil {
		h.observers = append(h.observers, o)
	}
}

// Steps is the number of completed steps.
func (h *Host) Steps() int { return h.step }

// Reconfigure applies a new configuration to every controller. Nothing is
// changed unless the whole set validates.
func (h *Host) Reconfigure(cfg Config, bindings input.Map, kind StrategyKind) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := NewStrategy(kind); err != nil {
		return err
	}
	for _, c := range h.controllers {
		s, _ := NewStrategy(kind)
		if err := c.Configure(cfg, bindings, s); err != nil {
			return fmt.Errorf("controller: configure body %d: %w", c.ID(), err)
		}
	}
	h.log.Info().
		Str("strategy", kind.String()).
		Float64("walk_speed", cfg.WalkSpeed).
		Float64("ride_height", cfg.RideHeight).
		Int("bodies", len(h.controllers)).
		Msg("controller config applied")
	return nil
}

// Step advances the simulation by dt.
func (h *Host) Step(ctx context.Context, dt float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.world == nil {
		return fmt.Errorf("controller: host has no world")
	}

	var pointer mgl64.Vec2
	if h.src != nil {
		pointer = h.src.DrainPointer()
	}

	resolved := make([]bool, len(h.controllers))
	for i, c := range h.controllers {
		c.Poll(h.src, pointer)

		prev := c.Mode()
		if !c.Resolve(h.world, dt) {
			h.log.Debug().Int("body", int(c.ID())).Int("step", h.step).Msg("body missing, skipping")
			continue
		}
		resolved[i] = true
		if m := c.Mode(); m != prev {
			h.log.Debug().
				Int("body", int(c.ID())).
				Str("from", prev.String()).
				Str("to", m.String()).
				Msg("mode changed")
		}
	}

	h.world.Step(dt)
	h.elapsed += dt

	for i, c := range h.controllers {
		if resolved[i] {
			h.present(c)
		}
		c.Clear()
	}
	h.step++
	return nil
}

func (h *Host) present(c *Controller) {
	pose, ok := c.Follow(h.world)
	if !ok {
		return
	}
	for _, s := range h.sinks {
		s.Present(c.ID(), pose)
	}
	if len(h.observers) == 0 {
		return
	}
	st, _ := h.world.Body(c.ID())
	r := Report{
		Step:    h.step,
		Time:    h.elapsed,
		Body:    c.ID(),
		State:   st,
		Ground:  c.Ground(),
		Mode:    c.Mode(),
		Command: c.LastCommand(),
		YawRate: c.YawRate(),
		Pose:    pose,
	}
	for _, o := range h.observers {
		o.Observe(r)
	}
}
