package controller

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
)

// Mode is the locomotion state of a body. Grounded and Airborne are derived
// from each step's probe; Flying overrides both while it is on.
type Mode int

const (
	ModeAirborne Mode = iota
	ModeGrounded
	ModeFlying
)

func (m Mode) String() string {
	switch m {
	case ModeGrounded:
		return "grounded"
	case ModeFlying:
		return "flying"
	default:
		return "airborne"
	}
}

// Controller owns the locomotion state of one body: its bindings, tuning,
// pending input and the ground sample of the current step.
type Controller struct {
	id       physics.BodyID
	cfg      Config
	bindings input.Map
	strategy Strategy

	state     input.State
	toggleFly bool
	pointer   mgl64.Vec2

	flying     bool
	gravitySet bool
	ground     GroundSample
	mode       Mode
	last       Command
	suspension float64
	yawRate    float64
}

func New(id physics.BodyID, cfg Config, bindings input.Map, strategy Strategy) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: nil strategy", ErrInvalidConfig)
	}
	return &Controller{
		id:       id,
		cfg:      cfg,
		bindings: bindings,
		strategy: strategy,
		flying:   cfg.Fly,
		mode:     ModeAirborne,
	}, nil
}

func (c *Controller) ID() physics.BodyID       { return c.id }
func (c *Controller) Config() Config           { return c.cfg }
func (c *Controller) Bindings() input.Map      { return c.bindings }
func (c *Controller) Strategy() Strategy       { return c.strategy }
func (c *Controller) Mode() Mode               { return c.mode }
func (c *Controller) Flying() bool             { return c.flying }
func (c *Controller) Ground() GroundSample     { return c.ground }
func (c *Controller) Input() input.State       { return c.state }
func (c *Controller) LastCommand() Command     { return c.last }
func (c *Controller) YawRate() float64         { return c.yawRate }
func (c *Controller) SuspensionForce() float64 { return c.suspension }

// Configure swaps tuning, bindings and strategy between steps. Turning the
// Fly setting on or off also switches the current fly mode.
func (c *Controller) Configure(cfg Config, bindings input.Map, strategy Strategy) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strategy == nil {
		return fmt.Errorf("%w: nil strategy", ErrInvalidConfig)
	}
	if cfg.Fly != c.cfg.Fly {
		c.flying = cfg.Fly
		c.gravitySet = false
	}
	c.cfg = cfg
	c.bindings = bindings
	c.strategy = strategy
	return nil
}

// Poll records this step's intent from src. The pointer delta is passed in
// separately since a shared source is drained once per step.
func (c *Controller) Poll(src input.Source, pointer mgl64.Vec2) {
	st, tg := input.Poll(src, c.bindings)
	c.state.Merge(st)
	c.toggleFly = c.toggleFly || tg.Fly
	c.pointer = c.pointer.Add(pointer)
}

// Resolve runs the probe, strategy, suspension and turn phases and submits
// the resulting commands to w. It reports false when the body is missing,
// in which case nothing is submitted.
func (c *Controller) Resolve(w physics.World, dt float64) bool {
	body, ok := w.Body(c.id)
	if !ok {
		return false
	}

	if c.toggleFly {
		c.flying = !c.flying
		c.gravitySet = false
		c.toggleFly = false
	}
	if !c.gravitySet {
		scale := 1.0
		if c.flying {
			scale = 0
		}
		w.SetGravityScale(c.id, scale)
		c.gravitySet = true
	}

	c.ground = Probe(w, c.id, body.Transform.Position, c.cfg.MaxProbeDistance)
	c.mode = c.modeFor(c.ground)

	cmd := c.strategy.Resolve(Frame{
		Transform: body.Transform,
		Velocity:  body.LinearVelocity,
		Input:     c.state,
		Config:    c.cfg,
		Ground:    c.ground,
		Flying:    c.flying,
		DT:        dt,
	})

	c.suspension = 0
	if cmd.Vertical == VerticalSuspension {
		c.suspension = Suspension(c.cfg, c.ground, body.LinearVelocity.Y())
		cmd.Force = cmd.Force.Add(common.WorldUp.Mul(c.suspension))
	}

	if cmd.SetVelocity {
		w.SetLinearVelocity(c.id, cmd.Velocity)
	}
	if cmd.Force != (mgl64.Vec3{}) {
		w.ApplyForce(c.id, cmd.Force)
	}
	if cmd.Impulse != (mgl64.Vec3{}) {
		w.ApplyImpulse(c.id, cmd.Impulse)
	}
	if cmd.Translation != (mgl64.Vec3{}) {
		w.Move(c.id, cmd.Translation)
	}

	c.yawRate = YawRate(AccumulatePointer(c.pointer), c.cfg.MaxTurnRate)
	w.SetAngularVelocity(c.id, mgl64.Vec3{0, c.yawRate, 0})

	c.last = cmd
	return true
}

// Follow computes the camera pose from the freshly integrated transform.
func (c *Controller) Follow(w physics.World) (Pose, bool) {
	body, ok := w.Body(c.id)
	if !ok {
		return Pose{}, false
	}
	return Follow(body.Transform, c.cfg.Camera), true
}

// Clear drops this step's intent, including a toggle that never reached a
// resolve because the body was missing.
func (c *Controller) Clear() {
	c.state.Clear()
	c.pointer = mgl64.Vec2{}
	c.toggleFly = false
}

func (c *Controller) modeFor(g GroundSample) Mode {
	switch {
	case c.flying:
		return ModeFlying
	case g.Hit:
		return ModeGrounded
	default:
		return ModeAirborne
	}
}
