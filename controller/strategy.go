package controller

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
)

// VerticalOwner names the one subsystem allowed to drive vertical motion
// during a step.
type VerticalOwner int

const (
	VerticalUntouched VerticalOwner = iota
	VerticalSuspension
	VerticalJump
	VerticalFlight
)

func (v VerticalOwner) String() string {
	switch v {
	case VerticalSuspension:
		return "suspension"
	case VerticalJump:
		return "jump"
	case VerticalFlight:
		return "flight"
	default:
		return "untouched"
	}
}

// Frame is everything a strategy may read for one step.
type Frame struct {
	Transform physics.Transform
	Velocity  mgl64.Vec3
	Input     input.State
	Config    Config
	Ground    GroundSample
	Flying    bool
	DT        float64
}

// Grounded reports whether the step should be treated as ground coupled.
func (f Frame) Grounded() bool {
	return f.Ground.Hit && !f.Flying
}

// Command is what a strategy asks of the integrator for one step. Zero
// fields are not submitted, except Velocity which is gated by SetVelocity.
type Command struct {
	Force       mgl64.Vec3
	Impulse     mgl64.Vec3
	Velocity    mgl64.Vec3
	SetVelocity bool
	Translation mgl64.Vec3
	Vertical    VerticalOwner
}

// Strategy turns one step of intent into integrator commands. Resolve must
// be pure: the same frame always yields the same command.
type Strategy interface {
	Kind() StrategyKind
	Resolve(f Frame) Command
}

type StrategyKind int

const (
	StrategyForce StrategyKind = iota
	StrategyDirect
	StrategyKinematic
)

var strategyNames = map[StrategyKind]string{
	StrategyForce:     "force",
	StrategyDirect:    "direct",
	StrategyKinematic: "kinematic",
}

func (k StrategyKind) String() string {
	if n, ok := strategyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("strategy(%d)", int(k))
}

func ParseStrategy(name string) (StrategyKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return StrategyForce, nil
	}
	for k, v := range strategyNames {
		if v == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
}

func NewStrategy(kind StrategyKind) (Strategy, error) {
	switch kind {
	case StrategyForce:
		return ForceStrategy{}, nil
	case StrategyDirect:
		return DirectStrategy{}, nil
	case StrategyKinematic:
		return KinematicStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %s", ErrInvalidConfig, kind)
}
