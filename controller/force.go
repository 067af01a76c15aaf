package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// ForceStrategy servos the horizontal velocity toward the target with a
// corrective force and leaves height to the suspension spring. A grounded
// jump replaces the spring for that step with an upward impulse.
type ForceStrategy struct{}

func (ForceStrategy) Kind() StrategyKind { return StrategyForce }

func (ForceStrategy) Resolve(f Frame) Command {
	target := MoveDirection(f.Transform, f.Input).Mul(f.Config.Speed(f.Input.Run))

	if f.Flying {
		target[1] = VerticalAxis(f.Input) * f.Config.FlySpeed
		return Command{Force: target.Sub(f.Velocity), Vertical: VerticalFlight}
	}

	needed := target.Sub(f.Velocity)
	cmd := Command{Force: mgl64.Vec3{needed.X(), 0, needed.Z()}}
	switch {
	case !f.Ground.Hit:
	case f.Input.Jump:
		cmd.Impulse = common.WorldUp.Mul(f.Config.JumpSpeed)
		cmd.Vertical = VerticalJump
	default:
		cmd.Vertical = VerticalSuspension
	}
	return cmd
}
