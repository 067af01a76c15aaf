package controller

import (
	"github.com/go-gl/mathgl/mgl64"
)

// DirectStrategy overwrites the horizontal velocity every step. The vertical
// component is left to the integrator unless a grounded jump replaces it.
type DirectStrategy struct{}

func (DirectStrategy) Kind() StrategyKind { return StrategyDirect }

func (DirectStrategy) Resolve(f Frame) Command {
	dir := MoveDirection(f.Transform, f.Input)
	h := dir.Mul(f.Config.Speed(f.Input.Run))

	if f.Flying {
		return Command{
			Velocity:    mgl64.Vec3{h.X(), VerticalAxis(f.Input) * f.Config.FlySpeed, h.Z()},
			SetVelocity: true,
			Vertical:    VerticalFlight,
		}
	}

	cmd := Command{
		Velocity:    mgl64.Vec3{h.X(), f.Velocity.Y(), h.Z()},
		SetVelocity: true,
	}
	if f.Input.Jump && f.Grounded() {
		cmd.Velocity[1] = f.Config.JumpSpeed
		cmd.Vertical = VerticalJump
	}
	return cmd
}
