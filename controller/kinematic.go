package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// KinematicStrategy requests translations while grounded and leaves an
// airborne body to the integrator. A grounded jump becomes an impulse that
// carries the current heading so the arc keeps its ground speed; the next
// grounded step drops that horizontal velocity again.
type KinematicStrategy struct{}

func (KinematicStrategy) Kind() StrategyKind { return StrategyKinematic }

func (KinematicStrategy) Resolve(f Frame) Command {
	dir := MoveDirection(f.Transform, f.Input)
	speed := f.Config.Speed(f.Input.Run)

	if f.Flying {
		step := dir.Mul(speed).Add(common.WorldUp.Mul(VerticalAxis(f.Input) * f.Config.FlySpeed))
		return Command{
			Translation: step.Mul(f.DT),
			SetVelocity: true,
			Vertical:    VerticalFlight,
		}
	}
	if !f.Grounded() {
		return Command{}
	}

	cmd := Command{Translation: dir.Mul(speed * f.DT)}
	if f.Input.Jump {
		cmd.Impulse = common.WorldUp.Mul(f.Config.JumpSpeed).Add(dir.Mul(speed))
		cmd.Vertical = VerticalJump
		return cmd
	}
	cmd.Velocity = mgl64.Vec3{0, f.Velocity.Y(), 0}
	cmd.SetVelocity = true
	return cmd
}
