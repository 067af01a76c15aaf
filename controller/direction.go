package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
)

// MoveDirection sums the held directions in the body's frame, flattens the
// result onto the ground plane and normalises it. Opposite keys cancel.
func MoveDirection(t physics.Transform, st input.State) mgl64.Vec3 {
	var dir mgl64.Vec3
	if st.Forward {
		dir = dir.Add(t.Forward())
	}
	if st.Backward {
		dir = dir.Sub(t.Forward())
	}
	if st.Right {
		dir = dir.Add(t.Right())
	}
	if st.Left {
		dir = dir.Sub(t.Right())
	}
	return common.NormalizeOrZero(common.Horizontal(dir))
}

// VerticalAxis is +1, -1 or 0 for the fly up/down keys.
func VerticalAxis(st input.State) float64 {
	var v float64
	if st.Up {
		v++
	}
	if st.Down {
		v--
	}
	return v
}
