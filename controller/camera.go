package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/physics"
)

// Pose is a camera placement handed to a Sink.
type Pose struct {
	Position    mgl64.Vec3
	Target      mgl64.Vec3
	Orientation mgl64.Quat
}

// Sink displays camera poses. The controller never reads back from it.
type Sink interface {
	Present(id physics.BodyID, pose Pose)
}

// Follow places the camera behind and above the body, looking at a point
// ahead of it. The result depends only on t and cam.
func Follow(t physics.Transform, cam CameraConfig) Pose {
	p := t.Position
	heading := t.Forward()
	pose := Pose{
		Position: p.Sub(heading.Mul(cam.FollowDistance)).Add(t.Up().Mul(cam.Height)),
		Target:   p.Add(heading.Mul(cam.FollowDistance)),
	}
	pose.Orientation = lookAt(pose.Position, pose.Target)
	return pose
}

func lookAt(eye, target mgl64.Vec3) mgl64.Quat {
	dir := target.Sub(eye)
	if dir.Len() < common.Epsilon {
		return mgl64.QuatIdent()
	}
	up := common.WorldUp
	if common.Horizontal(dir).Len() < common.Epsilon {
		up = common.WorldForward
	}
	return mgl64.QuatLookAtV(eye, target, up)
}
