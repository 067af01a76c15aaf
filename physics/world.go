package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// BodyID identifies a body inside a World. Zero is never a valid body and is
// reported for hits against static geometry.
type BodyID int

// Transform is a body's position and orientation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Forward is the direction the body faces.
func (t Transform) Forward() mgl64.Vec3 {
	return t.rotation().Rotate(common.WorldForward)
}

func (t Transform) Right() mgl64.Vec3 {
	return t.rotation().Rotate(common.WorldRight)
}

func (t Transform) Up() mgl64.Vec3 {
	return t.rotation().Rotate(common.WorldUp)
}

// a zero Quat is not a rotation; treat it as identity.
func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

// BodyState is the physical state of a body as last committed by the
// integrator. Controllers read it and submit commands; they never write it.
type BodyState struct {
	Transform       Transform
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Force           mgl64.Vec3
}

// RayHit describes the first surface a ray reached.
type RayHit struct {
	Body     BodyID
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// World is the physics integrator and collision service a controller drives.
type World interface {
	Body(id BodyID) (BodyState, bool)
	// CastRay returns the nearest solid hit along dir within maxDistance,
	// ignoring every collider owned by exclude.
	CastRay(origin, dir mgl64.Vec3, maxDistance float64, exclude BodyID) (RayHit, bool)
	ApplyForce(id BodyID, force mgl64.Vec3)
	ApplyImpulse(id BodyID, impulse mgl64.Vec3)
	SetLinearVelocity(id BodyID, v mgl64.Vec3)
	SetAngularVelocity(id BodyID, w mgl64.Vec3)
	// Move requests a translation applied during the next Step.
	Move(id BodyID, delta mgl64.Vec3)
	SetGravityScale(id BodyID, scale float64)
	Step(dt float64)
}
