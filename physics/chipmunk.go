package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/common"
)

// Chipmunk is a side-view World backed by Chipmunk2D. World X and Y map onto
// the Chipmunk plane; Z and yaw are not simulated, so Z inputs are dropped and
// bodies always face +X.
type Chipmunk struct {
	space  *cp.Space
	bodies map[BodyID]*cpBody
	order  []BodyID
	next   BodyID
}

type cpBody struct {
	body         *cp.Body
	shape        *cp.Shape
	gravityScale float64
	move         mgl64.Vec3
	angular      mgl64.Vec3
}

var _ World = (*Chipmunk)(nil)

// sideHeading turns WorldForward onto +X, leaving right along the dropped Z.
var sideHeading = common.Yaw(-math.Pi / 2)

// NewChipmunk creates a space with gravity along -Y.
func NewChipmunk(gravity float64) *Chipmunk {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	return &Chipmunk{
		space:  space,
		bodies: make(map[BodyID]*cpBody),
	}
}

// Space returns the underlying Chipmunk space.
func (c *Chipmunk) Space() *cp.Space {
	if c == nil {
		return nil
	}
	return c.space
}

// AddGround adds a static box covering [minX, maxX] x [minY, maxY].
func (c *Chipmunk) AddGround(minX, minY, maxX, maxY float64) {
	if c == nil {
		return
	}
	bb := cp.BB{L: minX, B: minY, R: maxX, T: maxY}
	shape := cp.NewBox2(c.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	c.space.AddShape(shape)
}

// AddBody creates a circle body. Rotation is locked; turning is a pure
// rate command in this backend.
func (c *Chipmunk) AddBody(def BodyDef) BodyID {
	if c == nil {
		return 0
	}
	if def.Mass <= 0 {
		def.Mass = 1
	}
	if def.Radius <= 0 {
		def.Radius = 0.5
	}

	c.next++
	id := c.next

	body := cp.NewBody(def.Mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: def.Position.X(), Y: def.Position.Y()})
	shape := cp.NewCircle(body, def.Radius, cp.Vector{})
	shape.SetFriction(0)
	// shapes sharing a non-zero group never report each other; queries made
	// with the same group skip the body's own collider.
	shape.SetFilter(cp.NewShapeFilter(uint(id), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))

	rec := &cpBody{body: body, shape: shape, gravityScale: 1}
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity.Mult(rec.gravityScale), damping, dt)
	})

	c.space.AddBody(body)
	c.space.AddShape(shape)
	c.bodies[id] = rec
	c.order = append(c.order, id)
	return id
}

func (c *Chipmunk) Body(id BodyID) (BodyState, bool) {
	b := c.body(id)
	if b == nil {
		return BodyState{}, false
	}
	p := b.body.Position()
	v := b.body.Velocity()
	f := b.body.Force()
	return BodyState{
		Transform: Transform{
			Position: mgl64.Vec3{p.X, p.Y, 0},
			Rotation: sideHeading,
		},
		LinearVelocity:  mgl64.Vec3{v.X, v.Y, 0},
		AngularVelocity: b.angular,
		Force:           mgl64.Vec3{f.X, f.Y, 0},
	}, true
}

func (c *Chipmunk) CastRay(origin, dir mgl64.Vec3, maxDistance float64, exclude BodyID) (RayHit, bool) {
	if c == nil || maxDistance <= 0 {
		return RayHit{}, false
	}
	d := cp.Vector{X: dir.X(), Y: dir.Y()}
	l := d.Length()
	if l == 0 {
		return RayHit{}, false
	}
	d = d.Mult(maxDistance / l)

	start := cp.Vector{X: origin.X(), Y: origin.Y()}
	end := start.Add(d)
	filter := cp.SHAPE_FILTER_ALL
	if exclude != 0 {
		filter = cp.NewShapeFilter(uint(exclude), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	}

	info := c.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return RayHit{}, false
	}
	var hitBody BodyID
	for _, id := range c.order {
		if c.bodies[id].shape == info.Shape {
			hitBody = id
			break
		}
	}
	return RayHit{
		Body:     hitBody,
		Point:    mgl64.Vec3{info.Point.X, info.Point.Y, origin.Z()},
		Normal:   mgl64.Vec3{info.Normal.X, info.Normal.Y, 0},
		Distance: info.Alpha * maxDistance,
	}, true
}

func (c *Chipmunk) ApplyForce(id BodyID, force mgl64.Vec3) {
	if b := c.body(id); b != nil {
		b.body.ApplyForceAtLocalPoint(cp.Vector{X: force.X(), Y: force.Y()}, cp.Vector{})
	}
}

func (c *Chipmunk) ApplyImpulse(id BodyID, impulse mgl64.Vec3) {
	if b := c.body(id); b != nil {
		b.body.ApplyImpulseAtLocalPoint(cp.Vector{X: impulse.X(), Y: impulse.Y()}, cp.Vector{})
	}
}

func (c *Chipmunk) SetLinearVelocity(id BodyID, v mgl64.Vec3) {
	if b := c.body(id); b != nil {
		b.body.SetVelocityVector(cp.Vector{X: v.X(), Y: v.Y()})
	}
}

// SetAngularVelocity records the command so Body reports it back; the body
// itself never rotates.
func (c *Chipmunk) SetAngularVelocity(id BodyID, w mgl64.Vec3) {
	if b := c.body(id); b != nil {
		b.angular = w
	}
}

func (c *Chipmunk) Move(id BodyID, delta mgl64.Vec3) {
	if b := c.body(id); b != nil {
		b.move = b.move.Add(delta)
	}
}

func (c *Chipmunk) SetGravityScale(id BodyID, scale float64) {
	if b := c.body(id); b != nil {
		b.gravityScale = scale
	}
}

func (c *Chipmunk) Step(dt float64) {
	if c == nil || dt <= 0 {
		return
	}
	for _, id := range c.order {
		b := c.bodies[id]
		if b.move.Len() == 0 {
			continue
		}
		p := b.body.Position()
		b.body.SetPosition(cp.Vector{X: p.X + b.move.X(), Y: p.Y + b.move.Y()})
		b.move = mgl64.Vec3{}
	}
	c.space.Step(dt)
}

func (c *Chipmunk) body(id BodyID) *cpBody {
	if c == nil {
		return nil
	}
	return c.bodies[id]
}
