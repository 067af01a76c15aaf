package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// DefaultGravity matches a y-up world measured in metres.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// Box is a static axis-aligned solid.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// SimConfig configures the reference integrator.
type SimConfig struct {
	Gravity       mgl64.Vec3
	Ground        bool
	GroundLevel   float64
	LinearDamping float64
}

// BodyDef describes a dynamic sphere body.
type BodyDef struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Mass     float64
	Radius   float64
}

type simBody struct {
	state        BodyState
	mass         float64
	radius       float64
	gravityScale float64
	impulse      mgl64.Vec3
	move         mgl64.Vec3
}

// Sim is a small semi-implicit Euler integrator for sphere bodies over
// static boxes and an optional ground plane.
type Sim struct {
	cfg    SimConfig
	boxes  []Box
	bodies map[BodyID]*simBody
	order  []BodyID
	next   BodyID
}

var _ World = (*Sim)(nil)

func NewSim(cfg SimConfig) *Sim {
	return &Sim{
		cfg:    cfg,
		bodies: make(map[BodyID]*simBody),
	}
}

// AddBox adds static geometry.
func (s *Sim) AddBox(b Box) {
	if s == nil {
		return
	}
	s.boxes = append(s.boxes, b)
}

// Boxes returns the static geometry.
func (s *Sim) Boxes() []Box {
	if s == nil {
		return nil
	}
	return append([]Box(nil), s.boxes...)
}

// AddBody creates a dynamic body and returns its id.
func (s *Sim) AddBody(def BodyDef) BodyID {
	if s == nil {
		return 0
	}
	if def.Mass <= 0 {
		def.Mass = 1
	}
	if def.Radius <= 0 {
		def.Radius = 0.5
	}
	rot := def.Rotation
	if rot.W == 0 && rot.V.Len() == 0 {
		rot = mgl64.QuatIdent()
	}
	s.next++
	id := s.next
	s.bodies[id] = &simBody{
		state:        BodyState{Transform: Transform{Position: def.Position, Rotation: rot}},
		mass:         def.Mass,
		radius:       def.Radius,
		gravityScale: 1,
	}
	s.order = append(s.order, id)
	return id
}

// RemoveBody deletes a body. Unknown ids are ignored.
func (s *Sim) RemoveBody(id BodyID) {
	if s == nil {
		return
	}
	if _, ok := s.bodies[id]; !ok {
		return
	}
	delete(s.bodies, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Sim) Body(id BodyID) (BodyState, bool) {
	if s == nil {
		return BodyState{}, false
	}
	b, ok := s.bodies[id]
	if !ok {
		return BodyState{}, false
	}
	return b.state, true
}

func (s *Sim) ApplyForce(id BodyID, force mgl64.Vec3) {
	if b := s.body(id); b != nil {
		b.state.Force = b.state.Force.Add(force)
	}
}

func (s *Sim) ApplyImpulse(id BodyID, impulse mgl64.Vec3) {
	if b := s.body(id); b != nil {
		b.impulse = b.impulse.Add(impulse)
	}
}

func (s *Sim) SetLinearVelocity(id BodyID, v mgl64.Vec3) {
	if b := s.body(id); b != nil {
		b.state.LinearVelocity = v
	}
}

func (s *Sim) SetAngularVelocity(id BodyID, w mgl64.Vec3) {
	if b := s.body(id); b != nil {
		b.state.AngularVelocity = w
	}
}

func (s *Sim) Move(id BodyID, delta mgl64.Vec3) {
	if b := s.body(id); b != nil {
		b.move = b.move.Add(delta)
	}
}

func (s *Sim) SetGravityScale(id BodyID, scale float64) {
	if b := s.body(id); b != nil {
		b.gravityScale = scale
	}
}

func (s *Sim) body(id BodyID) *simBody {
	if s == nil {
		return nil
	}
	return s.bodies[id]
}

// Step advances every body by dt and clears accumulated forces, impulses
// and move requests.
func (s *Sim) Step(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	for _, id := range s.order {
		b := s.bodies[id]
		invMass := 1 / b.mass

		v := b.state.LinearVelocity.Add(b.impulse.Mul(invMass))
		accel := s.cfg.Gravity.Mul(b.gravityScale).Add(b.state.Force.Mul(invMass))
		v = v.Add(accel.Mul(dt))
		if s.cfg.LinearDamping > 0 {
			v = v.Mul(1 / (1 + s.cfg.LinearDamping*dt))
		}

		pos := b.state.Transform.Position.Add(v.Mul(dt)).Add(b.move)

		rot := b.state.Transform.Rotation
		if w := b.state.AngularVelocity; w.Len() > 0 {
			spin := mgl64.Quat{W: 0, V: w.Mul(0.5 * dt)}
			rot = rot.Add(spin.Mul(rot)).Normalize()
		}

		pos, v = s.resolve(pos, v, b.radius)

		b.state.Transform = Transform{Position: pos, Rotation: rot}
		b.state.LinearVelocity = v
		b.state.Force = mgl64.Vec3{}
		b.impulse = mgl64.Vec3{}
		b.move = mgl64.Vec3{}
	}
}

// resolve pushes a sphere out of static geometry and removes the velocity
// component driving it into the contact.
func (s *Sim) resolve(pos, v mgl64.Vec3, radius float64) (mgl64.Vec3, mgl64.Vec3) {
	if s.cfg.Ground && pos.Y()-radius < s.cfg.GroundLevel {
		pos[1] = s.cfg.GroundLevel + radius
		if v.Y() < 0 {
			v[1] = 0
		}
	}

	for _, box := range s.boxes {
		closest := mgl64.Vec3{
			common.Clamp(pos.X(), box.Min.X(), box.Max.X()),
			common.Clamp(pos.Y(), box.Min.Y(), box.Max.Y()),
			common.Clamp(pos.Z(), box.Min.Z(), box.Max.Z()),
		}
		d := pos.Sub(closest)
		dist := d.Len()
		if dist >= radius {
			continue
		}

		var n mgl64.Vec3
		if dist > 1e-9 {
			n = d.Mul(1 / dist)
			pos = pos.Add(n.Mul(radius - dist))
		} else {
			// centre inside the box: lift onto its top face
			n = mgl64.Vec3{0, 1, 0}
			pos[1] = box.Max.Y() + radius
		}
		if vn := v.Dot(n); vn < 0 {
			v = v.Sub(n.Mul(vn))
		}
	}
	return pos, v
}
