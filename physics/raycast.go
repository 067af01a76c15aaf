package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// CastRay tests the ground plane, every static box and every other body.
func (s *Sim) CastRay(origin, dir mgl64.Vec3, maxDistance float64, exclude BodyID) (RayHit, bool) {
	if s == nil || maxDistance <= 0 {
		return RayHit{}, false
	}
	dir = common.NormalizeOrZero(dir)
	if dir.Len() == 0 {
		return RayHit{}, false
	}

	best := RayHit{Distance: math.Inf(1)}
	hasHit := false
	consider := func(t float64, normal mgl64.Vec3, body BodyID) {
		if t < 0 || t > maxDistance || t >= best.Distance {
			return
		}
		best = RayHit{
			Body:     body,
			Point:    origin.Add(dir.Mul(t)),
			Normal:   normal,
			Distance: t,
		}
		hasHit = true
	}

	if s.cfg.Ground && dir.Y() != 0 {
		t := (s.cfg.GroundLevel - origin.Y()) / dir.Y()
		consider(t, mgl64.Vec3{0, 1, 0}, 0)
	}

	for _, box := range s.boxes {
		if t, n, ok := rayBoxHit(origin, dir, box); ok {
			consider(t, n, 0)
		}
	}

	for _, id := range s.order {
		if id == exclude {
			continue
		}
		b := s.bodies[id]
		center := b.state.Transform.Position
		if t, ok := raySphereHit(origin, dir, center, b.radius); ok {
			n := common.NormalizeOrZero(origin.Add(dir.Mul(t)).Sub(center))
			consider(t, n, id)
		}
	}

	return best, hasHit
}

// rayBoxHit is the slab test; dir must be unit length.
func rayBoxHit(origin, dir mgl64.Vec3, box Box) (float64, mgl64.Vec3, bool) {
	tmin := 0.0
	tmax := math.Inf(1)
	var normal mgl64.Vec3

	for axis := 0; axis < 3; axis++ {
		o := origin[axis]
		d := dir[axis]
		lo := box.Min[axis]
		hi := box.Max[axis]

		if d == 0 {
			if o < lo || o > hi {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}

		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tmin {
			tmin = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, mgl64.Vec3{}, false
		}
	}

	if normal.Len() == 0 {
		// origin inside the box
		normal = dir.Mul(-1)
	}
	return tmin, normal, true
}

// raySphereHit returns the nearest non-negative intersection distance.
func raySphereHit(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	f := origin.Sub(center)
	b := 2 * f.Dot(dir)
	c := f.Dot(f) - radius*radius

	disc := b*b - 4*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / 2
	t2 := (-b + sq) / 2
	if t1 >= 0 {
		return t1, true
	}
	if t2 >= 0 {
		return t2, true
	}
	return 0, false
}
